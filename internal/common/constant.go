package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the token type reported to clients and expected in the
// Authorization header (matched case-insensitively).
const BearerScheme = "bearer"

// Reserved account literals. Only the bootstrap admin may use them.
const (
	ReservedUsername = "admin"
	ReservedEmail    = "admin@admin.ru"
)
