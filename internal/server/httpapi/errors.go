package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	detailNotAuthenticated = "Not authenticated"
	detailInternal         = "Internal Server Error"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// fieldError is one entry of a request shape error, e.g.
// {"loc": ["body", "email"], "msg": "field required", "type": "value_error.missing"}.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type fieldErrorsResponse struct {
	Detail []fieldError `json:"detail"`
}

func missingField(loc ...string) fieldError {
	return fieldError{Loc: loc, Msg: "field required", Type: "value_error.missing"}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the JSON rendering of err. Errors without a
// known sentinel are logged and hidden behind a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, errorResponse{Detail: detailInternal})
		return
	}

	detail, ok := common.Detail(err)
	if !ok {
		detail = http.StatusText(status)
	}
	if errors.Is(err, common.ErrInvalidToken) {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

func abortFields(c *gin.Context, errs []fieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, fieldErrorsResponse{Detail: errs})
}

// fromValidation renders a validator failure in the field error format.
func fromValidation(fe validator.FieldError) fieldError {
	loc := []string{"body", fe.Field()}
	switch fe.Tag() {
	case "required":
		return missingField(loc...)
	case "email":
		return fieldError{Loc: loc, Msg: "value is not a valid email address", Type: "value_error.email"}
	default:
		return fieldError{Loc: loc, Msg: fe.Error(), Type: "value_error." + fe.Tag()}
	}
}

// decodeErrors renders a body that could not be decoded at all.
func decodeErrors(err error) []fieldError {
	if errors.Is(err, io.EOF) {
		return []fieldError{missingField("body")}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg, typ := typeMismatch(typeErr.Type.Kind().String())
		if typeErr.Field == "increase_date" {
			msg, typ = "invalid datetime format", "value_error.datetime"
		}
		return []fieldError{{Loc: []string{"body", typeErr.Field}, Msg: msg, Type: typ}}
	}

	return []fieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"}}
}

func typeMismatch(kind string) (string, string) {
	switch kind {
	case "string":
		return "str type expected", "type_error.str"
	case "float64", "float32":
		return "value is not a valid float", "type_error.float"
	default:
		return "invalid type", "type_error"
	}
}
