package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	callerKey  = "caller"
	tracerName = "github.com/dmitrijs2005/salaries/internal/server/httpapi"
)

// authenticate resolves the bearer token into the calling user and stores it
// in the gin context. The scheme is matched case-insensitively.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	scheme, token, _ := strings.Cut(header, " ")
	if header == "" || !strings.EqualFold(scheme, common.BearerScheme) {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: detailNotAuthenticated})
		return
	}

	user, err := s.users.ResolveToken(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Set(callerKey, user)
	c.Next()
}

func caller(c *gin.Context) *models.User {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()

	c.Next()

	s.logger.Info(c.Request.Context(), "http request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

// tracing opens a server span per request, continuing any W3C trace context
// sent by the client.
func tracing(c *gin.Context) {
	ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, c.Request.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
		),
	)
	defer span.End()

	c.Request = c.Request.WithContext(ctx)
	c.Next()

	status := c.Writer.Status()
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
	}
}

func (s *Server) recovery(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: detailInternal})
}
