// Package httpapi is the public HTTP surface of the service: request
// binding and validation, caller resolution, the admin gate and response
// shaping, on top of gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/salaries/internal/logging"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/dmitrijs2005/salaries/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const shutdownTimeout = 5 * time.Second

// UserService is the account side of the domain as seen by the handlers.
type UserService interface {
	Create(ctx context.Context, in services.NewUser) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.Token, error)
	ResolveToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalaryService is the salary side of the domain as seen by the handlers.
type SalaryService interface {
	Update(ctx context.Context, userID uuid.UUID, patch models.SalaryPatch) (*models.User, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Salary, error)
}

type Server struct {
	address  string
	logger   logging.Logger
	users    UserService
	salaries SalaryService
	engine   *gin.Engine
}

func NewServer(a string, l logging.Logger, us UserService, ss SalaryService) *Server {
	s := &Server{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    us,
		salaries: ss,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve handles requests on listen until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests shutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
