package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/salaries/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bind decodes the request into obj. A body that cannot be decoded aborts
// the request; validation failures are handed back for field-order checks.
func bind(c *gin.Context, obj any, b binding.Binding) (validator.ValidationErrors, bool) {
	err := c.ShouldBindWith(obj, b)
	if err == nil {
		return nil, true
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}

	abortFields(c, decodeErrors(err))
	return nil, false
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortFields(c, []fieldError{{
			Loc:  []string{"path", name},
			Msg:  "value is not a valid uuid",
			Type: "type_error.uuid",
		}})
		return uuid.Nil, false
	}
	return id, true
}

// requireAdmin runs the admin gate for the resolved caller.
func (s *Server) requireAdmin(c *gin.Context) bool {
	if err := auth.RequireAdmin(caller(c)); err != nil {
		s.fail(c, err)
		return false
	}
	return true
}

func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	invalid, ok := bind(c, &req, binding.JSON)
	if !ok {
		return
	}

	in, fields, err := req.toNewUser(invalid)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(fields) > 0 {
		abortFields(c, fields)
		return
	}

	user, err := s.users.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (s *Server) login(c *gin.Context) {
	var req TokenRequest
	invalid, ok := bind(c, &req, binding.Form)
	if !ok {
		return
	}
	if len(invalid) > 0 {
		fields := make([]fieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, fromValidation(fe))
		}
		abortFields(c, fields)
		return
	}

	tok, err := s.users.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

func (s *Server) listUsers(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}

	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserListResponse(users))
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	if !s.requireAdmin(c) {
		return
	}

	if err := s.users.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) mySalary(c *gin.Context) {
	me := caller(c)
	if me.Salary != nil {
		c.JSON(http.StatusOK, newSalaryResponse(me.Salary))
		return
	}

	salary, err := s.salaries.GetByUserID(c.Request.Context(), me.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newSalaryResponse(salary))
}

func (s *Server) userSalary(c *gin.Context) {
	id, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	if !s.requireAdmin(c) {
		return
	}

	salary, err := s.salaries.GetByUserID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newSalaryResponse(salary))
}

func (s *Server) updateSalary(c *gin.Context) {
	id, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	var req UpdateSalaryRequest
	if _, ok := bind(c, &req, binding.JSON); !ok {
		return
	}
	patch, fields := req.toPatch()
	if len(fields) > 0 {
		abortFields(c, fields)
		return
	}

	if !s.requireAdmin(c) {
		return
	}

	user, err := s.salaries.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
