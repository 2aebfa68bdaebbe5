package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(tracing, s.accessLog, gin.CustomRecovery(s.recovery))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Not Found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
	})

	users := r.Group("/users")
	{
		users.POST("/", s.createUser)
		users.POST("/token/", s.login)
		users.GET("/", s.authenticate, s.listUsers)
		users.DELETE("/:user_id/", s.authenticate, s.deleteUser)
	}

	salary := r.Group("/salary", s.authenticate)
	{
		salary.GET("/me/", s.mySalary)
		salary.GET("/:user_id/", s.userSalary)
		salary.PATCH("/:user_id/", s.updateSalary)
	}

	return r
}
