package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"
)

func (s *Server) login(c *gin.Context) {
	var d dto.LoginDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	result, err := s.authService.Login(c.Request.Context(), &d)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, result)
}

// logout is stateless: tokens expire on their own, the endpoint exists
// so clients have a uniform call to clear their session against.
func (s *Server) logout(c *gin.Context) {
	resp.Message(c, "logged out")
}

func (s *Server) me(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	user, err := s.authService.GetMe(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, user)
}

func (s *Server) validate(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	result, err := s.authService.Validate(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, result)
}

func (s *Server) refresh(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	refreshed, err := s.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, gin.H{"access_token": refreshed, "token_type": "bearer"})
}
