package server

import (
	"github.com/gin-gonic/gin"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"
)

func (s *Server) listUsers(c *gin.Context) {
	var params dto.UserParams
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	_, role := middleware.CurrentUser(c)
	users, err := s.userService.List(c.Request.Context(), role, &params)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, users)
}

func (s *Server) createUser(c *gin.Context) {
	var d dto.UserCreateDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	_, role := middleware.CurrentUser(c)
	user, err := s.userService.Create(c.Request.Context(), role, &d)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.Created(c, user)
}

func (s *Server) getUser(c *gin.Context) {
	actorID, role := middleware.CurrentUser(c)

	user, err := s.userService.Get(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, user)
}

func (s *Server) updateUser(c *gin.Context) {
	var d dto.UserUpdateDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	actorID, role := middleware.CurrentUser(c)
	user, err := s.userService.Update(c.Request.Context(), actorID, role, c.Param("id"), &d)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	_, role := middleware.CurrentUser(c)

	if err := s.userService.Delete(c.Request.Context(), role, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	resp.Message(c, "user deleted")
}
