package server

import (
	"github.com/gin-gonic/gin"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"
)

func (s *Server) listFunctions(c *gin.Context) {
	var params dto.FunctionParams
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	_, role := middleware.CurrentUser(c)
	functions, err := s.functionService.List(c.Request.Context(), role, &params)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, functions)
}

func (s *Server) createFunction(c *gin.Context) {
	var d dto.FunctionCreateDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	_, role := middleware.CurrentUser(c)
	fn, err := s.functionService.Create(c.Request.Context(), role, &d)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.Created(c, fn)
}

func (s *Server) getFunction(c *gin.Context) {
	fn, err := s.functionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, fn)
}

func (s *Server) updateFunction(c *gin.Context) {
	var d dto.FunctionUpdateDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	_, role := middleware.CurrentUser(c)
	fn, err := s.functionService.Update(c.Request.Context(), role, c.Param("id"), &d)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, fn)
}

func (s *Server) deleteFunction(c *gin.Context) {
	_, role := middleware.CurrentUser(c)

	if err := s.functionService.Delete(c.Request.Context(), role, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	resp.Message(c, "function deactivated")
}

// executeFunction opens an execution request for the function. Admin
// callers skip the review queue: their request is approved in the same
// call, by themselves.
func (s *Server) executeFunction(c *gin.Context) {
	var d dto.ExecuteDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	userID, role := middleware.CurrentUser(c)
	req, err := s.requestService.Create(c.Request.Context(), userID, role, c.Param("id"), d.Parameters)
	if err != nil {
		s.fail(c, err)
		return
	}

	if role == model.RoleAdmin {
		req, err = s.requestService.Approve(c.Request.Context(), req.ID, userID, role)
		if err != nil {
			s.fail(c, err)
			return
		}
	}
	resp.Created(c, req)
}
