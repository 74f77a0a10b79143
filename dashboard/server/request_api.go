package server

import (
	"github.com/gin-gonic/gin"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"
)

func (s *Server) listRequests(c *gin.Context) {
	var params dto.RequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	actorID, role := middleware.CurrentUser(c)
	requests, err := s.requestService.List(c.Request.Context(), actorID, role, &params)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, requests)
}

func (s *Server) createRequest(c *gin.Context) {
	var d dto.RequestCreateDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	userID, role := middleware.CurrentUser(c)
	req, err := s.requestService.Create(c.Request.Context(), userID, role, d.FunctionID, d.Parameters)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.Created(c, req)
}

func (s *Server) getRequest(c *gin.Context) {
	actorID, role := middleware.CurrentUser(c)

	req, err := s.requestService.Get(c.Request.Context(), c.Param("id"), actorID, role)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, req)
}

func (s *Server) approveRequest(c *gin.Context) {
	reviewerID, role := middleware.CurrentUser(c)

	req, err := s.requestService.Approve(c.Request.Context(), c.Param("id"), reviewerID, role)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, req)
}

func (s *Server) rejectRequest(c *gin.Context) {
	var d dto.RejectDto
	if err := c.ShouldBindJSON(&d); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	reviewerID, role := middleware.CurrentUser(c)
	req, err := s.requestService.Reject(c.Request.Context(), c.Param("id"), reviewerID, role, d.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, req)
}

func (s *Server) cancelRequest(c *gin.Context) {
	actorID, role := middleware.CurrentUser(c)

	if err := s.requestService.Cancel(c.Request.Context(), c.Param("id"), actorID, role); err != nil {
		s.fail(c, err)
		return
	}
	resp.Message(c, "request cancelled")
}
