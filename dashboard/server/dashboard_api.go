package server

import (
	"github.com/gin-gonic/gin"

	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"
)

func (s *Server) stats(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	stats, err := s.dashboardService.Stats(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, stats)
}

func (s *Server) recentActivity(c *gin.Context) {
	activity, err := s.dashboardService.RecentActivity(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.OK(c, activity)
}

func (s *Server) system(c *gin.Context) {
	resp.OK(c, s.dashboardService.System(c.Request.Context()))
}
