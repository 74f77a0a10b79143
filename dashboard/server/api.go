package server

import (
	"opsflow/dashboard/server/middleware"
	"opsflow/pkg/utils/resp"

	"github.com/gin-gonic/gin"
)

func (s *Server) apiRouter() {
	r := s.Engine
	s.Use(middleware.CORSMiddleware())
	s.Use(middleware.MetricsMiddleware())

	r.GET("/health", s.health)

	authApi := r.Group("/api/v1/auth")
	{
		authApi.POST("/login", s.login)
		authApi.POST("/logout", s.logout)

		protected := authApi.Group("", middleware.AuthMiddleware(s.db))
		protected.GET("/me", s.me)
		protected.GET("/validate", s.validate)
		protected.POST("/refresh", s.refresh)
	}

	api := r.Group("/api/v1", middleware.AuthMiddleware(s.db))

	userApi := api.Group("/users")
	{
		userApi.GET("", s.listUsers)
		userApi.POST("", s.createUser)
		userApi.GET("/:id", s.getUser)
		userApi.PUT("/:id", s.updateUser)
		userApi.DELETE("/:id", s.deleteUser)
	}

	functionApi := api.Group("/functions")
	{
		functionApi.GET("", s.listFunctions)
		functionApi.POST("", s.createFunction)
		functionApi.GET("/:id", s.getFunction)
		functionApi.PUT("/:id", s.updateFunction)
		functionApi.DELETE("/:id", s.deleteFunction)
		functionApi.POST("/:id/execute", s.executeFunction)
	}

	requestApi := api.Group("/requests")
	{
		requestApi.GET("", s.listRequests)
		requestApi.POST("", s.createRequest)
		requestApi.GET("/:id", s.getRequest)
		requestApi.POST("/:id/approve", s.approveRequest)
		requestApi.POST("/:id/reject", s.rejectRequest)
		requestApi.DELETE("/:id", s.cancelRequest)
	}

	dashboardApi := api.Group("/dashboard")
	{
		dashboardApi.GET("/stats", s.stats)
		dashboardApi.GET("/recent-activity", s.recentActivity)
		dashboardApi.GET("/system", s.system)
	}
}

func (s *Server) health(c *gin.Context) {
	dbStatus := "up"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
	}
	resp.OK(c, gin.H{"status": "healthy", "service": "opsflow", "database": dbStatus})
}
