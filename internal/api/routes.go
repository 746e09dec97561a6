package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/cards", s.filterHandler)
		api.POST("/cards/render", s.renderHandler)
		api.POST("/markup/wrap", s.wrapHandler)
		api.GET("/qr", qrHandler)
	}
}
