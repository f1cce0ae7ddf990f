package http

import "github.com/gin-gonic/gin"

// NewRouter builds the vault server engine. Everything under /api/v1 is
// owner-scoped and requires a valid bearer token.
func NewRouter(h *Handler, secretKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.health)

	api := r.Group("/api/v1")
	api.Use(RequireOwner(secretKey))
	{
		api.GET("/designs", h.list)
		api.PUT("/designs/:id", h.upsert)
		api.DELETE("/designs/:id", h.delete)
		api.POST("/uploads", h.createUpload)
		api.GET("/uploads/*key", h.getUpload)
	}

	return r
}
