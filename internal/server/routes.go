package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the diagram API under /api/v1.
func RegisterRoutes(router *gin.Engine, h *DiagramHandler) {
	api := router.Group("/api/v1")

	api.GET("/diagram", h.GetDiagram)
	api.GET("/diagram/snapshot", h.GetSnapshot)
	api.GET("/datatypes", h.SuggestDataTypes)

	tables := api.Group("/tables")
	{
		tables.POST("", h.CreateTable)
		tables.PATCH("/:tableId", h.RenameTable)
		tables.DELETE("/:tableId", h.DeleteTable)

		tables.POST("/:tableId/attributes", h.AddAttribute)
		tables.PATCH("/:tableId/attributes/:attributeId", h.EditAttribute)
		tables.DELETE("/:tableId/attributes/:attributeId", h.DeleteAttribute)
	}

	relationships := api.Group("/relationships")
	{
		relationships.POST("", h.Connect)
		relationships.DELETE("/:relationshipId", h.Disconnect)
		relationships.POST("/:relationshipId/toggle", h.ToggleKind)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
