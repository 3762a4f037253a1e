package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the caller and service
// @Description Echoes the authenticated user, useful to check a token
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router / [get]
func getHome(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	c.JSON(http.StatusOK, gin.H{"service": "ledger-engine", "version": "v1", "userID": userID})
}

// registerHomeRoutes registers the authenticated root of the API group
func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("", getHome)
}
