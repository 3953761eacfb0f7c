package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a liveness handler reporting the running version.
func Health(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	}
}
