package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"freight_routes/internal/apperr"
)

// respondError writes the standard error envelope for any error. Unexpected
// errors are logged with context and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("unexpected error")
	}
	c.JSON(appErr.Status, gin.H{"error": appErr})
}

func respondBindingError(c *gin.Context, err error) {
	respondError(c, apperr.Validation("Invalid request body", err.Error()))
}

// listEnvelope is the shared shape of paginated list responses.
type listEnvelope struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
