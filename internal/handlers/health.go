package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/database"
)

// Health reports whether the server can reach its database.
func Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if db := database.GetDB(); db == nil {
		status, code = "database not configured", http.StatusServiceUnavailable
	} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status, code = "database unreachable", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}
