// Package dashboard exposes the store's read APIs over HTTP. It is a
// read-only collaborator: it imposes nothing back onto the pipeline.
package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"signal-extractor/internal/db"
)

// NewRouter builds the gin router over an explicitly passed store
// handle.
func NewRouter(store *db.Store) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/actions", getActions(store))
		api.GET("/messages", getMessages(store))
		api.GET("/stats", getStats(store))
	}

	return r
}

func getActions(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		minConfidence, _ := strconv.ParseFloat(c.DefaultQuery("min_confidence", "0"), 64)

		actions, err := store.RecentActions(limit, minConfidence)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, actions)
	}
}

func getMessages(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

		messages, err := store.RecentMessages(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

func getStats(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.ActionStatistics()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
