package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/study"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Smart Study Assistant API",
		"status":  "running",
		"endpoints": gin.H{
			"health": "/health",
			"study":  "/study/*",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleStudy(c *gin.Context) {
	pkt, err := s.pipeline.Produce(c.Request.Context(), study.Request{
		Query:  c.Query("topic"),
		Mode:   c.Query("mode"),
		UserID: userID(c),
	})
	if err != nil {
		status, body := s.studyError(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("study request failed", "topic", c.Query("topic"), "error", err)
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, pkt)
}

func (s *Server) handleHistory(c *gin.Context) {
	items, err := s.history.List(c.Request.Context(), userID(c), history.MaxListLimit)
	if err != nil {
		s.log.Error("fetch history failed", "user_id", userID(c), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "Failed to fetch history", Message: s.detail(err)})
		return
	}
	if items == nil {
		items = []history.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	n, err := s.history.Clear(c.Request.Context(), userID(c))
	if err != nil {
		s.log.Error("clear history failed", "user_id", userID(c), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "Failed to clear history", Message: s.detail(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "History cleared successfully",
		"deleted": n,
	})
}
