package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion/internal/help"
)

func (s *Server) handleHelpTopics(c *gin.Context) {
	topics := help.Catalog()

	type listed struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Aliases []string `json:"aliases,omitempty"`
	}
	out := make([]listed, 0, len(topics))
	for _, t := range topics {
		out = append(out, listed{ID: t.ID, Title: t.Title, Aliases: t.Aliases})
	}
	c.JSON(http.StatusOK, gin.H{"topics": out})
}

func (s *Server) handleHelpTopic(c *gin.Context) {
	topic, ok := help.TopicByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "help topic not found", "code": "NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (s *Server) handleHelpSearch(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, help.Match(req.Query))
}

func (s *Server) handleActivityList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	action := c.Query("action")

	entries, err := s.activity.List(c.Request.Context(), action, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
