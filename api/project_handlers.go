package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion/app"
	"orion/domain/core"
	"orion/domain/project"
)

func (s *Server) handleProjectCreate(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		DatasetID   string `json:"dataset_id" binding:"required"`
		ModelID     string `json:"model_id" binding:"required"`
		ModelLabel  string `json:"model_label"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	dsID, err := core.ParseDatasetID(req.DatasetID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	modelID, err := core.ParseModelID(req.ModelID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.projects.Create(c.Request.Context(), app.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		DatasetID:   dsID,
		ModelID:     modelID,
		ModelLabel:  req.ModelLabel,
		Status:      project.Status(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleProjectList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := s.projects.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

func (s *Server) handleProjectGet(c *gin.Context) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.projects.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleProjectUpdate(c *gin.Context) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.projects.Update(c.Request.Context(), id, req.Name, req.Description, project.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleProjectDelete(c *gin.Context) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := s.projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleProjectPredict(c *gin.Context) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		InputValues map[string]any `json:"input_values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	run, err := s.projects.Predict(c.Request.Context(), id, req.InputValues, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleProjectRuns(c *gin.Context) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := s.projects.Runs(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
