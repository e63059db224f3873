package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion/app"
	"orion/domain/core"
	"orion/domain/scenario"
)

type scenarioRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DatasetID   string           `json:"dataset_id"`
	Payload     scenario.Payload `json:"payload"`
}

func (s *Server) handleScenarioCreate(c *gin.Context) {
	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := core.ParseDatasetID(req.DatasetID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := s.scenarios.Create(c.Request.Context(), app.ScenarioInput{
		Name:        req.Name,
		Description: req.Description,
		DatasetID:   id,
		Payload:     req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

func (s *Server) handleScenarioList(c *gin.Context) {
	if dsParam := c.Query("dataset_id"); dsParam != "" {
		id, err := core.ParseDatasetID(dsParam)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		items, err := s.scenarios.ListByDataset(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"scenarios": items})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := s.scenarios.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": items})
}

func (s *Server) handleScenarioGet(c *gin.Context) {
	id, err := core.ParseScenarioID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := s.scenarios.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) handleScenarioUpdate(c *gin.Context) {
	id, err := core.ParseScenarioID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := s.scenarios.Update(c.Request.Context(), id, app.ScenarioInput{
		Name:        req.Name,
		Description: req.Description,
		Payload:     req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) handleScenarioDuplicate(c *gin.Context) {
	id, err := core.ParseScenarioID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	// Body is optional, an empty name falls back to "<name> (copy)".
	_ = c.ShouldBindJSON(&req)

	sc, err := s.scenarios.Duplicate(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

func (s *Server) handleScenarioExport(c *gin.Context) {
	id, err := core.ParseScenarioID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	doc, filename, err := s.scenarios.Export(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleScenarioImport(c *gin.Context) {
	var doc app.ScenarioDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := s.scenarios.Import(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

func (s *Server) handleScenarioDelete(c *gin.Context) {
	id, err := core.ParseScenarioID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := s.scenarios.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
