package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion/app"
	"orion/domain/core"
	"orion/domain/dataset"
)

func (s *Server) handleDatasetUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, err)
		return
	}

	ds, err := s.datasets.Upload(c.Request.Context(), file.Filename, data, c.PostForm("name"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ds)
}

func (s *Server) handleDatasetList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := s.datasets.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": items, "total": total})
}

func (s *Server) handleDatasetMeta(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ds, err := s.datasets.Meta(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleDatasetRename(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := s.datasets.Rename(c.Request.Context(), id, req.Name, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
}

func (s *Server) handleColumnTypeUpdate(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		ColKey  string `json:"col_key" binding:"required"`
		VarType string `json:"var_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ds, err := s.datasets.UpdateColumnType(c.Request.Context(), id, core.ColumnKey(req.ColKey), dataset.VarType(req.VarType), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleDatasetDelete(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := s.datasets.Delete(c.Request.Context(), id, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleDatasetActivity(c *gin.Context) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := s.activity.ListByDataset(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

type queryRequest struct {
	DatasetID string                    `json:"dataset_id" binding:"required"`
	Filters   []dataset.FilterCondition `json:"filters"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
}

func (s *Server) handleDataQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := core.ParseDatasetID(req.DatasetID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := s.datasets.Query(c.Request.Context(), app.QueryInput{
		DatasetID: id,
		Filters:   req.Filters,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleUniqueValues(c *gin.Context) {
	var req struct {
		DatasetID string `json:"dataset_id" binding:"required"`
		ColKey    string `json:"col_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := core.ParseDatasetID(req.DatasetID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	values, err := s.datasets.UniqueValues(c.Request.Context(), id, core.ColumnKey(req.ColKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"col_key": req.ColKey, "values": values})
}
