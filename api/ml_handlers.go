package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orion/app"
	"orion/domain/core"
	"orion/domain/dataset"
)

func (s *Server) handleTrain(c *gin.Context) {
	var req struct {
		DatasetID          string                    `json:"dataset_id" binding:"required"`
		Target             string                    `json:"target" binding:"required"`
		Features           []string                  `json:"features" binding:"required"`
		SelectionMetric    string                    `json:"selection_metric"`
		TreatMissingAsZero bool                      `json:"treat_missing_as_zero"`
		Filters            []dataset.FilterCondition `json:"filters"`
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

	res, err := s.ml.Train(c.Request.Context(), app.TrainInput{
		DatasetID:          id,
		Target:             core.ColumnKey(req.Target),
		Features:           toColumnKeys(req.Features),
		SelectionMetric:    req.SelectionMetric,
		TreatMissingAsZero: req.TreatMissingAsZero,
		Filters:            req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handlePredict(c *gin.Context) {
	var req struct {
		ModelID     string         `json:"model_id" binding:"required"`
		Label       string         `json:"label"`
		InputValues map[string]any `json:"input_values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := core.ParseModelID(req.ModelID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	values := make(map[core.ColumnKey]any, len(req.InputValues))
	for k, v := range req.InputValues {
		values[core.ColumnKey(k)] = v
	}

	pred, err := s.ml.Predict(c.Request.Context(), app.PredictInput{
		ModelID:     id,
		Label:       req.Label,
		InputValues: values,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

func (s *Server) handleModelMetadata(c *gin.Context) {
	id, err := core.ParseModelID(c.Param("id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	meta, err := s.ml.Metadata(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
