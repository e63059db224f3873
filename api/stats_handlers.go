package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orion/app"
	"orion/domain/core"
	"orion/domain/dataset"
	"orion/internal/stats"
)

type descriptiveRequest struct {
	DatasetID          string                    `json:"dataset_id" binding:"required"`
	Variables          []string                  `json:"variables"`
	GroupBy            []string                  `json:"group_by"`
	Filters            []dataset.FilterCondition `json:"filters"`
	SortBy             string                    `json:"sort_by"`
	SortOrder          string                    `json:"sort_order"`
	IncludeComparisons bool                      `json:"include_comparisons"`
	Alpha              float64                   `json:"alpha"`
	ConfidenceLevel    float64                   `json:"confidence_level"`
}

func (r descriptiveRequest) toInput() (app.DescriptiveInput, error) {
	id, err := core.ParseDatasetID(r.DatasetID)
	if err != nil {
		return app.DescriptiveInput{}, err
	}
	return app.DescriptiveInput{
		DatasetID:          id,
		Variables:          toColumnKeys(r.Variables),
		GroupBy:            toColumnKeys(r.GroupBy),
		Filters:            r.Filters,
		SortBy:             r.SortBy,
		SortOrder:          r.SortOrder,
		IncludeComparisons: r.IncludeComparisons,
		Alpha:              r.Alpha,
		ConfidenceLevel:    r.ConfidenceLevel,
	}, nil
}

func (s *Server) handleDescriptive(c *gin.Context) {
	var req descriptiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := s.stats.Descriptive(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleChartData(c *gin.Context) {
	var req struct {
		DatasetID string                     `json:"dataset_id" binding:"required"`
		Variable  string                     `json:"variable" binding:"required"`
		GroupBy   []string                   `json:"group_by"`
		Filters   []dataset.FilterCondition  `json:"filters"`
		Seeds     map[string]stats.GroupSeed `json:"seeds"`
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

	res, err := s.stats.ChartData(c.Request.Context(), app.ChartDataInput{
		DatasetID: id,
		Variable:  core.ColumnKey(req.Variable),
		GroupBy:   toColumnKeys(req.GroupBy),
		Filters:   req.Filters,
		Seeds:     req.Seeds,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleHypothesis(c *gin.Context) {
	var req struct {
		DatasetID      string                    `json:"dataset_id" binding:"required"`
		TestType       string                    `json:"test_type" binding:"required"`
		Variable       string                    `json:"variable" binding:"required"`
		SecondVariable string                    `json:"second_variable"`
		GroupBy        string                    `json:"group_by"`
		GroupValues    []string                  `json:"group_values"`
		Mu             float64                   `json:"mu"`
		Alpha          float64                   `json:"alpha"`
		Alternative    string                    `json:"alternative"`
		Filters        []dataset.FilterCondition `json:"filters"`
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

	res, err := s.stats.Hypothesis(c.Request.Context(), app.HypothesisInput{
		DatasetID:      id,
		TestType:       req.TestType,
		Variable:       core.ColumnKey(req.Variable),
		SecondVariable: core.ColumnKey(req.SecondVariable),
		GroupBy:        core.ColumnKey(req.GroupBy),
		GroupValues:    req.GroupValues,
		Mu:             req.Mu,
		Alpha:          req.Alpha,
		Alternative:    req.Alternative,
		Filters:        req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleNormality(c *gin.Context) {
	var req struct {
		DatasetID string                    `json:"dataset_id" binding:"required"`
		Variables []string                  `json:"variables"`
		Alpha     float64                   `json:"alpha"`
		Filters   []dataset.FilterCondition `json:"filters"`
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

	res, err := s.stats.Normality(c.Request.Context(), app.NormalityInput{
		DatasetID: id,
		Variables: toColumnKeys(req.Variables),
		Alpha:     req.Alpha,
		Filters:   req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

func (s *Server) handleCrosstab(c *gin.Context) {
	var req struct {
		DatasetID string                    `json:"dataset_id" binding:"required"`
		RowVar    string                    `json:"row_var" binding:"required"`
		ColVar    string                    `json:"col_var" binding:"required"`
		Filters   []dataset.FilterCondition `json:"filters"`
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

	res, err := s.stats.Crosstab(c.Request.Context(), app.CrosstabInput{
		DatasetID: id,
		RowVar:    core.ColumnKey(req.RowVar),
		ColVar:    core.ColumnKey(req.ColVar),
		Filters:   req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleFrequency(c *gin.Context) {
	var req struct {
		DatasetID      string                    `json:"dataset_id" binding:"required"`
		Variable       string                    `json:"variable" binding:"required"`
		MaxCategories  int                       `json:"max_categories"`
		IncludeMissing bool                      `json:"include_missing"`
		Filters        []dataset.FilterCondition `json:"filters"`
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

	rows, err := s.stats.Frequency(c.Request.Context(), app.FrequencyInput{
		DatasetID:      id,
		Variable:       core.ColumnKey(req.Variable),
		MaxCategories:  req.MaxCategories,
		IncludeMissing: req.IncludeMissing,
		Filters:        req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variable": req.Variable, "rows": rows})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	var req struct {
		DatasetID string                    `json:"dataset_id" binding:"required"`
		Variables []string                  `json:"variables"`
		Filters   []dataset.FilterCondition `json:"filters"`
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

	res, err := s.stats.Correlation(c.Request.Context(), app.CorrelationInput{
		DatasetID: id,
		Variables: toColumnKeys(req.Variables),
		Filters:   req.Filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleExportDescriptive(c *gin.Context) {
	var req descriptiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	data, filename, err := s.export.DescriptiveXLSX(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func toColumnKeys(in []string) []core.ColumnKey {
	out := make([]core.ColumnKey, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, core.ColumnKey(s))
		}
	}
	return out
}
