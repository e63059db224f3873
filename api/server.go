package api

import (
	"github.com/gin-gonic/gin"

	"orion/app"
	internal "orion/internal"
	"orion/internal/config"
)

// Server is the JSON API over the application services
type Server struct {
	router    *gin.Engine
	datasets  *app.DatasetService
	stats     *app.StatsService
	ml        *app.MLService
	scenarios *app.ScenarioService
	projects  *app.ProjectService
	activity  *app.ActivityService
	export    *app.ExportService
	cfg       *config.Config
	logger    *internal.Logger
}

// Services bundles everything the server routes to
type Services struct {
	Datasets  *app.DatasetService
	Stats     *app.StatsService
	ML        *app.MLService
	Scenarios *app.ScenarioService
	Projects  *app.ProjectService
	Activity  *app.ActivityService
	Export    *app.ExportService
}

// NewServer creates the API server and registers every route
func NewServer(svcs Services, cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:    gin.New(),
		datasets:  svcs.Datasets,
		stats:     svcs.Stats,
		ml:        svcs.ML,
		scenarios: svcs.Scenarios,
		projects:  svcs.Projects,
		activity:  svcs.Activity,
		export:    svcs.Export,
		cfg:       cfg,
		logger:    logger,
	}

	s.router.Use(gin.Logger(), gin.Recovery(), corsMiddleware())
	s.router.MaxMultipartMemory = int64(cfg.Data.MaxUploadMB) << 20
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	datasets := api.Group("/datasets")
	{
		datasets.POST("/upload", s.handleDatasetUpload)
		datasets.GET("", s.handleDatasetList)
		datasets.GET("/:id/meta", s.handleDatasetMeta)
		datasets.PUT("/:id/name", s.handleDatasetRename)
		datasets.PUT("/:id/column-type", s.handleColumnTypeUpdate)
		datasets.DELETE("/:id", s.handleDatasetDelete)
		datasets.GET("/:id/activity", s.handleDatasetActivity)
	}

	data := api.Group("/data")
	{
		data.POST("/query", s.handleDataQuery)
		data.POST("/unique-values", s.handleUniqueValues)
	}

	stats := api.Group("/stats")
	{
		stats.POST("/descriptive", s.handleDescriptive)
		stats.POST("/chart-data", s.handleChartData)
		stats.POST("/hypothesis", s.handleHypothesis)
		stats.POST("/normality", s.handleNormality)
		stats.POST("/crosstab", s.handleCrosstab)
		stats.POST("/frequency", s.handleFrequency)
		stats.POST("/correlation", s.handleCorrelation)
		stats.POST("/export", s.handleExportDescriptive)
	}

	ml := api.Group("/ml")
	{
		ml.POST("/train", s.handleTrain)
		ml.POST("/predict", s.handlePredict)
		ml.GET("/models/:id", s.handleModelMetadata)
	}

	scenarios := api.Group("/scenarios")
	{
		scenarios.POST("", s.handleScenarioCreate)
		scenarios.GET("", s.handleScenarioList)
		scenarios.GET("/:id", s.handleScenarioGet)
		scenarios.PUT("/:id", s.handleScenarioUpdate)
		scenarios.POST("/import", s.handleScenarioImport)
		scenarios.POST("/:id/duplicate", s.handleScenarioDuplicate)
		scenarios.GET("/:id/export", s.handleScenarioExport)
		scenarios.DELETE("/:id", s.handleScenarioDelete)
	}

	projects := api.Group("/projects")
	{
		projects.POST("", s.handleProjectCreate)
		projects.GET("", s.handleProjectList)
		projects.GET("/:id", s.handleProjectGet)
		projects.PUT("/:id", s.handleProjectUpdate)
		projects.DELETE("/:id", s.handleProjectDelete)
		projects.POST("/:id/predict", s.handleProjectPredict)
		projects.GET("/:id/runs", s.handleProjectRuns)
	}

	api.GET("/activity", s.handleActivityList)

	help := api.Group("/help")
	{
		help.GET("/topics", s.handleHelpTopics)
		help.GET("/topics/:id", s.handleHelpTopic)
		help.POST("/search", s.handleHelpSearch)
	}
}

// Run starts the API server on the configured port
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("[api] listening on %s", addr)
	return s.router.Run(addr)
}
