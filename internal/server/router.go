package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scholargraph/scholargraph-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName  string
	PaperHandler *handlers.PaperHandler
	GraphHandler *handlers.GraphHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Ingestion
	router.POST("/upload-pdf", cfg.PaperHandler.UploadPDF)
	router.POST("/process-text", cfg.GraphHandler.ProcessText)

	// Papers
	router.GET("/papers", cfg.PaperHandler.ListPapers)
	router.GET("/papers/search", cfg.PaperHandler.SearchPapers)
	router.GET("/papers/:paper_id", cfg.PaperHandler.GetPaper)
	router.GET("/papers/:paper_id/graph", cfg.GraphHandler.PaperGraph)
	router.POST("/papers/process-directory", cfg.PaperHandler.ProcessDirectory)
	router.POST("/papers/initialize", cfg.PaperHandler.Initialize)

	// Graph
	router.GET("/graph", cfg.GraphHandler.GetGraph)
	router.GET("/graph/search", cfg.GraphHandler.GraphBySearch)
	router.GET("/graph/:center_id/expand", cfg.GraphHandler.ExpandNode)

	// Entities
	router.GET("/entities/search", cfg.GraphHandler.SearchEntities)
	router.GET("/entities/:entity_id/papers", cfg.GraphHandler.PapersByEntity)

	return router
}
