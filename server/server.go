package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalogo/classification"
	"catalogo/database"
	"catalogo/internal/config"
	"catalogo/server/handlers"
	"catalogo/server/middleware"
	"catalogo/server/services"
)

// Server servidor HTTP do catálogo
type Server struct {
	config     *config.Config
	db         *database.DB
	httpServer *http.Server
}

// New monta o servidor com serviços, handlers e rotas
func New(cfg *config.Config, db *database.DB) *Server {
	s := &Server{
		config: cfg,
		db:     db,
	}
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.buildRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // importações grandes via multipart
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	engine := classification.NewEngine()
	classificationService := services.NewClassificationService(s.db, engine)
	importService := services.NewImportService(s.db, engine, s.config.MacroBatchSize)

	classificationHandler := handlers.NewClassificationHandler(classificationService)
	importHandler := handlers.NewImportHandler(importService, s.config.MaxUploadBytes)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))

	router.GET("/health", handlers.HandleHealth(s.db))

	api := router.Group("/api")
	{
		api.POST("/classify", classificationHandler.HandleClassify)
		api.GET("/rules", classificationHandler.HandleListRules)
		api.POST("/rules", classificationHandler.HandleCreateRule)

		api.POST("/import", importHandler.HandleStartImport)
		api.GET("/import/:id/progress", importHandler.HandleImportStatus)
		api.POST("/import/:id/cancel", importHandler.HandleCancelImport)
	}

	return router
}

// Start inicia o servidor HTTP; bloqueia até o encerramento
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown encerra o servidor graciosamente
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
