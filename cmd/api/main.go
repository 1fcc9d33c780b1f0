package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/certtrack/exam-center/internal/config"
	dbpkg "github.com/certtrack/exam-center/internal/db"
	"github.com/certtrack/exam-center/internal/logger"
	"github.com/certtrack/exam-center/internal/middleware"
	"github.com/certtrack/exam-center/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
