package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/appointly/scheduler/internal/config"
	dbpkg "github.com/appointly/scheduler/internal/db"
	"github.com/appointly/scheduler/internal/observability"
	"github.com/appointly/scheduler/internal/routes"
)

func main() {

	// Missing .env is fine; environment variables win anyway.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	rdb := dbpkg.NewRedis(cfg, log)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
