package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SynilogicTeam/kundliGen/internal/config"
	"github.com/SynilogicTeam/kundliGen/internal/db"
	"github.com/SynilogicTeam/kundliGen/internal/routes"
	"github.com/SynilogicTeam/kundliGen/internal/throttle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	window := time.Duration(cfg.OtpResendSeconds) * time.Second
	var cooldown throttle.Cooldown = throttle.NewMemory(window)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cooldown = throttle.NewRedis(client, "kundligen", window)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, database, cfg, cooldown)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
