package main

import (
	"fmt"
	"log"

	"backend/configs"
	"backend/middlewares"
	"backend/routes"
	"backend/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}

	// Cache (optional, list endpoints fall back to the DB without it)
	rdb := configs.ConnectRedis(cfg)

	// Realtime hub
	hub := ws.NewReviewHub()
	go hub.Run()

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, db, rdb, cfg, hub)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
