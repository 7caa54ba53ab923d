package main

import (
	"fmt"
	"log"

	"github.com/hgalarze/mcfood-backend/internal/config"
	"github.com/hgalarze/mcfood-backend/internal/database"
	"github.com/hgalarze/mcfood-backend/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database（连不上直接退出）
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// 唯一索引：users.email / categories.name / products.name
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
