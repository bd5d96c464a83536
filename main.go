package main

import (
	"log"
	"os"

	"guardian-bot/bot"
	"guardian-bot/config"
	"guardian-bot/handlers"
	"guardian-bot/store"
	"guardian-bot/utils/database/banrecords"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New("data/state")
	if err != nil {
		log.Fatalf("Error initializing state store: %v", err)
	}

	db, err := banrecords.Init(cfg.GlobalBan.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing ban records database: %v", err)
	}

	b, err := bot.New(cfg, st, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()

	defer b.Close()
}
