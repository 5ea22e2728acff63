package main

import (
	"log"
	"net/http"
	"os"

	"meme-royale/internal/config"
	"meme-royale/internal/db"
	"meme-royale/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Printf("running without persistence: %v", err)
		conn = nil
	} else if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	srv := server.New(conn, cfg)
	if err := srv.RestoreGames(); err != nil {
		log.Printf("restore failed: %v", err)
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	log.Printf("meme-royale server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
