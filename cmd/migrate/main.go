package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Shubham-Rasal/anp-chat/internal/config"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Connecting to database at %s:%d...\n", cfg.Storage.Postgres.Host, cfg.Storage.Postgres.Port)

	kv, err := store.NewPostgresKV(context.Background(), cfg.Storage.Postgres.DSN(),
		cfg.Storage.Postgres.MaxConns, cfg.Storage.Postgres.MinConns)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer kv.Close()

	files, err := filepath.Glob("migrations/*.up.sql")
	if err != nil {
		panic(err)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("Applying migration: %s\n", file)
		content, err := os.ReadFile(file)
		if err != nil {
			panic(err)
		}

		if _, err := kv.Pool().Exec(context.Background(), string(content)); err != nil {
			fmt.Printf("Error applying %s: %v\n", file, err)
		} else {
			fmt.Printf("%s applied successfully\n", file)
		}
	}
}
