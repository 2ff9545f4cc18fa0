package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

// migrate up|down|status|version runs the embedded library migrations
// against the database configured by DB_* variables.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, nil)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.MigrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	log.Printf("Running migrations: %s", command)
	switch command {
	case "up":
		err = goose.Up(db.DB, ".")
	case "down":
		err = goose.Down(db.DB, ".")
	case "status":
		err = goose.Status(db.DB, ".")
	case "version":
		var version int64
		if version, err = goose.GetDBVersion(db.DB); err == nil {
			log.Printf("Current migration version: %d", version)
		}
	default:
		log.Fatalf("Unknown command: %s. Available commands: up, down, status, version", command)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}
