package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"hrmperf/internal/platform/config"
	"hrmperf/internal/platform/db"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load env (%s): %v", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	command := "up"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}
	if err := db.RunMigrationCommand(pool, cfg.MigrationsDir, command, args...); err != nil {
		log.Fatal(err)
	}
	log.Printf("migration command %q completed", command)
}
