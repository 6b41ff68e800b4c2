package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

const usage = "usage: migrate up|down|step-up|drop"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	action := os.Args[1]

	configPath := "config.toml"
	if v := os.Getenv("CONSULT_CONFIG"); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	mig, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.URL())
	if err != nil {
		log.Fatal("Failed to create migrate instance: %v", err)
	}
	defer mig.Close()

	if err := run(mig, action); err != nil {
		log.Fatal("Migration %s failed: %v", action, err)
	}

	version, dirty, err := mig.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("Migration %s completed: schema is empty", action)
	case err != nil:
		log.Warn("Migration %s completed, version unknown: %v", action, err)
	default:
		log.Info("Migration %s completed: version=%d, dirty=%t", action, version, dirty)
	}
}

func run(mig *migrate.Migrate, action string) error {
	var err error
	switch action {
	case "up":
		err = mig.Up()
	case "down":
		err = mig.Steps(-1)
	case "step-up":
		err = mig.Steps(1)
	case "drop":
		err = mig.Down()
	default:
		return fmt.Errorf("unknown action %q, %s", action, usage)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
