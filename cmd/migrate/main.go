package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/harborview/backoffice-api/pkg/config"
)

func main() {
	var (
		dir   = flag.String("dir", "internal/db/migrations", "migrations directory")
		down  = flag.Bool("down", false, "roll back the most recent migration")
		steps = flag.Int("steps", 0, "number of migrations to apply (0 = all)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	migrator, err := migrate.New("file://"+*dir, postgresURL(cfg.Database))
	if err != nil {
		log.Fatalf("init migrator failed: %v", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	switch {
	case *down:
		err = migrator.Steps(-1)
	case *steps > 0:
		err = migrator.Steps(*steps)
	default:
		err = migrator.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations up to date")
}

func postgresURL(cfg config.DatabaseConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:   url.UserPassword(cfg.User, cfg.Password),
		Path:   cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
