// Command migrate applies or rolls back the database schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/kaizoquest/kaizoquest/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://migrations", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	start := time.Now()
	err = run(m, *direction, *steps)
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	if err == migrate.ErrNoChange {
		fmt.Printf("no changes (version=%d dirty=%v) [%s]\n", version, dirty, time.Since(start))
		return
	}
	fmt.Printf("migrated %s to version=%d dirty=%v [%s]\n", *direction, version, dirty, time.Since(start))
}

func run(m *migrate.Migrate, direction string, steps int) error {
	switch direction {
	case "up":
		if steps > 0 {
			return m.Steps(steps)
		}
		return m.Up()
	case "down":
		if steps > 0 {
			return m.Steps(-steps)
		}
		return m.Down()
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", direction)
		return nil
	}
}
