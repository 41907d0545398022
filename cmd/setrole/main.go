// Command setrole promotes or demotes an account, e.g. granting admin
// to an operator's own login.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kaizoquest/kaizoquest/internal/config"
	"github.com/kaizoquest/kaizoquest/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	username := flag.String("username", "", "target account username (required)")
	role := flag.String("role", "", "role to assign: player or admin (required)")
	flag.Parse()

	if *username == "" || *role == "" {
		flag.Usage()
		os.Exit(1)
	}
	if !postgres.ValidRole(*role) {
		log.Fatalf("invalid role %q: must be player or admin", *role)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	accounts := postgres.NewAccountRepository(pool.DB())
	acct, err := accounts.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("looking up account %q: %v", *username, err)
	}
	if err := accounts.SetRole(ctx, acct.ID, *role); err != nil {
		log.Fatalf("setting role: %v", err)
	}

	fmt.Printf("set role for %s (#%d): %s -> %s\n", acct.Username, acct.ID, acct.Role, *role)
}
