// Package main applies the embedded schema migrations.
//
//	migrate up
//	migrate down
//	migrate steps N   (negative N rolls back)
//	migrate force V
//	migrate version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	appctx "essenceflow/internal/core/context"
	"essenceflow/internal/infrastructure/config"
	"essenceflow/internal/infrastructure/storage/postgres"
	"essenceflow/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config.toml")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [-config file] up|down|steps N|force V|version")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var files []string
	if *configFile != "" {
		files = append(files, *configFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("migrations require database.driver=postgres")
	}

	m, err := postgres.NewMigrator(cfg.Database.URL)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warnw("failed to close migrator", "error", err)
		}
	}()

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())
	if err := run(ctx, m, flag.Args()); err != nil {
		log.Errorw("migration failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, m *postgres.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(ctx, n)
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(ctx, v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.Info(ctx, "schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", args[0], args[1])
	}
	return n, nil
}
