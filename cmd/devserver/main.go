package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"eatorbit-client/internal/config"
	"eatorbit-client/internal/devserver"
	"eatorbit-client/internal/env"
)

func main() {
	env.Load(".env", ".env.local")
	envDefaults := config.EnvDefaults()

	port := flag.Int("port", envDefaults.Port, "")
	dsn := flag.String("dsn", envDefaults.DatabaseDSN, "postgres connection string, empty for in-memory")
	jwtSecret := flag.String("jwt-secret", envDefaults.JWTSecret, "")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "")
	noSeed := flag.Bool("no-seed", false, "skip loading fixture data")

	flag.Parse()

	log := newLogger(*logJSON)

	var store devserver.Store
	if *dsn != "" {
		pg, err := devserver.NewPostgresStore(*dsn)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		store = pg
		log.Info("using postgres store")
	} else {
		store = devserver.NewMemoryStore()
		log.Info("using in-memory store")
	}

	if !*noSeed {
		if err := devserver.Seed(store); err != nil {
			log.Error("seed failed", "error", err)
			os.Exit(1)
		}
	}

	srv := devserver.New(store, *jwtSecret, log)
	addr := fmt.Sprintf(":%d", *port)
	log.Info("listening", "addr", addr)
	if err := srv.Router().Run(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(jsonOut bool) *slog.Logger {
	if jsonOut {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
