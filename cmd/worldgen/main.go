package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/minecraft-worldgen/internal/config"
	"github.com/OCharnyshevich/minecraft-worldgen/internal/runner"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "config file (.yaml, .toml or .json)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm, "random source: xoroshiro or legacy")
	flag.StringVar(&cfg.Generator, "generator", cfg.Generator, "terrain generator: noise or flat")
	flag.IntVar(&cfg.MinY, "min-y", cfg.MinY, "lowest block y")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "world height in blocks")
	flag.IntVar(&cfg.SeaLevel, "sea-level", cfg.SeaLevel, "sea level y")
	flag.IntVar(&cfg.CenterX, "x", cfg.CenterX, "center chunk x")
	flag.IntVar(&cfg.CenterZ, "z", cfg.CenterZ, "center chunk z")
	flag.IntVar(&cfg.Radius, "radius", cfg.Radius, "region radius in chunks")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel chunk workers, 0 for GOMAXPROCS")
	flag.BoolVar(&cfg.Carve, "carve", cfg.Carve, "run carvers")
	flag.BoolVar(&cfg.Decorate, "decorate", cfg.Decorate, "run feature decoration")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "worldgen data bundle directory, empty for the embedded one")
	flag.StringVar(&cfg.Ledger, "ledger", cfg.Ledger, "SQLite digest ledger to record and verify against")
	flag.StringVar(&cfg.Dump, "dump", cfg.Dump, "write chunk summaries to this .jsonl.zst file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	level, err := cfg.Level()
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := runner.New(cfg, log, os.Stdout).Run(ctx); err != nil {
		log.Error("worldgen failed", "error", err)
		os.Exit(1)
	}
}
