// Command fetchdata downloads a worldgen data bundle and checks that it loads.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/minecraft-worldgen/internal/registry"
)

func main() {
	var (
		src = flag.String("src", "", "go-getter source, e.g. git::https://host/repo.git//data?ref=v1 or https://host/bundle.tar.gz")
		out = flag.String("o", "./data", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *src == "" {
		log.Error("source required")
		os.Exit(2)
	}
	if *out == "" {
		log.Error("output dir path required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.RemoveAll(*out); err != nil {
		log.Error("clear output dir", "error", err)
		os.Exit(1)
	}

	log.Info("start downloading bundle", "src", *src, "dst", *out)
	if err := get.Get(*out, *src, get.WithContext(ctx)); err != nil {
		log.Error("download bundle", "error", err)
		os.Exit(1)
	}

	reg, err := registry.LoadDir(*out)
	if err != nil {
		log.Error("downloaded bundle does not load", "error", err)
		os.Exit(1)
	}
	placed, configured, carvers, biomes := reg.Stats()
	log.Info("done downloading bundle",
		"dst", *out,
		"placed", placed,
		"configured", configured,
		"carvers", carvers,
		"biomes", biomes,
	)
}
