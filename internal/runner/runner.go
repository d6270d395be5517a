// Package runner generates a region of chunks from a Config and reports their
// digests, optionally checking them against a ledger and dumping summaries.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/minecraft-worldgen/internal/config"
	"github.com/OCharnyshevich/minecraft-worldgen/internal/ledger"
	"github.com/OCharnyshevich/minecraft-worldgen/internal/registry"
	"github.com/OCharnyshevich/minecraft-worldgen/internal/world"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/terrain"
)

// Runner runs one generation pass.
type Runner struct {
	cfg *config.Config
	log *slog.Logger
	out io.Writer
}

// Result summarises a finished pass.
type Result struct {
	Chunks      int
	Recorded    int
	Verified    int
	SpawnHeight int
}

// New creates a Runner that prints one digest line per chunk to out.
func New(cfg *config.Config, log *slog.Logger, out io.Writer) *Runner {
	return &Runner{cfg: cfg, log: log, out: out}
}

// Run generates the configured region. Chunks whose digest differs from the
// ledger are reported as ledger.Mismatch errors joined together; the other
// chunks are still printed, recorded and dumped.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result
	if err := r.cfg.Validate(); err != nil {
		return res, err
	}

	reg, err := registry.LoadDir(r.cfg.DataDir)
	if err != nil {
		return res, err
	}
	placed, configured, carvers, biomes := reg.Stats()
	r.log.Info("registry loaded",
		"dataDir", r.cfg.DataDir,
		"placed", placed,
		"configured", configured,
		"carvers", carvers,
		"biomes", biomes,
	)

	src, err := r.terrain(reg)
	if err != nil {
		return res, err
	}
	g := gen.New(gen.Options{
		Seed:      r.cfg.Seed,
		Algorithm: r.cfg.RandomAlgorithm(),
		MinY:      int8(r.cfg.MinY),
		Height:    uint16(r.cfg.Height),
		Carve:     r.cfg.Carve,
		Decorate:  r.cfg.Decorate,
		Workers:   r.cfg.Workers,
	}, src, reg, r.log)
	w := world.NewWorld(g)

	center := chunk.ChunkPos{X: r.cfg.CenterX, Z: r.cfg.CenterZ}
	r.log.Info("generating region",
		"seed", r.cfg.Seed,
		"algorithm", r.cfg.Algorithm,
		"generator", r.cfg.Generator,
		"center", center,
		"radius", r.cfg.Radius,
	)
	if res.Chunks, err = w.PreGenerateRadius(ctx, center, r.cfg.Radius); err != nil {
		return res, fmt.Errorf("generate region: %w", err)
	}

	var led *ledger.Ledger
	if r.cfg.Ledger != "" {
		if led, err = ledger.Open(r.cfg.Ledger); err != nil {
			return res, err
		}
		defer led.Close()
	}
	var dump *Dump
	if r.cfg.Dump != "" {
		if dump, err = CreateDump(r.cfg.Dump); err != nil {
			return res, err
		}
		defer dump.Abort()
	}

	key := r.ledgerKey()
	var (
		run        uuid.UUID
		mismatches []error
	)
	if led != nil {
		if run, err = led.StartRun(ctx, key); err != nil {
			return res, err
		}
	}
	for _, pos := range gen.Square(center, r.cfg.Radius) {
		c := w.Chunk(pos)
		digest := c.Digest()
		if _, err := fmt.Fprintf(r.out, "%d %d %016x\n", pos.X, pos.Z, digest); err != nil {
			return res, fmt.Errorf("write digest: %w", err)
		}

		if dump != nil {
			if err := dump.Write(c.Summarize()); err != nil {
				return res, err
			}
		}
		if led == nil {
			continue
		}
		known, err := led.Verify(ctx, key, pos, digest)
		var m ledger.Mismatch
		switch {
		case errors.As(err, &m):
			r.log.Warn("digest mismatch", "pos", pos, "recorded", fmt.Sprintf("%016x", m.Recorded), "got", fmt.Sprintf("%016x", m.Got))
			mismatches = append(mismatches, err)
		case err != nil:
			return res, err
		case known:
			res.Verified++
		default:
			if err := led.Record(ctx, run, key, pos, digest); err != nil {
				return res, err
			}
			res.Recorded++
		}
	}

	if dump != nil {
		if err := dump.Close(); err != nil {
			return res, err
		}
	}
	res.SpawnHeight = w.SpawnHeight()
	r.log.Info("region done",
		"chunks", res.Chunks,
		"recorded", res.Recorded,
		"verified", res.Verified,
		"mismatched", len(mismatches),
		"spawnHeight", res.SpawnHeight,
	)
	if len(mismatches) > 0 {
		return res, fmt.Errorf("%d chunks differ from the ledger: %w", len(mismatches), errors.Join(mismatches...))
	}
	return res, nil
}

func (r *Runner) terrain(reg *registry.Registry) (terrain.Source, error) {
	if r.cfg.Generator == "flat" {
		return terrain.NewFlat(reg), nil
	}
	return terrain.NewNoise(terrain.Options{
		Seed:      r.cfg.Seed,
		Algorithm: r.cfg.RandomAlgorithm(),
		MinY:      int8(r.cfg.MinY),
		Height:    uint16(r.cfg.Height),
		SeaLevel:  r.cfg.SeaLevel,
	}, reg)
}

// ledgerKey identifies the world in the ledger. Generation switches are part
// of the generator name since they change every digest.
func (r *Runner) ledgerKey() ledger.World {
	name := fmt.Sprintf("%s/y%d+%d", r.cfg.Generator, r.cfg.MinY, r.cfg.Height)
	if r.cfg.Carve {
		name += "/carve"
	}
	if r.cfg.Decorate {
		name += "/decorate"
	}
	return ledger.World{Seed: r.cfg.Seed, Algorithm: r.cfg.Algorithm, Generator: name}
}
