package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

func openLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "digests.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

func TestRecordLookup(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)
	w := World{Seed: -42, Algorithm: "xoroshiro", Generator: "noise"}

	run, err := l.StartRun(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	pos := chunk.ChunkPos{X: -3, Z: 7}
	const digest = uint64(0xfedcba9876543210)
	if err := l.Record(ctx, run, w, pos, digest); err != nil {
		t.Fatal(err)
	}

	got, ok, err := l.Lookup(ctx, w, pos)
	if err != nil || !ok || got != digest {
		t.Fatalf("Lookup = %x, %v, %v", got, ok, err)
	}
	if _, ok, _ := l.Lookup(ctx, w, chunk.ChunkPos{}); ok {
		t.Error("unrecorded chunk found")
	}
	other := w
	other.Algorithm = "legacy"
	if _, ok, _ := l.Lookup(ctx, other, pos); ok {
		t.Error("digest leaked across algorithms")
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)
	w := World{Seed: 1, Algorithm: "legacy", Generator: "flat"}
	run, err := l.StartRun(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	pos := chunk.ChunkPos{X: 2}
	if err := l.Record(ctx, run, w, pos, 10); err != nil {
		t.Fatal(err)
	}

	if known, err := l.Verify(ctx, w, pos, 10); !known || err != nil {
		t.Errorf("matching digest: known=%v err=%v", known, err)
	}
	known, err := l.Verify(ctx, w, pos, 11)
	var m Mismatch
	if !known || !errors.As(err, &m) || m.Recorded != 10 || m.Got != 11 || m.Pos != pos {
		t.Errorf("mismatch: known=%v err=%v", known, err)
	}
	if known, err := l.Verify(ctx, w, chunk.ChunkPos{X: 9}, 1); known || err != nil {
		t.Errorf("unknown chunk: known=%v err=%v", known, err)
	}
}

func TestRunsAndReopen(t *testing.T) {
	ctx := context.Background()
	l, path := openLedger(t)
	w := World{Seed: 5, Algorithm: "xoroshiro", Generator: "noise"}

	first, err := l.StartRun(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 3; x++ {
		if err := l.Record(ctx, first, w, chunk.ChunkPos{X: x}, uint64(x)); err != nil {
			t.Fatal(err)
		}
	}
	second, err := l.StartRun(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	// Re-recording moves the chunk to the newer run.
	if err := l.Record(ctx, second, w, chunk.ChunkPos{X: 0}, 99); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	runs, err := l.Runs(ctx, w)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, r := range runs {
		counts[r.ID.String()] = r.Chunks
	}
	if len(runs) != 2 || counts[first.String()] != 2 || counts[second.String()] != 1 {
		t.Errorf("runs = %+v", runs)
	}
	if d, _, _ := l.Lookup(ctx, w, chunk.ChunkPos{X: 0}); d != 99 {
		t.Errorf("digest after reopen = %d", d)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("empty path accepted")
	}
}
