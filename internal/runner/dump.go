package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

// Dump writes chunk summaries as zstd-compressed JSON lines. The file appears
// at its path only once Close succeeds.
type Dump struct {
	path string
	f    *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	enc  *json.Encoder
	done bool
}

// CreateDump starts a dump at path.
func CreateDump(path string) (*Dump, error) {
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, fmt.Errorf("create dump: %w", err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("create dump: %w", err)
	}
	bw := bufio.NewWriter(zw)
	return &Dump{path: path, f: f, zw: zw, bw: bw, enc: json.NewEncoder(bw)}, nil
}

// Write appends one summary line.
func (d *Dump) Write(s chunk.Summary) error {
	if err := d.enc.Encode(s); err != nil {
		return fmt.Errorf("dump %v: %w", s.Pos, err)
	}
	return nil
}

// Close flushes the dump and moves it into place.
func (d *Dump) Close() error {
	if d.done {
		return nil
	}
	d.done = true
	tmp := d.f.Name()
	if err := d.flush(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename dump: %w", err)
	}
	return nil
}

func (d *Dump) flush() error {
	if err := d.bw.Flush(); err != nil {
		d.zw.Close()
		d.f.Close()
		return fmt.Errorf("flush dump: %w", err)
	}
	if err := d.zw.Close(); err != nil {
		d.f.Close()
		return fmt.Errorf("close dump: %w", err)
	}
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("close dump: %w", err)
	}
	return nil
}

// Abort discards an unfinished dump. It does nothing after Close.
func (d *Dump) Abort() {
	if d.done {
		return
	}
	d.done = true
	d.zw.Close()
	d.f.Close()
	os.Remove(d.f.Name())
}

// ReadDump decodes every summary of a dump.
func ReadDump(r io.Reader) ([]chunk.Summary, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	defer zr.Close()

	var out []chunk.Summary
	dec := json.NewDecoder(zr)
	for dec.More() {
		var s chunk.Summary
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}
