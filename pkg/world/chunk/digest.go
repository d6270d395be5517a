package chunk

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
)

// Digest returns a 64-bit fingerprint of the chunk's blocks and biomes. Equal
// chunks have equal digests; the value is stable across runs and platforms.
func (c *ProtoChunk) Digest() uint64 {
	d := xxhash.New()
	var buf [8192]byte
	for i, sec := range c.sections {
		binary.LittleEndian.PutUint32(buf[:4], uint32(i))
		if sec == nil {
			buf[4] = 0
			_, _ = d.Write(buf[:5])
			continue
		}
		buf[4] = 1
		_, _ = d.Write(buf[:5])
		for j, s := range sec.States {
			binary.LittleEndian.PutUint16(buf[j*2:], s)
		}
		_, _ = d.Write(buf[:])
	}
	for _, b := range c.biomes {
		if b == nil {
			_, _ = d.WriteString("\x00")
			continue
		}
		_, _ = d.WriteString(b.Name)
		_, _ = d.WriteString("\x00")
	}
	return d.Sum64()
}

// Summary counts the non-air blocks of the chunk by block name.
type Summary struct {
	Pos    ChunkPos       `json:"pos"`
	Digest uint64         `json:"digest"`
	Blocks map[string]int `json:"blocks"`
}

// Summarize builds the block histogram of the chunk.
func (c *ProtoChunk) Summarize() Summary {
	counts := make(map[uint16]int)
	for _, sec := range c.sections {
		if sec == nil {
			continue
		}
		for _, s := range sec.States {
			if s != 0 {
				counts[block.StateByID(s).BlockID]++
			}
		}
	}
	out := Summary{Pos: c.pos, Digest: c.Digest(), Blocks: make(map[string]int, len(counts))}
	for id, n := range counts {
		b, _ := block.ByID(id)
		if b.DefaultState().Air {
			continue
		}
		out.Blocks[b.Name] = n
	}
	return out
}
