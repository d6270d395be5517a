package carver

import "math/bits"

// Mask records the cells of one chunk that a carver already processed.
type Mask struct {
	minY   int
	height int
	words  []uint64
}

// NewMask returns an empty mask for a chunk of height blocks starting at minY.
func NewMask(minY int8, height uint16) *Mask {
	n := 16 * 16 * int(height)
	return &Mask{minY: int(minY), height: int(height), words: make([]uint64, (n+63)/64)}
}

// index packs local x and z with the offset y. Cells outside the vertical
// range have no index.
func (m *Mask) index(x, y, z int) (int, bool) {
	if y < m.minY || y >= m.minY+m.height {
		return 0, false
	}
	return x&15 | (z&15)<<4 | (y-m.minY)<<8, true
}

// Get reports whether the cell at local x, z and absolute y is marked.
func (m *Mask) Get(x, y, z int) bool {
	i, ok := m.index(x, y, z)
	return ok && m.words[i>>6]&(1<<(i&63)) != 0
}

// Set marks the cell. Cells outside the vertical range are ignored.
func (m *Mask) Set(x, y, z int) {
	if i, ok := m.index(x, y, z); ok {
		m.words[i>>6] |= 1 << (i & 63)
	}
}

// Count returns the number of marked cells.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}
