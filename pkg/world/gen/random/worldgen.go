package random

// DecorationSeed reseeds r for decorating the chunk whose minimum block
// corner is (blockX, blockZ) and returns the decoration seed.
func DecorationSeed(r Source, levelSeed int64, blockX, blockZ int) int64 {
	r.SetSeed(levelSeed)
	a := r.NextLong() | 1
	b := r.NextLong() | 1
	seed := (int64(blockX)*a + int64(blockZ)*b) ^ levelSeed
	r.SetSeed(seed)
	return seed
}

// FeatureSeed reseeds r for the feature at index within a decoration step.
func FeatureSeed(r Source, decorationSeed int64, index, step int) {
	r.SetSeed(decorationSeed + int64(index) + int64(10000*step))
}

// LargeFeatureSeed reseeds r for a structure or carver started from chunk
// (chunkX, chunkZ).
func LargeFeatureSeed(r Source, baseSeed int64, chunkX, chunkZ int) {
	r.SetSeed(baseSeed)
	a := r.NextLong()
	b := r.NextLong()
	r.SetSeed(int64(chunkX)*a ^ int64(chunkZ)*b ^ baseSeed)
}
