package terrain

// Biome names produced by the noise terrain.
const (
	Ocean          = "ocean"
	Beach          = "beach"
	Plains         = "plains"
	Forest         = "forest"
	DarkForest     = "dark_forest"
	Taiga          = "taiga"
	SnowyTaiga     = "snowy_taiga"
	SnowyPlains    = "snowy_plains"
	Savanna        = "savanna"
	Jungle         = "jungle"
	Desert         = "desert"
	WindsweptHills = "windswept_hills"
)

// BiomeNames lists every biome the noise terrain can place.
var BiomeNames = []string{
	Beach, DarkForest, Desert, Forest, Jungle, Ocean, Plains, Savanna, SnowyPlains, SnowyTaiga, Taiga, WindsweptHills,
}

// selectBiome maps temperature and rainfall to a biome.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6) | Wet (>0.6)
//	Cold <0.3     | Snowy Plains  | Snowy Taiga      | Taiga
//	Mild 0.3-0.7  | Plains        | Forest           | Dark Forest
//	Warm 0.7-1.2  | Savanna       | Plains           | Jungle
//	Hot >1.2      | Desert        | Desert           | Jungle
func selectBiome(temp, rain float64) string {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return SnowyPlains
		case rain < 0.6:
			return SnowyTaiga
		default:
			return Taiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return Plains
		case rain < 0.6:
			return Forest
		default:
			return DarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return Savanna
		case rain < 0.6:
			return Plains
		default:
			return Jungle
		}
	default:
		if rain > 0.6 {
			return Jungle
		}
		return Desert
	}
}

// biomeTerrainParams returns (amplitude, baseHeight) for terrain noise scaling.
func biomeTerrainParams(biome string, seaLevel int) (amplitude, baseHeight float64) {
	sea := float64(seaLevel)
	switch biome {
	case Ocean:
		return 8.0, sea - 22
	case Plains, Savanna:
		return 12.0, sea
	case Forest, DarkForest:
		return 16.0, sea + 2
	case Taiga, SnowyTaiga:
		return 18.0, sea + 4
	case Desert:
		return 10.0, sea + 2
	case Jungle:
		return 18.0, sea + 4
	case WindsweptHills:
		return 40.0, sea + 10
	case Beach:
		return 3.0, sea
	case SnowyPlains:
		return 10.0, sea
	default:
		return 14.0, sea
	}
}
