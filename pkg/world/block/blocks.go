package block

type definition struct {
	name     string
	props    []Property
	defaults map[string]string
	flags    uint8
}

const (
	solid       = flagSolid
	replaceable = flagReplaceable
	air         = flagAir | flagReplaceable
)

func simple(name string, flags uint8) definition {
	return definition{name: name, flags: flags}
}

func axis(name string) definition {
	return definition{
		name:     name,
		props:    []Property{enumProp("axis", "x", "y", "z")},
		defaults: map[string]string{"axis": "y"},
		flags:    solid,
	}
}

func snowy(name string) definition {
	return definition{
		name:     name,
		props:    []Property{boolProp("snowy")},
		defaults: map[string]string{"snowy": "false"},
		flags:    solid,
	}
}

func leaves(name string) definition {
	return definition{
		name:     name,
		props:    []Property{intProp("distance", 1, 7), boolProp("persistent"), boolProp("waterlogged")},
		defaults: map[string]string{"distance": "7", "persistent": "false", "waterlogged": "false"},
		flags:    solid,
	}
}

func fluid(name string) definition {
	return definition{
		name:     name,
		props:    []Property{intProp("level", 0, 15)},
		defaults: map[string]string{"level": "0"},
		flags:    replaceable,
	}
}

func slab(name string) definition {
	return definition{
		name:     name,
		props:    []Property{enumProp("type", "top", "bottom", "double"), boolProp("waterlogged")},
		defaults: map[string]string{"type": "bottom", "waterlogged": "false"},
		flags:    solid,
	}
}

func doublePlant(name string) definition {
	return definition{
		name:     name,
		props:    []Property{enumProp("half", "upper", "lower")},
		defaults: map[string]string{"half": "lower"},
		flags:    replaceable,
	}
}

func aged(name string, maxAge int, flags uint8) definition {
	return definition{
		name:     name,
		props:    []Property{intProp("age", 0, maxAge)},
		defaults: map[string]string{"age": "0"},
		flags:    flags,
	}
}

// definitions is the block table. Order fixes block and state ids; air must
// stay first.
var definitions = []definition{
	simple("air", air),
	simple("cave_air", air),
	simple("void_air", air),

	simple("stone", solid),
	simple("granite", solid),
	simple("diorite", solid),
	simple("andesite", solid),
	axis("deepslate"),
	simple("tuff", solid),
	simple("calcite", solid),
	simple("bedrock", solid),
	simple("cobblestone", solid),
	simple("mossy_cobblestone", solid),
	simple("obsidian", solid),

	snowy("grass_block"),
	simple("dirt", solid),
	simple("coarse_dirt", solid),
	simple("rooted_dirt", solid),
	snowy("podzol"),
	snowy("mycelium"),
	simple("mud", solid),
	simple("moss_block", solid),

	simple("sand", solid),
	simple("red_sand", solid),
	simple("gravel", solid),
	simple("clay", solid),
	simple("sandstone", solid),
	simple("red_sandstone", solid),
	simple("terracotta", solid),
	slab("sandstone_slab"),

	fluid("water"),
	fluid("lava"),
	simple("ice", solid),
	simple("packed_ice", solid),
	simple("snow_block", solid),
	{
		name:     "snow",
		props:    []Property{intProp("layers", 1, 8)},
		defaults: map[string]string{"layers": "1"},
		flags:    replaceable,
	},

	simple("coal_ore", solid),
	simple("deepslate_coal_ore", solid),
	simple("iron_ore", solid),
	simple("deepslate_iron_ore", solid),
	simple("copper_ore", solid),
	simple("deepslate_copper_ore", solid),
	simple("gold_ore", solid),
	simple("deepslate_gold_ore", solid),
	{
		name:     "redstone_ore",
		props:    []Property{boolProp("lit")},
		defaults: map[string]string{"lit": "false"},
		flags:    solid,
	},
	simple("lapis_ore", solid),
	simple("diamond_ore", solid),
	simple("emerald_ore", solid),

	axis("oak_log"),
	axis("birch_log"),
	axis("spruce_log"),
	axis("jungle_log"),
	axis("acacia_log"),
	axis("dark_oak_log"),
	leaves("oak_leaves"),
	leaves("birch_leaves"),
	leaves("spruce_leaves"),
	leaves("jungle_leaves"),
	leaves("acacia_leaves"),
	leaves("dark_oak_leaves"),
	{
		name:     "oak_sapling",
		props:    []Property{intProp("stage", 0, 1)},
		defaults: map[string]string{"stage": "0"},
	},

	simple("short_grass", replaceable),
	simple("fern", replaceable),
	doublePlant("tall_grass"),
	doublePlant("large_fern"),
	simple("dead_bush", replaceable),
	{
		name: "vine",
		props: []Property{
			boolProp("east"), boolProp("north"), boolProp("south"), boolProp("up"), boolProp("west"),
		},
		defaults: map[string]string{"east": "false", "north": "false", "south": "false", "up": "false", "west": "false"},
		flags:    replaceable,
	},
	simple("dandelion", 0),
	simple("poppy", 0),
	simple("blue_orchid", 0),
	simple("allium", 0),
	simple("azure_bluet", 0),
	simple("red_tulip", 0),
	simple("orange_tulip", 0),
	simple("white_tulip", 0),
	simple("pink_tulip", 0),
	simple("oxeye_daisy", 0),
	simple("cornflower", 0),
	simple("lily_of_the_valley", 0),
	doublePlant("sunflower"),

	simple("pumpkin", solid),
	simple("melon", solid),
	aged("cactus", 15, solid),
	aged("sugar_cane", 15, 0),
}
