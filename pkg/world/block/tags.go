package block

import (
	"fmt"
	"strings"
)

// Set is a set of blocks, keyed by block id.
type Set map[uint16]struct{}

// Contains reports whether the block of s is in the set.
func (set Set) Contains(s State) bool {
	_, ok := set[s.BlockID]
	return ok
}

var tagMembers = map[string][]string{
	"logs":   {"oak_log", "birch_log", "spruce_log", "jungle_log", "acacia_log", "dark_oak_log"},
	"leaves": {"oak_leaves", "birch_leaves", "spruce_leaves", "jungle_leaves", "acacia_leaves", "dark_oak_leaves"},
	"dirt": {
		"dirt", "grass_block", "podzol", "coarse_dirt", "mycelium", "rooted_dirt", "moss_block", "mud",
	},
	"sand":                 {"sand", "red_sand"},
	"base_stone_overworld": {"stone", "granite", "diorite", "andesite", "tuff", "deepslate"},
	"small_flowers": {
		"dandelion", "poppy", "blue_orchid", "allium", "azure_bluet", "red_tulip", "orange_tulip",
		"white_tulip", "pink_tulip", "oxeye_daisy", "cornflower", "lily_of_the_valley",
	},
	"flowers":     {"#small_flowers", "sunflower"},
	"iron_ores":   {"iron_ore", "deepslate_iron_ore"},
	"coal_ores":   {"coal_ore", "deepslate_coal_ore"},
	"copper_ores": {"copper_ore", "deepslate_copper_ore"},
	"replaceable_by_trees": {
		"#leaves", "short_grass", "fern", "dead_bush", "vine", "tall_grass", "large_fern", "sunflower", "water",
	},
	"overworld_carver_replaceables": {
		"#base_stone_overworld", "#dirt", "#sand", "terracotta", "#iron_ores", "#copper_ores",
		"water", "gravel", "sandstone", "red_sandstone", "calcite", "snow", "packed_ice",
	},
}

func buildTags(r *registry) map[string]Set {
	tags := make(map[string]Set, len(tagMembers))
	var resolve func(name string, depth int) Set
	resolve = func(name string, depth int) Set {
		if s, ok := tags[name]; ok {
			return s
		}
		if depth > len(tagMembers) {
			panic(fmt.Sprintf("block tag %s: recursive definition", name))
		}
		set := make(Set)
		for _, m := range tagMembers[name] {
			if strings.HasPrefix(m, "#") {
				for id := range resolve(m[1:], depth+1) {
					set[id] = struct{}{}
				}
				continue
			}
			b, ok := r.byName[m]
			if !ok {
				panic(fmt.Sprintf("block tag %s: unknown block %s", name, m))
			}
			set[b.ID] = struct{}{}
		}
		tags[name] = set
		return set
	}
	for name := range tagMembers {
		resolve(name, 0)
	}
	return tags
}

// Tag returns the members of a block tag. The name may carry a leading '#'
// and a namespace.
func Tag(name string) (Set, bool) {
	s, ok := table().tags[StripNamespace(strings.TrimPrefix(name, "#"))]
	return s, ok
}

// HasTag reports whether the block of s is in the named tag.
func HasTag(s State, tag string) bool {
	set, ok := Tag(tag)
	return ok && set.Contains(s)
}

// ResolveSet resolves a block reference to a set: "#tag" names a tag, a
// plain name a single block.
func ResolveSet(ref string) (Set, error) {
	if strings.HasPrefix(ref, "#") {
		set, ok := Tag(ref)
		if !ok {
			return nil, fmt.Errorf("unknown block tag: %s", ref)
		}
		return set, nil
	}
	b, ok := ByName(ref)
	if !ok {
		return nil, fmt.Errorf("unknown block: %s", ref)
	}
	return Set{b.ID: {}}, nil
}
