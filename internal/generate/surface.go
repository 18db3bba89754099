package generate

import "github.com/agentic-research/resgen/internal/document"

// Surface rules and the predicates they test, as nested in a
// worldgen/noise_settings document.

// SurfaceBlock places state, given in "ns:block[props]" form.
func SurfaceBlock(state string) (document.Document, error) {
	ref, err := BlockStateRef(state)
	if err != nil {
		return nil, err
	}
	return document.Document{"type": "minecraft:block", "result_state": ref}, nil
}

// SurfaceSequence runs the first rule that places a block.
func SurfaceSequence(rules ...document.Document) document.Document {
	return document.Document{"type": "minecraft:sequence", "sequence": rules}
}

// SurfaceCondition runs then where predicate holds.
func SurfaceCondition(predicate, then document.Document) document.Document {
	return document.Document{"type": "minecraft:condition", "if_true": predicate, "then_run": then}
}

func SurfaceBadlands() document.Document {
	return document.Document{"type": "minecraft:badlands"}
}

// VerticalAnchor is a y level: absolute, or relative to the world bottom
// or top.
type VerticalAnchor document.Document

func Absolute(y int) VerticalAnchor { return VerticalAnchor{"absolute": y} }
func AboveBottom(offset int) VerticalAnchor { return VerticalAnchor{"above_bottom": offset} }
func BelowTop(offset int) VerticalAnchor { return VerticalAnchor{"below_top": offset} }

func BiomeIs(biomes ...string) document.Document {
	return document.Document{"type": "minecraft:biome", "biome_is": biomes}
}

func NoiseThreshold(noise string, lo, hi float64) document.Document {
	return document.Document{
		"type":          "minecraft:noise_threshold",
		"noise":         noise,
		"min_threshold": lo,
		"max_threshold": hi,
	}
}

// VerticalGradient holds at and below trueBelow, never at or above
// falseAbove, and randomly in between.
func VerticalGradient(randomName string, trueBelow, falseAbove VerticalAnchor) document.Document {
	return document.Document{
		"type":               "minecraft:vertical_gradient",
		"random_name":        randomName,
		"true_at_and_below":  document.Document(trueBelow),
		"false_at_and_above": document.Document(falseAbove),
	}
}

func YAbove(anchor VerticalAnchor, surfaceDepthMultiplier int, addStoneDepth bool) document.Document {
	return document.Document{
		"type":                     "minecraft:y_above",
		"anchor":                   document.Document(anchor),
		"surface_depth_multiplier": surfaceDepthMultiplier,
		"add_stone_depth":          addStoneDepth,
	}
}

func Water(offset, surfaceDepthMultiplier int, addStoneDepth bool) document.Document {
	return document.Document{
		"type":                     "minecraft:water",
		"offset":                   offset,
		"surface_depth_multiplier": surfaceDepthMultiplier,
		"add_stone_depth":          addStoneDepth,
	}
}

// StoneDepth tests depth below the floor or ceiling surface; surfaceType
// is "floor" or "ceiling".
func StoneDepth(offset int, addSurfaceDepth, addSecondaryDepth bool, surfaceType string) document.Document {
	return document.Document{
		"type":                        "minecraft:stone_depth",
		"offset":                      offset,
		"add_surface_depth":           addSurfaceDepth,
		"add_surface_secondary_depth": addSecondaryDepth,
		"surface_type":                surfaceType,
	}
}

func Not(predicate document.Document) document.Document {
	return document.Document{"type": "minecraft:not", "invert": predicate}
}

func Temperature() document.Document { return document.Document{"type": "minecraft:temperature"} }

func Steep() document.Document { return document.Document{"type": "minecraft:steep"} }

func Hole() document.Document { return document.Document{"type": "minecraft:hole"} }

func AbovePreliminarySurface() document.Document {
	return document.Document{"type": "minecraft:above_preliminary_surface"}
}
