package generate

import "github.com/agentic-research/resgen/internal/document"

// AtlasSource is one entry of a texture atlas "sources" list.
type AtlasSource document.Document

// Atlas writes assets/<ns>/atlases/<name>.json.
func (m *Manager) Atlas(name string, sources ...AtlasSource) error {
	list := make([]any, 0, len(sources))
	for _, s := range sources {
		list = append(list, document.Document(s))
	}
	return m.Asset("atlases/"+name, document.Document{"sources": list})
}

// AtlasDirectory adds every texture under source, keeping its path as the
// sprite name prefix.
func AtlasDirectory(source string) AtlasSource {
	return AtlasDirectoryPrefix(source, source+"/")
}

func AtlasDirectoryPrefix(source, prefix string) AtlasSource {
	return AtlasSource{"type": "directory", "source": source, "prefix": prefix}
}

// AtlasSingle adds one texture, optionally under another sprite name.
func AtlasSingle(resource, sprite string) AtlasSource {
	s := AtlasSource{"type": "single", "resource": resource}
	if sprite != "" {
		s["sprite"] = sprite
	}
	return s
}

// AtlasPalette permutes each texture against the palettes in permutations,
// keyed by sprite suffix.
func AtlasPalette(textures []string, paletteKey string, permutations map[string]string) AtlasSource {
	return AtlasSource{
		"type":         "paletted_permutations",
		"textures":     textures,
		"palette_key":  paletteKey,
		"permutations": permutations,
	}
}

// AtlasFilter removes sprites matching the namespace and path patterns.
// Empty patterns are left out.
func AtlasFilter(namespace, path string) AtlasSource {
	pattern := document.Document{}
	if namespace != "" {
		pattern["namespace"] = namespace
	}
	if path != "" {
		pattern["path"] = path
	}
	return AtlasSource{"type": "filter", "pattern": pattern}
}

// AtlasRegion is one sprite cut out of an unstitched texture.
type AtlasRegion struct {
	Sprite        string
	X, Y          float64
	Width, Height float64
}

// AtlasUnstitch splits resource into regions on a divX by divY grid.
func AtlasUnstitch(resource string, divX, divY float64, regions ...AtlasRegion) AtlasSource {
	list := make([]any, 0, len(regions))
	for _, r := range regions {
		list = append(list, document.Document{
			"sprite": r.Sprite,
			"x":      r.X,
			"y":      r.Y,
			"width":  r.Width,
			"height": r.Height,
		})
	}
	return AtlasSource{
		"type":      "unstitch",
		"resource":  resource,
		"divisor_x": divX,
		"divisor_y": divY,
		"regions":   list,
	}
}
