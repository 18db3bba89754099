package generate

import "github.com/agentic-research/resgen/internal/document"

// ShapeOptions configures the Make* block shape helpers. The zero value
// names the shape <block><default suffix> and textures every face with the
// base block texture <ns>:block/<block>.
type ShapeOptions struct {
	Suffix  string
	Texture string
	// Top, Bottom and Side override Texture per face on slabs and stairs,
	// and name the two halves on doors.
	Top, Bottom, Side string
}

// shape is one Make* call resolved against its block.
type shape struct {
	m     *Manager
	name  string // ns:path<suffix>
	model string // ns:block/path<suffix>
	block string // ns:block/path
}

func (b *BlockContext) shape(opts ShapeOptions, suffix string, fn func(s shape, tex string) error) *BlockContext {
	return b.do(func(name string) error {
		if opts.Suffix != "" {
			suffix = opts.Suffix
		}
		block := b.loc.Namespace + ":block/" + b.loc.Path
		s := shape{m: b.m, name: name + suffix, model: block + suffix, block: block}
		return fn(s, firstNonEmpty(opts.Texture, block))
	})
}

func (s shape) models(textures map[string]string, suffixParents ...string) error {
	for i := 0; i+1 < len(suffixParents); i += 2 {
		err := s.m.BlockModel(s.name+suffixParents[i], BlockModelOptions{Textures: textures, Parent: suffixParents[i+1]})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s shape) itemParent(parent string) error {
	return s.m.ItemModel(s.name, ItemModelOptions{Parent: parent, NoTextures: true})
}

// MakeSlab writes the block state, bottom and top models and item model of
// a slab. The double slab uses the base block model.
func (b *BlockContext) MakeSlab(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_slab", func(s shape, tex string) error {
		faces := map[string]string{
			"bottom": firstNonEmpty(opts.Bottom, tex),
			"top":    firstNonEmpty(opts.Top, tex),
			"side":   firstNonEmpty(opts.Side, tex),
		}
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(slabVariants, s.model, s.model+"_top", s.block)})
			},
			func() error { return s.models(faces, "", "block/slab", "_top", "block/slab_top") },
			func() error { return s.itemParent(s.model) },
		)
	})
}

// MakeStairs writes a stair block with straight, inner and outer models.
func (b *BlockContext) MakeStairs(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_stairs", func(s shape, tex string) error {
		faces := map[string]string{
			"bottom": firstNonEmpty(opts.Bottom, tex),
			"top":    firstNonEmpty(opts.Top, tex),
			"side":   firstNonEmpty(opts.Side, tex),
		}
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(stairsVariants, s.model, s.model+"_inner", s.model+"_outer")})
			},
			func() error {
				return s.models(faces, "", "block/stairs", "_inner", "block/inner_stairs", "_outer", "block/outer_stairs")
			},
			func() error { return s.itemParent(s.model) },
		)
	})
}

// MakeFence writes a multipart fence: a post plus one side per connection.
func (b *BlockContext) MakeFence(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_fence", func(s shape, tex string) error {
		post, side := s.model+"_post", s.model+"_side"
		cases := []MultipartCase{{Apply: variant(post, 0, 0, false)}}
		for i, dir := range []string{"north", "east", "south", "west"} {
			cases = append(cases, MultipartCase{
				When:  document.Document{dir: "true"},
				Apply: variant(side, 0, i*90, true),
			})
		}
		return steps(
			func() error { return s.m.BlockStateMultipart(s.name, cases...) },
			func() error {
				return s.models(map[string]string{"texture": tex},
					"_post", "block/fence_post", "_side", "block/fence_side", "_inventory", "block/fence_inventory")
			},
			func() error { return s.itemParent(s.model + "_inventory") },
		)
	})
}

// MakeFenceGate writes a fence gate, open and closed, free standing and
// set in a wall.
func (b *BlockContext) MakeFenceGate(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_fence_gate", func(s shape, tex string) error {
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(fenceGateVariants,
					s.model, s.model+"_open", s.model+"_wall", s.model+"_wall_open")})
			},
			func() error {
				return s.models(map[string]string{"texture": tex},
					"", "block/template_fence_gate",
					"_open", "block/template_fence_gate_open",
					"_wall", "block/template_fence_gate_wall",
					"_wall_open", "block/template_fence_gate_wall_open")
			},
			func() error { return s.itemParent(s.model) },
		)
	})
}

// MakeWall writes a multipart wall with low and tall sides.
func (b *BlockContext) MakeWall(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_wall", func(s shape, tex string) error {
		cases := []MultipartCase{{When: document.Document{"up": "true"}, Apply: variant(s.model+"_post", 0, 0, false)}}
		for _, height := range []string{"low", "tall"} {
			side := s.model + "_side"
			if height == "tall" {
				side += "_tall"
			}
			for i, dir := range []string{"north", "east", "south", "west"} {
				cases = append(cases, MultipartCase{
					When:  document.Document{dir: height},
					Apply: variant(side, 0, i*90, true),
				})
			}
		}
		return steps(
			func() error { return s.m.BlockStateMultipart(s.name, cases...) },
			func() error {
				return s.models(map[string]string{"wall": tex},
					"_post", "block/template_wall_post",
					"_side", "block/template_wall_side",
					"_side_tall", "block/template_wall_side_tall",
					"_inventory", "block/wall_inventory")
			},
			func() error { return s.itemParent(s.model + "_inventory") },
		)
	})
}

// MakeDoor writes a door. Top and Bottom default to the door's own
// <door>_top and <door>_bottom textures; the item uses <ns>:item/<door>.
func (b *BlockContext) MakeDoor(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_door", func(s shape, _ string) error {
		faces := map[string]string{
			"top":    firstNonEmpty(opts.Top, s.model+"_top"),
			"bottom": firstNonEmpty(opts.Bottom, s.model+"_bottom"),
		}
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(doorVariants,
					s.model+"_bottom", s.model+"_bottom_hinge", s.model+"_top", s.model+"_top_hinge")})
			},
			func() error {
				return s.models(faces,
					"_bottom", "block/door_bottom",
					"_bottom_hinge", "block/door_bottom_rh",
					"_top", "block/door_top",
					"_top_hinge", "block/door_top_rh")
			},
			func() error { return s.m.ItemModel(s.name, ItemModelOptions{}) },
		)
	})
}

// MakeTrapdoor writes an orientable trapdoor. Texture defaults to the
// trapdoor's own texture.
func (b *BlockContext) MakeTrapdoor(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_trapdoor", func(s shape, _ string) error {
		tex := firstNonEmpty(opts.Texture, s.model)
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(trapdoorVariants,
					s.model+"_bottom", s.model+"_top", s.model+"_open")})
			},
			func() error {
				return s.models(map[string]string{"texture": tex},
					"_bottom", "block/template_orientable_trapdoor_bottom",
					"_top", "block/template_orientable_trapdoor_top",
					"_open", "block/template_orientable_trapdoor_open")
			},
			func() error { return s.itemParent(s.model + "_bottom") },
		)
	})
}

// MakeButton writes a button for floor, wall and ceiling placement.
func (b *BlockContext) MakeButton(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_button", func(s shape, tex string) error {
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: variantsOf(buttonVariants, s.model, s.model+"_pressed")})
			},
			func() error {
				return s.models(map[string]string{"texture": tex},
					"", "block/button",
					"_pressed", "block/button_pressed",
					"_inventory", "block/button_inventory")
			},
			func() error { return s.itemParent(s.model + "_inventory") },
		)
	})
}

// MakePressurePlate writes a pressure plate, up and pressed down.
func (b *BlockContext) MakePressurePlate(opts ShapeOptions) *BlockContext {
	return b.shape(opts, "_pressure_plate", func(s shape, tex string) error {
		return steps(
			func() error {
				return s.m.BlockState(s.name, BlockStateOptions{Variants: map[string]document.Document{
					"powered=false": variant(s.model, 0, 0, false),
					"powered=true":  variant(s.model+"_down", 0, 0, false),
				}})
			},
			func() error {
				return s.models(map[string]string{"texture": tex},
					"", "block/pressure_plate_up",
					"_down", "block/pressure_plate_down")
			},
			func() error { return s.itemParent(s.model) },
		)
	})
}

// shapeVariant is one block state variant; model indexes the models passed
// to variantsOf.
type shapeVariant struct {
	key    string
	model  int
	x, y   int
	uvlock bool
}

func variantsOf(table []shapeVariant, models ...string) map[string]document.Document {
	out := make(map[string]document.Document, len(table))
	for _, v := range table {
		out[v.key] = variant(models[v.model], v.x, v.y, v.uvlock)
	}
	return out
}

func variant(model string, x, y int, uvlock bool) document.Document {
	d := document.Document{"model": model}
	if x != 0 {
		d["x"] = x
	}
	if y != 0 {
		d["y"] = y
	}
	if uvlock {
		d["uvlock"] = true
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

var stairsVariants = []shapeVariant{
	{"facing=east,half=bottom,shape=straight", 0, 0, 0, false},
	{"facing=west,half=bottom,shape=straight", 0, 0, 180, true},
	{"facing=south,half=bottom,shape=straight", 0, 0, 90, true},
	{"facing=north,half=bottom,shape=straight", 0, 0, 270, true},
	{"facing=east,half=bottom,shape=outer_right", 2, 0, 0, false},
	{"facing=west,half=bottom,shape=outer_right", 2, 0, 180, true},
	{"facing=south,half=bottom,shape=outer_right", 2, 0, 90, true},
	{"facing=north,half=bottom,shape=outer_right", 2, 0, 270, true},
	{"facing=east,half=bottom,shape=outer_left", 2, 0, 270, true},
	{"facing=west,half=bottom,shape=outer_left", 2, 0, 90, true},
	{"facing=south,half=bottom,shape=outer_left", 2, 0, 0, false},
	{"facing=north,half=bottom,shape=outer_left", 2, 0, 180, true},
	{"facing=east,half=bottom,shape=inner_right", 1, 0, 0, false},
	{"facing=west,half=bottom,shape=inner_right", 1, 0, 180, true},
	{"facing=south,half=bottom,shape=inner_right", 1, 0, 90, true},
	{"facing=north,half=bottom,shape=inner_right", 1, 0, 270, true},
	{"facing=east,half=bottom,shape=inner_left", 1, 0, 270, true},
	{"facing=west,half=bottom,shape=inner_left", 1, 0, 90, true},
	{"facing=south,half=bottom,shape=inner_left", 1, 0, 0, false},
	{"facing=north,half=bottom,shape=inner_left", 1, 0, 180, true},
	{"facing=east,half=top,shape=straight", 0, 180, 0, true},
	{"facing=west,half=top,shape=straight", 0, 180, 180, true},
	{"facing=south,half=top,shape=straight", 0, 180, 90, true},
	{"facing=north,half=top,shape=straight", 0, 180, 270, true},
	{"facing=east,half=top,shape=outer_right", 2, 180, 90, true},
	{"facing=west,half=top,shape=outer_right", 2, 180, 270, true},
	{"facing=south,half=top,shape=outer_right", 2, 180, 180, true},
	{"facing=north,half=top,shape=outer_right", 2, 180, 0, true},
	{"facing=east,half=top,shape=outer_left", 2, 180, 0, true},
	{"facing=west,half=top,shape=outer_left", 2, 180, 180, true},
	{"facing=south,half=top,shape=outer_left", 2, 180, 90, true},
	{"facing=north,half=top,shape=outer_left", 2, 180, 270, true},
	{"facing=east,half=top,shape=inner_right", 1, 180, 90, true},
	{"facing=west,half=top,shape=inner_right", 1, 180, 270, true},
	{"facing=south,half=top,shape=inner_right", 1, 180, 180, true},
	{"facing=north,half=top,shape=inner_right", 1, 180, 0, true},
	{"facing=east,half=top,shape=inner_left", 1, 180, 0, true},
	{"facing=west,half=top,shape=inner_left", 1, 180, 180, true},
	{"facing=south,half=top,shape=inner_left", 1, 180, 90, true},
	{"facing=north,half=top,shape=inner_left", 1, 180, 270, true},
}

var fenceGateVariants = []shapeVariant{
	{"facing=south,in_wall=false,open=false", 0, 0, 0, true},
	{"facing=west,in_wall=false,open=false", 0, 0, 90, true},
	{"facing=north,in_wall=false,open=false", 0, 0, 180, true},
	{"facing=east,in_wall=false,open=false", 0, 0, 270, true},
	{"facing=south,in_wall=false,open=true", 1, 0, 0, true},
	{"facing=west,in_wall=false,open=true", 1, 0, 90, true},
	{"facing=north,in_wall=false,open=true", 1, 0, 180, true},
	{"facing=east,in_wall=false,open=true", 1, 0, 270, true},
	{"facing=south,in_wall=true,open=false", 2, 0, 0, true},
	{"facing=west,in_wall=true,open=false", 2, 0, 90, true},
	{"facing=north,in_wall=true,open=false", 2, 0, 180, true},
	{"facing=east,in_wall=true,open=false", 2, 0, 270, true},
	{"facing=south,in_wall=true,open=true", 3, 0, 0, true},
	{"facing=west,in_wall=true,open=true", 3, 0, 90, true},
	{"facing=north,in_wall=true,open=true", 3, 0, 180, true},
	{"facing=east,in_wall=true,open=true", 3, 0, 270, true},
}

var slabVariants = []shapeVariant{
	{"type=bottom", 0, 0, 0, false},
	{"type=top", 1, 0, 0, false},
	{"type=double", 2, 0, 0, false},
}

var doorVariants = []shapeVariant{
	{"facing=east,half=lower,hinge=left,open=false", 0, 0, 0, false},
	{"facing=south,half=lower,hinge=left,open=false", 0, 0, 90, false},
	{"facing=west,half=lower,hinge=left,open=false", 0, 0, 180, false},
	{"facing=north,half=lower,hinge=left,open=false", 0, 0, 270, false},
	{"facing=east,half=lower,hinge=right,open=false", 1, 0, 0, false},
	{"facing=south,half=lower,hinge=right,open=false", 1, 0, 90, false},
	{"facing=west,half=lower,hinge=right,open=false", 1, 0, 180, false},
	{"facing=north,half=lower,hinge=right,open=false", 1, 0, 270, false},
	{"facing=east,half=lower,hinge=left,open=true", 1, 0, 90, false},
	{"facing=south,half=lower,hinge=left,open=true", 1, 0, 180, false},
	{"facing=west,half=lower,hinge=left,open=true", 1, 0, 270, false},
	{"facing=north,half=lower,hinge=left,open=true", 1, 0, 0, false},
	{"facing=east,half=lower,hinge=right,open=true", 0, 0, 270, false},
	{"facing=south,half=lower,hinge=right,open=true", 0, 0, 0, false},
	{"facing=west,half=lower,hinge=right,open=true", 0, 0, 90, false},
	{"facing=north,half=lower,hinge=right,open=true", 0, 0, 180, false},
	{"facing=east,half=upper,hinge=left,open=false", 2, 0, 0, false},
	{"facing=south,half=upper,hinge=left,open=false", 2, 0, 90, false},
	{"facing=west,half=upper,hinge=left,open=false", 2, 0, 180, false},
	{"facing=north,half=upper,hinge=left,open=false", 2, 0, 270, false},
	{"facing=east,half=upper,hinge=right,open=false", 3, 0, 0, false},
	{"facing=south,half=upper,hinge=right,open=false", 3, 0, 90, false},
	{"facing=west,half=upper,hinge=right,open=false", 3, 0, 180, false},
	{"facing=north,half=upper,hinge=right,open=false", 3, 0, 270, false},
	{"facing=east,half=upper,hinge=left,open=true", 3, 0, 90, false},
	{"facing=south,half=upper,hinge=left,open=true", 3, 0, 180, false},
	{"facing=west,half=upper,hinge=left,open=true", 3, 0, 270, false},
	{"facing=north,half=upper,hinge=left,open=true", 3, 0, 0, false},
	{"facing=east,half=upper,hinge=right,open=true", 2, 0, 270, false},
	{"facing=south,half=upper,hinge=right,open=true", 2, 0, 0, false},
	{"facing=west,half=upper,hinge=right,open=true", 2, 0, 90, false},
	{"facing=north,half=upper,hinge=right,open=true", 2, 0, 180, false},
}

var trapdoorVariants = []shapeVariant{
	{"facing=north,half=bottom,open=false", 0, 0, 0, false},
	{"facing=south,half=bottom,open=false", 0, 0, 180, false},
	{"facing=east,half=bottom,open=false", 0, 0, 90, false},
	{"facing=west,half=bottom,open=false", 0, 0, 270, false},
	{"facing=north,half=top,open=false", 1, 0, 0, false},
	{"facing=south,half=top,open=false", 1, 0, 180, false},
	{"facing=east,half=top,open=false", 1, 0, 90, false},
	{"facing=west,half=top,open=false", 1, 0, 270, false},
	{"facing=north,half=bottom,open=true", 2, 0, 0, false},
	{"facing=south,half=bottom,open=true", 2, 0, 180, false},
	{"facing=east,half=bottom,open=true", 2, 0, 90, false},
	{"facing=west,half=bottom,open=true", 2, 0, 270, false},
	{"facing=north,half=top,open=true", 2, 180, 180, false},
	{"facing=south,half=top,open=true", 2, 180, 0, false},
	{"facing=east,half=top,open=true", 2, 180, 270, false},
	{"facing=west,half=top,open=true", 2, 180, 90, false},
}

var buttonVariants = func() []shapeVariant {
	type placement struct {
		face   string
		facing string
		x, y   int
		uvlock bool
	}
	placements := []placement{
		{"ceiling", "east", 180, 270, false},
		{"ceiling", "north", 180, 180, false},
		{"ceiling", "south", 180, 0, false},
		{"ceiling", "west", 180, 90, false},
		{"floor", "east", 0, 90, false},
		{"floor", "north", 0, 0, false},
		{"floor", "south", 0, 180, false},
		{"floor", "west", 0, 270, false},
		{"wall", "east", 90, 90, true},
		{"wall", "north", 90, 0, true},
		{"wall", "south", 90, 180, true},
		{"wall", "west", 90, 270, true},
	}
	out := make([]shapeVariant, 0, 2*len(placements))
	for model, powered := range []string{"false", "true"} {
		for _, p := range placements {
			out = append(out, shapeVariant{
				key:    "face=" + p.face + ",facing=" + p.facing + ",powered=" + powered,
				model:  model,
				x:      p.x,
				y:      p.y,
				uvlock: p.uvlock,
			})
		}
	}
	return out
}()
