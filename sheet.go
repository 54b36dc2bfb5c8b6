package piste

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// SheetSpec is the YAML description of a sprite sheet:
//
//	image: skier.png
//	transparent_white: true
//	frames:
//	  - name: down
//	    rect: [65, 0, 82, 34]
//	    hitbox: [-7, 10, 8, 17]
//	animations:
//	  running:
//	    frames: [run-3, run-4]
//	    fps: 6
//	    repeat: true
//
// Frames may also come from a TexturePacker JSON file named by atlas;
// frames listed in YAML are added after the atlas frames and replace any
// with the same name.
type SheetSpec struct {
	Image            string                   `yaml:"image"`
	TransparentWhite bool                     `yaml:"transparent_white"`
	Atlas            string                   `yaml:"atlas"`
	Frames           []FrameSpec              `yaml:"frames"`
	Animations       map[string]AnimationSpec `yaml:"animations"`
}

// FrameSpec is one named source rectangle. Rect and Hitbox are
// [left, top, right, bottom].
type FrameSpec struct {
	Name   string      `yaml:"name"`
	Rect   [4]float64  `yaml:"rect"`
	Hitbox *[4]float64 `yaml:"hitbox"`
}

// AnimationSpec lists an animation's frames either directly or as steps,
// each step a frame sequence played Times times.
type AnimationSpec struct {
	Frames []string   `yaml:"frames"`
	Steps  []StepSpec `yaml:"steps"`
	FPS    float64    `yaml:"fps"`
	Repeat bool       `yaml:"repeat"`
}

// StepSpec is a repeated run of frames inside an AnimationSpec.
type StepSpec struct {
	Frames []string `yaml:"frames"`
	Times  int      `yaml:"times"`
}

func boxFrom(v [4]float64) Box {
	return Box{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
}

// ParseSheetSpec decodes YAML sheet data.
func ParseSheetSpec(data []byte) (SheetSpec, error) {
	var spec SheetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SheetSpec{}, fmt.Errorf("piste: unmarshal sheet: %w", err)
	}
	return spec, nil
}

// LoadSheetSpec reads and decodes the YAML sheet at name in fsys.
func LoadSheetSpec(fsys fs.FS, name string) (SheetSpec, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return SheetSpec{}, fmt.Errorf("piste: load sheet %s: %w", name, err)
	}
	spec, err := ParseSheetSpec(data)
	if err != nil {
		return SheetSpec{}, fmt.Errorf("piste: parse sheet %s: %w", name, err)
	}
	return spec, nil
}

// Build turns the spec into a frame table and validated animations.
// atlas supplies the frames of the atlas file, or nil.
func (s SheetSpec) Build(atlas *FrameTable) (*FrameTable, map[string]Animation, error) {
	table := NewFrameTable()
	for _, name := range atlas.Names() {
		f, _ := atlas.Get(name)
		table.Add(name, f)
	}
	for i, fsp := range s.Frames {
		if fsp.Name == "" {
			return nil, nil, fmt.Errorf("piste: sheet frame %d has no name", i)
		}
		f := Frame{Src: boxFrom(fsp.Rect)}
		if w, h := f.Size(); w == 0 || h == 0 {
			return nil, nil, fmt.Errorf("piste: sheet frame %q has an empty rect", fsp.Name)
		}
		if fsp.Hitbox != nil {
			hb := boxFrom(*fsp.Hitbox)
			f.Hitbox = &hb
		}
		table.Add(fsp.Name, f)
	}

	anims := make(map[string]Animation, len(s.Animations))
	for name, as := range s.Animations {
		a := Animation{Frames: as.Frames, FrameRate: as.FPS, Repeat: as.Repeat}
		for _, st := range as.Steps {
			a.Frames = append(a.Frames, Repeated(max(st.Times, 1), st.Frames...)...)
		}
		if err := a.validate(name, table); err != nil {
			return nil, nil, err
		}
		anims[name] = a
	}
	return table, anims, nil
}

// Sheet is a loaded sheet: its spec, frames, animations and image.
type Sheet struct {
	Spec       SheetSpec
	Frames     *FrameTable
	Animations map[string]Animation
	Asset      *Asset
}

// LoadSheet loads the YAML sheet at name, its atlas if any, and starts
// loading its image through loader. Paths inside the spec are relative to
// the spec file.
func LoadSheet(fsys fs.FS, name string, loader *AssetLoader) (*Sheet, error) {
	spec, err := LoadSheetSpec(fsys, name)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(name)

	var atlasFrames *FrameTable
	if spec.Atlas != "" {
		p := path.Join(dir, spec.Atlas)
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("piste: load atlas %s: %w", p, err)
		}
		atlas, err := LoadAtlas(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		atlasFrames = atlas.Page(0)
		if spec.Image == "" && len(atlas.Images) > 0 {
			spec.Image = atlas.Images[0]
		}
	}

	frames, anims, err := spec.Build(atlasFrames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sh := &Sheet{Spec: spec, Frames: frames, Animations: anims}
	if loader != nil && spec.Image != "" {
		img := path.Join(dir, spec.Image)
		if spec.TransparentWhite {
			sh.Asset = loader.LoadTransparent(img)
		} else {
			sh.Asset = loader.Load(img)
		}
	}
	return sh, nil
}

// Apply gives f the sheet's image, frames and animations. The current frame
// is kept when the new table still has it, and a playing animation that
// still exists restarts.
func (sh *Sheet) Apply(f *FramedSprite) error {
	if sh.Asset != nil {
		f.SetAsset(sh.Asset)
	}
	current := f.CurrentFrame()
	playing := f.CurrentAnimation()
	f.StopAnimation()
	f.SetFrames(sh.Frames)
	if _, ok := sh.Frames.Get(current); ok {
		if err := f.SetFrame(current); err != nil {
			return err
		}
	}
	if err := f.SetAnimations(sh.Animations); err != nil {
		return err
	}
	if _, ok := sh.Animations[playing]; ok {
		return f.StartAnimation(playing)
	}
	return nil
}
