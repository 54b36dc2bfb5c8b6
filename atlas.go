package piste

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Atlas is a parsed TexturePacker export: one frame table per page image.
type Atlas struct {
	// Images holds each page's image file name, indexed by page.
	Images []string
	pages  []*FrameTable
}

// Page returns the frames of page i, or nil when out of range.
func (a *Atlas) Page(i int) *FrameTable {
	if i < 0 || i >= len(a.pages) {
		return nil
	}
	return a.pages[i]
}

// PageCount returns the number of pages.
func (a *Atlas) PageCount() int {
	return len(a.pages)
}

// Find returns the page index holding name, or -1.
func (a *Atlas) Find(name string) int {
	for i, p := range a.pages {
		if _, ok := p.Get(name); ok {
			return i
		}
	}
	return -1
}

// LoadAtlas parses TexturePacker JSON data. Supports both the hash format
// (single "frames" object) and the array format ("textures" array with
// per-page frame lists). Frames within a page are ordered by name.
//
// Rotated regions are rejected: frames are drawn straight from the source
// rectangle.
func LoadAtlas(jsonData []byte) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("piste: parse atlas JSON: %w", err)
	}

	atlas := &Atlas{}
	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		table, err := parseHashFrames(probe.Frames)
		if err != nil {
			return nil, err
		}
		atlas.Images = append(atlas.Images, probe.Meta.Image)
		atlas.pages = append(atlas.pages, table)
	default:
		return nil, fmt.Errorf("piste: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage) (*FrameTable, error) {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("piste: parse atlas frames: %w", err)
	}
	return framesToTable(frames)
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("piste: parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		table, err := framesToTable(tex.Frames)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		atlas.Images = append(atlas.Images, tex.Image)
		atlas.pages = append(atlas.pages, table)
	}
	return nil
}

func framesToTable(frames map[string]jsonFrame) (*FrameTable, error) {
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	slices.Sort(names)

	table := NewFrameTable()
	for _, name := range names {
		f := frames[name]
		if f.Rotated {
			return nil, fmt.Errorf("piste: atlas frame %q is rotated", name)
		}
		r := f.Frame
		table.Add(name, Frame{Src: Box{
			Left:   float64(r.X),
			Top:    float64(r.Y),
			Right:  float64(r.X + r.W),
			Bottom: float64(r.Y + r.H),
		}})
	}
	return table, nil
}
