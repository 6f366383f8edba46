package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/wispgrid/chunkstream/internal/component"
)

// LoaderPreset describes a chunk loader spawned at startup.
type LoaderPreset struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Velocity [3]float32 `yaml:"velocity"` // world units per second
	Full     [2]float32 `yaml:"full"`
	Mostly   [2]float32 `yaml:"mostly"`
	Minimum  [2]float32 `yaml:"minimum"`
}

func (p *LoaderPreset) Loader() component.ChunkLoader {
	return component.ChunkLoader{
		Full:    mgl32.Vec2(p.Full),
		Mostly:  mgl32.Vec2(p.Mostly),
		Minimum: mgl32.Vec2(p.Minimum),
	}
}

func (p *LoaderPreset) Transform() component.Transform {
	return component.Transform{Translation: mgl32.Vec3(p.Position)}
}

func (p *LoaderPreset) Motion() component.Velocity {
	return component.Velocity{Linear: mgl32.Vec3(p.Velocity)}
}

// LoaderPresetTable holds the named loader presets.
type LoaderPresetTable struct {
	presets map[string]*LoaderPreset
}

// LoadLoaderPresets loads loaders.yaml.
func LoadLoaderPresets(path string) (*LoaderPresetTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read loader presets: %w", err)
	}
	var file struct {
		Loaders []LoaderPreset `yaml:"loaders"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse loader presets: %w", err)
	}
	t := &LoaderPresetTable{
		presets: make(map[string]*LoaderPreset, len(file.Loaders)),
	}
	for i := range file.Loaders {
		p := &file.Loaders[i]
		if p.Name == "" {
			return nil, fmt.Errorf("loader preset %d: missing name", i)
		}
		if _, dup := t.presets[p.Name]; dup {
			return nil, fmt.Errorf("loader preset %q: duplicate name", p.Name)
		}
		t.presets[p.Name] = p
	}
	return t, nil
}

// Get returns the preset with the given name, or nil if none.
func (t *LoaderPresetTable) Get(name string) *LoaderPreset {
	return t.presets[name]
}

// Select returns the named presets in the given order. An empty list selects
// every preset.
func (t *LoaderPresetTable) Select(names []string) ([]*LoaderPreset, error) {
	if len(names) == 0 {
		return t.All(), nil
	}
	out := make([]*LoaderPreset, 0, len(names))
	for _, n := range names {
		p := t.Get(n)
		if p == nil {
			return nil, fmt.Errorf("loader preset %q not found", n)
		}
		out = append(out, p)
	}
	return out, nil
}

// All returns every preset sorted by name.
func (t *LoaderPresetTable) All() []*LoaderPreset {
	out := make([]*LoaderPreset, 0, len(t.presets))
	for _, p := range t.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the total number of presets loaded.
func (t *LoaderPresetTable) Count() int {
	return len(t.presets)
}
