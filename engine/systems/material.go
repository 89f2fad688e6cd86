package systems

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-xr/engine/xr"
)

/** @brief The material system configuration. */
type MaterialSystemConfig struct {
	// Tint surfaces by semantic label.
	ShowDebugMaterials bool `toml:"show_debug_materials"`

	// Draw unlabelled (or untinted) surfaces as wireframe instead of hiding them.
	ShowWireframe bool `toml:"show_wireframe"`

	// RGBA per label name.
	LabelColours    map[string][4]float32 `toml:"label_colours"`
	WireframeColour [4]float32            `toml:"wireframe_colour"`
}

func DefaultMaterialSystemConfig() MaterialSystemConfig {
	return MaterialSystemConfig{
		ShowDebugMaterials: true,
		ShowWireframe:      true,
		LabelColours: map[string][4]float32{
			string(xr.LabelFloor):   {0.2, 0.8, 0.2, 0.4},
			string(xr.LabelCeiling): {0.6, 0.6, 0.6, 0.3},
			string(xr.LabelWall):    {0.2, 0.4, 0.9, 0.3},
			string(xr.LabelTable):   {0.9, 0.6, 0.1, 0.5},
			string(xr.LabelCouch):   {0.7, 0.2, 0.7, 0.5},
			string(xr.LabelDoor):    {0.5, 0.3, 0.1, 0.5},
			string(xr.LabelWindow):  {0.4, 0.9, 0.9, 0.3},
			string(xr.LabelShelf):   {0.9, 0.9, 0.2, 0.5},
			string(xr.LabelScreen):  {0.1, 0.1, 0.1, 0.6},
		},
		WireframeColour: [4]float32{1, 1, 1, 0.5},
	}
}

type MaterialSystem struct {
	config     MaterialSystemConfig
	registered map[string]*metadata.MaterialReference
	nextID     uint32
	invisible  *metadata.Material
}

func NewMaterialSystem(config MaterialSystemConfig) (*MaterialSystem, error) {
	ms := &MaterialSystem{
		registered: make(map[string]*metadata.MaterialReference),
	}
	ms.invisible = ms.create(metadata.MaterialConfig{
		Name:      metadata.InvisibleMaterialName,
		Invisible: true,
	})
	if err := ms.Reconfigure(config); err != nil {
		return nil, err
	}
	return ms, nil
}

// Reconfigure registers the wireframe and label materials described by
// config. Materials already handed out keep their values until released;
// only later selections see the change. Label materials missing from config
// are dropped once nothing holds them.
func (ms *MaterialSystem) Reconfigure(config MaterialSystemConfig) error {
	for name, c := range config.LabelColours {
		if xr.ParseSemanticLabel(name) == xr.LabelNone {
			err := fmt.Errorf("material system - unknown label %q in label colours: %w", name, core.ErrInvalidConfig)
			core.LogError(err.Error())
			return err
		}
		for _, v := range c {
			if v < 0 || v > 1 {
				err := fmt.Errorf("material system - colour for %q out of [0,1]: %w", name, core.ErrInvalidConfig)
				core.LogError(err.Error())
				return err
			}
		}
	}

	ms.config = config
	ms.upsert(metadata.MaterialConfig{
		Name:          metadata.WireframeMaterialName,
		DiffuseColour: vec4(config.WireframeColour),
		Wireframe:     true,
	})
	for name, c := range config.LabelColours {
		ms.upsert(metadata.MaterialConfig{
			Name:          metadata.DebugMaterialPrefix + name,
			DiffuseColour: vec4(c),
		})
	}
	for name, ref := range ms.registered {
		if ms.stale(name) && ref.ReferenceCount == 0 {
			delete(ms.registered, name)
		}
	}
	return nil
}

// stale reports a label material whose label is no longer configured.
func (ms *MaterialSystem) stale(name string) bool {
	label, ok := strings.CutPrefix(name, metadata.DebugMaterialPrefix)
	if !ok {
		return false
	}
	_, configured := ms.config.LabelColours[label]
	return !configured
}

func vec4(c [4]float32) math.Vec4 {
	return math.NewVec4(c[0], c[1], c[2], c[3])
}

func (ms *MaterialSystem) Shutdown() error {
	ms.registered = make(map[string]*metadata.MaterialReference)
	return nil
}

// SelectForLabel names the material a surface with label should use:
// the label's debug material, then the wireframe fallback, then invisible.
func (ms *MaterialSystem) SelectForLabel(label xr.SemanticLabel) string {
	if ms.config.ShowDebugMaterials && label != xr.LabelNone {
		name := metadata.DebugMaterialPrefix + string(label)
		if _, ok := ms.registered[name]; ok && !ms.stale(name) {
			return name
		}
	}
	if ms.config.ShowWireframe {
		return metadata.WireframeMaterialName
	}
	return metadata.InvisibleMaterialName
}

// Acquire returns the named material and takes a reference on it. Unknown
// names resolve to the invisible default.
func (ms *MaterialSystem) Acquire(name string) *metadata.Material {
	ref, ok := ms.registered[name]
	if !ok {
		core.LogWarn("material '%s' not found, using '%s'", name, metadata.InvisibleMaterialName)
		ref = ms.registered[metadata.InvisibleMaterialName]
	}
	ref.ReferenceCount++
	return ref.Material
}

func (ms *MaterialSystem) Release(name string) {
	ref, ok := ms.registered[name]
	if !ok {
		core.LogWarn("material release: '%s' not registered", name)
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount == 0 && ms.stale(name) {
		delete(ms.registered, name)
	}
}

// GetDefault is the invisible material.
func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.invisible
}

// ReferenceCount reports how many holders the named material has.
func (ms *MaterialSystem) ReferenceCount(name string) uint64 {
	if ref, ok := ms.registered[name]; ok {
		return ref.ReferenceCount
	}
	return 0
}

// Names lists the registered materials, sorted.
func (ms *MaterialSystem) Names() []string {
	out := make([]string, 0, len(ms.registered))
	for n := range ms.registered {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (ms *MaterialSystem) create(config metadata.MaterialConfig) *metadata.Material {
	m := &metadata.Material{
		ID:            ms.nextID,
		Name:          config.Name,
		DiffuseColour: config.DiffuseColour,
		Wireframe:     config.Wireframe,
		Invisible:     config.Invisible,
	}
	ms.nextID++
	ms.registered[config.Name] = &metadata.MaterialReference{Material: m}
	return m
}

func (ms *MaterialSystem) upsert(config metadata.MaterialConfig) {
	ref, ok := ms.registered[config.Name]
	if !ok {
		ms.create(config)
		return
	}
	if ref.ReferenceCount > 0 {
		// in use: swap in a fresh value so current holders are unaffected
		m := *ref.Material
		ref.Material = &m
	}
	ref.Material.DiffuseColour = config.DiffuseColour
	ref.Material.Wireframe = config.Wireframe
	ref.Material.Invisible = config.Invisible
	ref.Material.Generation++
}
