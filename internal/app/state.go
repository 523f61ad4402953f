// Package app provides application state, events, theme, and lifecycle
// helpers.
package app

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"mesh-regions/internal/editor"
	"mesh-regions/internal/mesh"
	"mesh-regions/internal/region"
	"mesh-regions/internal/settings"
)

// EventType identifies different application events.
type EventType int

const (
	EventConfigLoaded EventType = iota
	EventConfigSaved
	EventRegionsChanged
	EventSelectionChanged
	EventViewChanged
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the loaded config, the region editor,
// and the visualisation settings driving the canvas.
type State struct {
	mu sync.RWMutex

	// Config file
	ConfigPath string

	// Editor owns the mesh, the regions and undo history.
	Editor *editor.Editor

	// Bed mesh settings text fields, kept as raw strings so the config
	// writer can round-trip whatever the user typed.
	MeshMin    string
	MeshMax    string
	ProbeCount string

	// Visualisation
	OverlayEnabled bool
	ShowGridDots   bool
	PlotAreaX      float64
	PlotAreaY      float64
	VMin, VMax     float64
	HasLimits      bool

	// Data Z range of the last loaded mesh, for the color scale reset.
	DataZMin, DataZMax float64

	listeners map[EventType][]EventListener
}

// DefaultPlotArea is the assumed printable area when no config is loaded.
const (
	DefaultPlotAreaX = 220.0
	DefaultPlotAreaY = 220.0
)

// NewState creates a new application state around the given editor.
func NewState(ed *editor.Editor) *State {
	s := &State{
		Editor:    ed,
		PlotAreaX: DefaultPlotAreaX,
		PlotAreaY: DefaultPlotAreaY,
		listeners: make(map[EventType][]EventListener),
	}
	ed.OnRegionsChanged(func() { s.Emit(EventRegionsChanged, nil) })
	ed.OnSelectionChanged(func(idx int) { s.Emit(EventSelectionChanged, idx) })
	ed.OnStatus(func(msg string) { s.Emit(EventStatus, msg) })
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadConfig reads a printer config file, parses the latest mesh and the
// bed mesh settings, and replaces the current editor state. On any parse
// error the previous state is left untouched.
func (s *State) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	content := string(data)

	grid, err := mesh.ParseLatestMesh(content)
	if err != nil {
		return fmt.Errorf("parse mesh from %s: %w", path, err)
	}
	cfg := settings.Parse(content)

	s.mu.Lock()
	s.ConfigPath = path
	s.MeshMin = cfg.MeshMin
	s.MeshMax = cfg.MeshMax
	s.ProbeCount = cfg.ProbeCount
	s.DataZMin, s.DataZMax = grid.ZRange()
	s.HasLimits = false
	s.mu.Unlock()

	s.Editor.Load(grid, cfg.Regions)

	s.Emit(EventConfigLoaded, path)
	s.Emit(EventStatus, fmt.Sprintf("Loaded %s", path))
	return nil
}

// SaveConfig rewrites the [bed_mesh] section of the config file at path
// with the current settings fields and regions, preserving all other
// content byte for byte.
func (s *State) SaveConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	s.mu.RLock()
	cfg := settings.Settings{
		MeshMin:    s.MeshMin,
		MeshMax:    s.MeshMax,
		ProbeCount: s.ProbeCount,
	}
	s.mu.RUnlock()

	updated, err := settings.Update(string(data), cfg, s.Editor.Regions())
	if err != nil {
		return fmt.Errorf("update bed mesh settings: %w", err)
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	s.Emit(EventConfigSaved, path)
	s.Emit(EventStatus, fmt.Sprintf("Saved %s", path))
	return nil
}

// ViewSnapshot is a consistent copy of the fields a frame render reads.
// The debounced setters write them from a timer goroutine, so the canvas
// must not read the struct fields directly.
type ViewSnapshot struct {
	MeshMin        string
	MeshMax        string
	ProbeCount     string
	OverlayEnabled bool
	ShowGridDots   bool
	PlotAreaX      float64
	PlotAreaY      float64
	VMin, VMax     float64
	HasLimits      bool
}

// View returns a snapshot of the visualisation settings taken under the
// state lock.
func (s *State) View() ViewSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ViewSnapshot{
		MeshMin:        s.MeshMin,
		MeshMax:        s.MeshMax,
		ProbeCount:     s.ProbeCount,
		OverlayEnabled: s.OverlayEnabled,
		ShowGridDots:   s.ShowGridDots,
		PlotAreaX:      s.PlotAreaX,
		PlotAreaY:      s.PlotAreaY,
		VMin:           s.VMin,
		VMax:           s.VMax,
		HasLimits:      s.HasLimits,
	}
}

// SetDataZRange records the Z range of the rendered data. Called from the
// renderer's range hook.
func (s *State) SetDataZRange(zmin, zmax float64) {
	s.mu.Lock()
	s.DataZMin = zmin
	s.DataZMax = zmax
	s.mu.Unlock()
}

// DataZRange returns the Z range of the last rendered data.
func (s *State) DataZRange() (zmin, zmax float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.DataZMin, s.DataZMax
}

// RegionsText returns the current regions formatted as config lines for
// display and clipboard export.
func (s *State) RegionsText() string {
	return strings.Join(region.FormatAll(s.Editor.Regions()), "\n")
}

// SetMeshSettings updates the bed mesh settings text fields.
func (s *State) SetMeshSettings(meshMin, meshMax, probeCount string) {
	s.mu.Lock()
	s.MeshMin = meshMin
	s.MeshMax = meshMax
	s.ProbeCount = probeCount
	s.mu.Unlock()
}

// SetPlotArea changes the displayed bed area and notifies the canvas.
func (s *State) SetPlotArea(x, y float64) {
	s.mu.Lock()
	s.PlotAreaX = x
	s.PlotAreaY = y
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// SetColorLimits overrides the heatmap color scale. Inverted limits are
// stored but ignored by the renderer until corrected.
func (s *State) SetColorLimits(vmin, vmax float64) {
	s.mu.Lock()
	s.VMin = vmin
	s.VMax = vmax
	s.HasLimits = true
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// ResetColorLimits returns the color scale to the data's own Z range.
func (s *State) ResetColorLimits() {
	s.mu.Lock()
	s.HasLimits = false
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// SetOverlayEnabled toggles the probe point overlay.
func (s *State) SetOverlayEnabled(on bool) {
	s.mu.Lock()
	s.OverlayEnabled = on
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// SetShowGridDots toggles the mesh coordinate markers.
func (s *State) SetShowGridDots(on bool) {
	s.mu.Lock()
	s.ShowGridDots = on
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}
