package app

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mesh-regions/internal/editor"
	"mesh-regions/pkg/geometry"
)

const testConfig = `[printer]
kinematics: corexy

[bed_mesh]
mesh_min: 20, 20
mesh_max: 200, 200
probe_count: 5, 5
faulty_region_1_min: 100.0, 100.0
faulty_region_1_max: 120.0, 120.0
horizontal_move_z: 5

#*# <---------------------- SAVE_CONFIG ---------------------->
#*# [bed_mesh default]
#*# version = 1
#*# points =
#*# 	  0.010, 0.020, 0.030
#*# 	  -0.010, 0.000, 0.010
#*# 	  0.050, 0.040, 0.060
#*# x_count = 3
#*# y_count = 3
#*# min_x = 20.0
#*# max_x = 200.0
#*# min_y = 20.0
#*# max_y = 200.0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "printer.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	s := NewState(editor.New())
	path := writeConfig(t, testConfig)

	var loaded, regionsChanged bool
	s.On(EventConfigLoaded, func(interface{}) { loaded = true })
	s.On(EventRegionsChanged, func(interface{}) { regionsChanged = true })

	if err := s.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if !loaded || !regionsChanged {
		t.Error("Expected load and regions events to fire")
	}
	if s.MeshMin != "20, 20" || s.ProbeCount != "5, 5" {
		t.Errorf("Unexpected settings fields: %q %q", s.MeshMin, s.ProbeCount)
	}
	if got := len(s.Editor.Regions()); got != 1 {
		t.Fatalf("Expected 1 region, got %d", got)
	}
	if s.Editor.Grid() == nil || s.Editor.Grid().XCount() != 3 {
		t.Error("Expected a 3-wide grid to be loaded")
	}
	if s.DataZMin != -0.010 || s.DataZMax != 0.060 {
		t.Errorf("Unexpected data Z range: %v..%v", s.DataZMin, s.DataZMax)
	}
}

func TestLoadConfigKeepsStateOnError(t *testing.T) {
	s := NewState(editor.New())
	good := writeConfig(t, testConfig)
	if err := s.LoadConfig(good); err != nil {
		t.Fatal(err)
	}

	bad := writeConfig(t, "[printer]\nkinematics: corexy\n")
	if err := s.LoadConfig(bad); err == nil {
		t.Fatal("Expected error for config without a mesh block")
	}

	if s.ConfigPath != good {
		t.Errorf("Expected config path unchanged, got %q", s.ConfigPath)
	}
	if len(s.Editor.Regions()) != 1 || s.Editor.Grid() == nil {
		t.Error("Expected previous document to survive a failed load")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	s := NewState(editor.New())
	path := writeConfig(t, testConfig)
	if err := s.LoadConfig(path); err != nil {
		t.Fatal(err)
	}

	// Draw one more region and change a settings field.
	s.Editor.PointerDown(geometry.Point2D{X: 40, Y: 40})
	s.Editor.PointerMove(geometry.Point2D{X: 60, Y: 70})
	s.Editor.PointerUp()
	s.SetMeshSettings("25, 25", "195, 195", "7, 7")

	if err := s.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "probe_count: 7, 7") {
		t.Error("Expected updated probe_count in saved config")
	}
	if !strings.Contains(content, "faulty_region_2_max: 60.000, 70.000") {
		t.Error("Expected drawn region in saved config")
	}
	if !strings.Contains(content, "#*# [bed_mesh default]") {
		t.Error("Expected mesh block to be preserved")
	}

	// Reload from the saved file.
	s2 := NewState(editor.New())
	if err := s2.LoadConfig(path); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if len(s2.Editor.Regions()) != 2 {
		t.Errorf("Expected 2 regions after reload, got %d", len(s2.Editor.Regions()))
	}
	if s2.MeshMax != "195, 195" {
		t.Errorf("Expected updated mesh_max after reload, got %q", s2.MeshMax)
	}
}

func TestViewSnapshot(t *testing.T) {
	s := NewState(editor.New())
	s.SetMeshSettings("20, 20", "200, 200", "5, 5")
	s.SetColorLimits(-0.05, 0.05)
	s.SetOverlayEnabled(true)
	s.SetDataZRange(-0.01, 0.06)

	vs := s.View()
	if vs.MeshMin != "20, 20" || vs.ProbeCount != "5, 5" {
		t.Errorf("Unexpected settings in snapshot: %q %q", vs.MeshMin, vs.ProbeCount)
	}
	if !vs.HasLimits || vs.VMin != -0.05 || vs.VMax != 0.05 {
		t.Errorf("Unexpected limits in snapshot: %+v", vs)
	}
	if !vs.OverlayEnabled {
		t.Error("Expected overlay flag in snapshot")
	}
	zmin, zmax := s.DataZRange()
	if zmin != -0.01 || zmax != 0.06 {
		t.Errorf("Unexpected data Z range: %v..%v", zmin, zmax)
	}
}

// The debounced entry handlers write settings from a timer goroutine while
// the canvas takes snapshots; both sides must go through the lock.
func TestViewSnapshotConcurrent(t *testing.T) {
	s := NewState(editor.New())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetMeshSettings("20, 20", "200, 200", "5, 5")
			s.SetColorLimits(float64(i), float64(i+1))
			s.SetDataZRange(0, float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			vs := s.View()
			// Each write keeps VMax exactly one above VMin; a torn
			// snapshot would mix values from different writes.
			if vs.HasLimits && vs.VMax != vs.VMin+1 {
				t.Error("Snapshot mixed limit fields from different writes")
				return
			}
			s.DataZRange()
		}
	}()
	wg.Wait()
}

func TestRegionsText(t *testing.T) {
	s := NewState(editor.New())
	path := writeConfig(t, testConfig)
	if err := s.LoadConfig(path); err != nil {
		t.Fatal(err)
	}

	text := s.RegionsText()
	want := "faulty_region_1_min: 100.000, 100.000\nfaulty_region_1_max: 120.000, 120.000"
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}
