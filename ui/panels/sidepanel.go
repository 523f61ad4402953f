package panels

import (
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mesh-regions/internal/app"
	"mesh-regions/ui/prefs"
)

// SidePanel provides the control panel next to the canvas: file handling,
// bed mesh settings, visualisation settings, and the region listing.
type SidePanel struct {
	state     *app.State
	prefs     *prefs.Prefs
	container fyne.CanvasObject

	fileLabel    *widget.Label
	sectionCheck *widget.Check

	meshMinEntry    *widget.Entry
	meshMaxEntry    *widget.Entry
	probeCountEntry *widget.Entry
	overlayCheck    *widget.Check

	plotXEntry    *widget.Entry
	plotYEntry    *widget.Entry
	vminEntry     *widget.Entry
	vmaxEntry     *widget.Entry
	gridDotsCheck *widget.Check
	snapCheck     *widget.Check

	regionList *RegionList

	debounce *Debouncer

	// Set by the main window.
	onLoadRequest func()
}

// NewSidePanel creates the side panel bound to state and preferences.
func NewSidePanel(state *app.State, p *prefs.Prefs) *SidePanel {
	sp := &SidePanel{
		state:    state,
		prefs:    p,
		debounce: NewDebouncer(debounceDelay),
	}

	sp.fileLabel = widget.NewLabel("No config loaded")
	sp.fileLabel.Wrapping = fyne.TextWrapWord

	loadButton := widget.NewButton("Load config...", func() {
		if sp.onLoadRequest != nil {
			sp.onLoadRequest()
		}
	})

	sp.sectionCheck = widget.NewCheck("[bed_mesh] section is in printer.cfg", func(on bool) {
		p.SetBool(prefs.KeySectionInside, on)
		_ = p.Save()
	})
	sp.sectionCheck.SetChecked(p.Bool(prefs.KeySectionInside, true))

	sp.buildMeshSettings()
	sp.buildVisualisation()
	sp.regionList = NewRegionList(state)

	state.On(app.EventConfigLoaded, func(data interface{}) {
		path, _ := data.(string)
		sp.fileLabel.SetText(filepath.Base(path))
		sp.syncFromState()
	})

	fileBox := widget.NewCard("Config file", "", container.NewVBox(
		sp.fileLabel,
		loadButton,
		sp.sectionCheck,
	))
	meshBox := widget.NewCard("Bed mesh settings", "", container.NewVBox(
		labelled("mesh_min", sp.meshMinEntry),
		labelled("mesh_max", sp.meshMaxEntry),
		labelled("probe_count", sp.probeCountEntry),
		sp.overlayCheck,
	))
	visBox := widget.NewCard("Visualisation", "", container.NewVBox(
		labelled("Bed X", sp.plotXEntry),
		labelled("Bed Y", sp.plotYEntry),
		labelled("Z min", sp.vminEntry),
		labelled("Z max", sp.vmaxEntry),
		widget.NewButton("Reset Z scale to data", func() {
			state.ResetColorLimits()
			zmin, zmax := state.DataZRange()
			sp.vminEntry.SetText(formatFloat(zmin))
			sp.vmaxEntry.SetText(formatFloat(zmax))
		}),
		sp.gridDotsCheck,
		sp.snapCheck,
	))
	regionBox := widget.NewCard("Faulty regions", "", sp.regionList.Container())

	top := container.NewVBox(fileBox, meshBox, visBox)
	sp.container = container.NewBorder(top, nil, nil, nil, regionBox)
	return sp
}

func (sp *SidePanel) buildMeshSettings() {
	apply := func() {
		sp.debounce.Call(func() {
			sp.state.SetMeshSettings(
				sp.meshMinEntry.Text,
				sp.meshMaxEntry.Text,
				sp.probeCountEntry.Text,
			)
			sp.state.Emit(app.EventViewChanged, nil)
		})
	}

	sp.meshMinEntry = widget.NewEntry()
	sp.meshMinEntry.SetPlaceHolder("20, 20")
	sp.meshMinEntry.OnChanged = func(string) { apply() }

	sp.meshMaxEntry = widget.NewEntry()
	sp.meshMaxEntry.SetPlaceHolder("200, 200")
	sp.meshMaxEntry.OnChanged = func(string) { apply() }

	sp.probeCountEntry = widget.NewEntry()
	sp.probeCountEntry.SetPlaceHolder("5, 5")
	sp.probeCountEntry.OnChanged = func(string) { apply() }

	sp.overlayCheck = widget.NewCheck("Show probe points", func(on bool) {
		sp.state.SetOverlayEnabled(on)
		sp.prefs.SetBool(prefs.KeyOverlay, on)
		_ = sp.prefs.Save()
	})
}

func (sp *SidePanel) buildVisualisation() {
	sp.plotXEntry = widget.NewEntry()
	sp.plotYEntry = widget.NewEntry()
	vs := sp.state.View()
	sp.plotXEntry.SetText(formatFloat(vs.PlotAreaX))
	sp.plotYEntry.SetText(formatFloat(vs.PlotAreaY))

	applyPlot := func() {
		sp.debounce.Call(func() {
			x, errX := strconv.ParseFloat(sp.plotXEntry.Text, 64)
			y, errY := strconv.ParseFloat(sp.plotYEntry.Text, 64)
			if errX != nil || errY != nil || x <= 0 || y <= 0 {
				return
			}
			sp.state.SetPlotArea(x, y)
			sp.prefs.SetFloat(prefs.KeyPlotAreaX, x)
			sp.prefs.SetFloat(prefs.KeyPlotAreaY, y)
			_ = sp.prefs.Save()
		})
	}
	sp.plotXEntry.OnChanged = func(string) { applyPlot() }
	sp.plotYEntry.OnChanged = func(string) { applyPlot() }

	sp.vminEntry = widget.NewEntry()
	sp.vmaxEntry = widget.NewEntry()
	applyLimits := func() {
		sp.debounce.Call(func() {
			vmin, errMin := strconv.ParseFloat(sp.vminEntry.Text, 64)
			vmax, errMax := strconv.ParseFloat(sp.vmaxEntry.Text, 64)
			if errMin != nil || errMax != nil {
				return
			}
			sp.state.SetColorLimits(vmin, vmax)
		})
	}
	sp.vminEntry.OnChanged = func(string) { applyLimits() }
	sp.vmaxEntry.OnChanged = func(string) { applyLimits() }

	sp.gridDotsCheck = widget.NewCheck("Show grid points", func(on bool) {
		sp.state.SetShowGridDots(on)
		sp.prefs.SetBool(prefs.KeyShowGridDots, on)
		_ = sp.prefs.Save()
	})
	sp.snapCheck = widget.NewCheck("Snap to grid", func(on bool) {
		sp.state.Editor.SetSnap(on)
		sp.prefs.SetBool(prefs.KeySnap, on)
		_ = sp.prefs.Save()
	})
}

// syncFromState refreshes entry fields after a config load without
// re-triggering their change handlers' side effects.
func (sp *SidePanel) syncFromState() {
	vs := sp.state.View()
	sp.meshMinEntry.SetText(vs.MeshMin)
	sp.meshMaxEntry.SetText(vs.MeshMax)
	sp.probeCountEntry.SetText(vs.ProbeCount)
	zmin, zmax := sp.state.DataZRange()
	sp.vminEntry.SetText(formatFloat(zmin))
	sp.vmaxEntry.SetText(formatFloat(zmax))
}

// OnLoadRequest sets the handler for the load button.
func (sp *SidePanel) OnLoadRequest(f func()) {
	sp.onLoadRequest = f
}

// SectionInPrinterCfg reports whether the [bed_mesh] section lives in the
// main printer.cfg rather than an included file.
func (sp *SidePanel) SectionInPrinterCfg() bool {
	return sp.sectionCheck.Checked
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// RestorePrefs applies persisted visualisation toggles to the state and
// panel widgets.
func (sp *SidePanel) RestorePrefs() {
	if x := sp.prefs.Float(prefs.KeyPlotAreaX, 0); x > 0 {
		if y := sp.prefs.Float(prefs.KeyPlotAreaY, 0); y > 0 {
			sp.state.SetPlotArea(x, y)
			sp.plotXEntry.SetText(formatFloat(x))
			sp.plotYEntry.SetText(formatFloat(y))
		}
	}
	if sp.prefs.Bool(prefs.KeySnap, false) {
		sp.snapCheck.SetChecked(true)
	}
	if sp.prefs.Bool(prefs.KeyShowGridDots, false) {
		sp.gridDotsCheck.SetChecked(true)
	}
	if sp.prefs.Bool(prefs.KeyOverlay, false) {
		sp.overlayCheck.SetChecked(true)
	}
}

func labelled(name string, entry *widget.Entry) fyne.CanvasObject {
	return container.NewBorder(nil, nil, widget.NewLabel(name), nil, entry)
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
