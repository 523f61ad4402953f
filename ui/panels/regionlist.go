package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mesh-regions/internal/app"
	"mesh-regions/internal/region"
)

var rowShadeColor = color.NRGBA{R: 255, G: 255, B: 255, A: 0x14}

// RegionList shows the current regions as config-style lines, two per
// region, with rows shaded per region pair. Tapping any line selects the
// owning region.
type RegionList struct {
	state *app.State
	list  *widget.List

	// Guards against re-entrant selection while syncing from the editor.
	syncing bool
}

// NewRegionList creates the region listing bound to the application state.
func NewRegionList(state *app.State) *RegionList {
	rl := &RegionList{state: state}

	rl.list = widget.NewList(
		func() int {
			return len(state.Editor.Regions()) * region.LinesPerRegion
		},
		func() fyne.CanvasObject {
			shade := fynecanvas.NewRectangle(color.Transparent)
			label := widget.NewLabel("")
			label.TextStyle = fyne.TextStyle{Monospace: true}
			return container.NewStack(shade, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			stack := obj.(*fyne.Container)
			shade := stack.Objects[0].(*fynecanvas.Rectangle)
			label := stack.Objects[1].(*widget.Label)

			regions := state.Editor.Regions()
			idx := id / region.LinesPerRegion
			if idx >= len(regions) {
				label.SetText("")
				return
			}
			line := regionLine(regions[idx], idx+1, id%region.LinesPerRegion)
			label.SetText(line)

			// Alternate shading per region, not per line.
			if idx%2 == 1 {
				shade.FillColor = rowShadeColor
			} else {
				shade.FillColor = color.Transparent
			}
			shade.Refresh()
		},
	)

	rl.list.OnSelected = func(id widget.ListItemID) {
		if rl.syncing {
			return
		}
		state.Editor.SelectRegion(id / region.LinesPerRegion)
	}

	state.On(app.EventRegionsChanged, func(interface{}) { rl.list.Refresh() })
	state.On(app.EventConfigLoaded, func(interface{}) { rl.list.Refresh() })
	state.On(app.EventSelectionChanged, func(data interface{}) {
		idx, _ := data.(int)
		rl.syncing = true
		defer func() { rl.syncing = false }()
		if idx < 0 {
			rl.list.UnselectAll()
			return
		}
		first := idx * region.LinesPerRegion
		rl.list.Select(first)
		rl.list.ScrollTo(first)
	})

	return rl
}

// Container returns the list for embedding in layouts.
func (rl *RegionList) Container() fyne.CanvasObject {
	return rl.list
}

// regionLine formats one display line of a region's config pair.
func regionLine(r region.Region, number, line int) string {
	return r.Format(number)[line]
}
