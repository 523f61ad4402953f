// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/png"
	"log"
	"path/filepath"

	"mesh-regions/internal/app"
	"mesh-regions/internal/version"
	"mesh-regions/ui/canvas"
	"mesh-regions/ui/panels"
	"mesh-regions/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.MeshCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Bed Mesh Regions")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewMeshCanvas(mw.state)
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.prefs)
	mw.sidePanel.OnLoadRequest(mw.onLoadConfig)
	mw.statusBar = widget.NewLabel("Ready")

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 750))

	mw.sidePanel.RestorePrefs()
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Load Config...", mw.onLoadConfig),
		fyne.NewMenuItem("Save Config", mw.onSaveConfig),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Region", mw.onDeleteRegion),
		fyne.NewMenuItem("Clear All Regions", mw.onClearRegions),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Copy Regions to Clipboard", mw.onCopyRegions),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupShortcuts wires keyboard shortcuts for editing operations.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.onUndo() })

	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyY,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.onRedo() })

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDeleteRegion()
		case fyne.KeyEscape:
			mw.state.Editor.Deselect()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventConfigLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Bed Mesh Regions - " + filepath.Base(path))
		}
	})
	mw.state.On(app.EventStatus, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.statusBar.SetText(msg)
			log.Println(msg)
		}
	})
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	_ = mw.prefs.Save()
}

// Menu action handlers

func (mw *MainWindow) onLoadConfig() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadConfig(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyConfigPath, path)
		_ = mw.prefs.Save()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".cfg", ".conf", ".txt"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveConfig() {
	path := mw.state.ConfigPath
	if path == "" {
		mw.statusBar.SetText("No config loaded")
		return
	}
	dialog.ShowConfirm("Save config",
		fmt.Sprintf("Rewrite the [bed_mesh] section of %s?", filepath.Base(path)),
		func(ok bool) {
			if !ok {
				return
			}
			if err := mw.state.SaveConfig(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

func (mw *MainWindow) onExportPNG() {
	frame := mw.canvas.LastFrame()
	if frame == nil {
		mw.statusBar.SetText("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.saveLastDir(writer.URI().Path())
		if err := png.Encode(writer, frame); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText("Exported " + writer.URI().Path())
	}, mw.Window)
	fd.SetFileName("bed-mesh.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.state.Editor.Undo()
}

func (mw *MainWindow) onRedo() {
	mw.state.Editor.Redo()
}

func (mw *MainWindow) onDeleteRegion() {
	idx := mw.state.Editor.SelectedIndex()
	if idx < 0 {
		mw.statusBar.SetText("No region selected")
		return
	}
	mw.state.Editor.DeleteRegion(idx)
}

func (mw *MainWindow) onClearRegions() {
	if len(mw.state.Editor.Regions()) == 0 {
		return
	}
	dialog.ShowConfirm("Clear regions", "Remove all faulty regions?", func(ok bool) {
		if ok {
			mw.state.Editor.ClearAll()
		}
	}, mw.Window)
}

func (mw *MainWindow) onCopyRegions() {
	text := mw.state.RegionsText()
	if text == "" {
		mw.statusBar.SetText("No regions to copy")
		return
	}
	mw.Clipboard().SetContent(text)
	dialog.ShowInformation("Regions copied",
		"The faulty_region settings are on the clipboard.\nPaste them into your [bed_mesh] section.",
		mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Bed Mesh Regions",
		fmt.Sprintf("Bed Mesh Regions v%s\n\n"+
			"An editor for Klipper bed mesh faulty regions.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// RestoreLastConfig reloads the previously used config file, if any.
func (mw *MainWindow) RestoreLastConfig() {
	path := mw.prefs.String(prefs.KeyConfigPath)
	if path == "" {
		return
	}
	if err := mw.state.LoadConfig(path); err != nil {
		mw.statusBar.SetText(fmt.Sprintf("Could not reload %s: %v", filepath.Base(path), err))
	}
}
