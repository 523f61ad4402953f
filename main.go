// Package main provides the entry point for the bed mesh regions editor.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"mesh-regions/internal/app"
	"mesh-regions/internal/editor"
	"mesh-regions/internal/version"
	"mesh-regions/ui/mainwindow"
	"mesh-regions/ui/prefs"
)

const appTitle = "Bed Mesh Regions"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.github.mesh-regions")
	fyneApp.Settings().SetTheme(&app.MeshEditorTheme{})

	appPrefs := prefs.Load()
	appState := app.NewState(editor.New())

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// A config path on the command line takes precedence over the
	// remembered one.
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := appState.LoadConfig(path); err != nil {
			log.Printf("Failed to load config %s: %v", path, err)
		}
	} else {
		win.RestoreLastConfig()
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures restart detection when the binary is
// recompiled during development.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
