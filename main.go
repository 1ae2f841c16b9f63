// Package main provides the entry point for the SC Trade Companion
// application.
package main

import (
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/Jessomadic/sc-trade-companion/internal/app"
	"github.com/Jessomadic/sc-trade-companion/internal/version"
	"github.com/Jessomadic/sc-trade-companion/ui/mainwindow"
	"github.com/Jessomadic/sc-trade-companion/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting SC Trade Companion %s", version.String())

	appPrefs := prefs.Load()
	state := app.NewState(app.SettingsFromPrefs(appPrefs))
	if err := state.Init(); err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer state.Close()

	a := fyneapp.NewWithID("com.jessomadic.sc-trade-companion")
	a.Settings().SetTheme(&app.CompanionTheme{})

	win := mainwindow.New(a, state, appPrefs)
	setupHotReload(appPrefs)

	win.Window().ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

// setupHotReload restarts into a fresh build when the binary on disk is
// replaced, saving preferences first.
func setupHotReload(appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected, restarting")
		if err := appPrefs.Save(); err != nil {
			log.Printf("Hot reload: save preferences: %v", err)
		}
		if err := reloader.Restart(); err != nil {
			log.Printf("Hot reload: restart failed: %v", err)
		}
	})
	reloader.Start()
}
