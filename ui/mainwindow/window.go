// Package mainwindow implements the application shell: capture selection,
// extraction and submission review.
package mainwindow

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	_ "golang.org/x/image/bmp"

	"github.com/Jessomadic/sc-trade-companion/internal/app"
	"github.com/Jessomadic/sc-trade-companion/internal/commodity"
	"github.com/Jessomadic/sc-trade-companion/ui/prefs"
)

// MainWindow is the top-level window.
type MainWindow struct {
	win   fyne.Window
	state *app.State
	prefs *prefs.Prefs

	status   *widget.Label
	listings *widget.Label
}

// New builds the main window. Show it with Window().Show() or ShowAndRun
// on the owning fyne app.
func New(a fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	mw := &MainWindow{
		win:      a.NewWindow("SC Trade Companion"),
		state:    state,
		prefs:    p,
		status:   widget.NewLabel("Open a kiosk capture to begin."),
		listings: widget.NewLabel(""),
	}
	mw.listings.TextStyle = fyne.TextStyle{Monospace: true}

	openButton := widget.NewButton("Open Capture", mw.openCapture)
	settingsButton := widget.NewButton("Settings", mw.showSettings)

	content := container.NewBorder(
		container.NewVBox(container.NewHBox(openButton, settingsButton), mw.status),
		nil, nil, nil,
		container.NewScroll(mw.listings),
	)
	mw.win.SetContent(content)
	mw.win.Resize(fyne.NewSize(640, 480))
	return mw
}

// Window exposes the underlying fyne window.
func (mw *MainWindow) Window() fyne.Window { return mw.win }

func (mw *MainWindow) openCapture() {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.win)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		capture, _, err := image.Decode(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("decode capture: %w", err), mw.win)
			return
		}

		mw.status.SetText("Extracting...")
		go mw.extract(capture)
	}, mw.win)
}

// extract runs off the UI goroutine; results are pushed back via widget
// setters, which fyne serializes internally.
func (mw *MainWindow) extract(capture image.Image) {
	submission, err := mw.state.Extract(capture)
	if err != nil {
		log.Printf("extraction failed: %v", err)
		mw.status.SetText(fmt.Sprintf("Extraction failed: %v", err))
		mw.listings.SetText("")
		return
	}

	mw.status.SetText(fmt.Sprintf("Pipeline %q found %d listings.",
		submission.Pipeline, len(submission.Listings)))
	mw.listings.SetText(formatSubmission(submission))
}

func formatSubmission(s commodity.Submission) string {
	var b strings.Builder
	for i, listing := range s.Listings {
		fmt.Fprintf(&b, "%3d  ", i+1)
		for j, word := range listing.Words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
