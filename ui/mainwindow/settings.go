package mainwindow

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Jessomadic/sc-trade-companion/ui/prefs"
)

// showSettings edits the extraction preferences. Changes are persisted
// immediately and picked up on the next start, since engines and pipelines
// are constructed once at startup.
func (mw *MainWindow) showSettings() {
	settings := mw.state.Settings()

	captureDir := widget.NewEntry()
	captureDir.SetText(settings.CaptureDir)
	templatePath := widget.NewEntry()
	templatePath.SetText(settings.TemplatePath)
	threshold := widget.NewEntry()
	threshold.SetText(strconv.FormatFloat(settings.MinSimilarity, 'f', -1, 64))
	saveImages := widget.NewCheck("", nil)
	saveImages.SetChecked(settings.SaveImages)

	items := []*widget.FormItem{
		widget.NewFormItem("Capture directory", captureDir),
		widget.NewFormItem("Template path", templatePath),
		widget.NewFormItem("Alignment threshold", threshold),
		widget.NewFormItem("Save captures to disk", saveImages),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := applySettings(mw.prefs, captureDir.Text, templatePath.Text, threshold.Text, saveImages.Checked); err != nil {
			dialog.ShowError(err, mw.win)
			return
		}
		if err := mw.prefs.Save(); err != nil {
			dialog.ShowError(fmt.Errorf("save preferences: %w", err), mw.win)
			return
		}
		mw.status.SetText("Settings saved. They apply on the next start.")
	}, mw.win)
}

// applySettings validates and stores the settings form values.
func applySettings(p *prefs.Prefs, captureDir, templatePath, threshold string, saveImages bool) error {
	minSimilarity, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return fmt.Errorf("alignment threshold %q is not a number", threshold)
	}
	if minSimilarity < 0 {
		return fmt.Errorf("alignment threshold must not be negative")
	}

	p.SetString(prefs.KeyCaptureDir, captureDir)
	p.SetString(prefs.KeyTemplatePath, templatePath)
	p.SetFloat(prefs.KeyMinSimilarity, minSimilarity)
	p.SetBool(prefs.KeySaveImages, saveImages)
	return nil
}
