// Package app provides application lifecycle management and configuration.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Jessomadic/sc-trade-companion/internal/align"
	"github.com/Jessomadic/sc-trade-companion/internal/commodity"
	"github.com/Jessomadic/sc-trade-companion/internal/imageproc"
	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
	"github.com/Jessomadic/sc-trade-companion/internal/ocr/oneocr"
	"github.com/Jessomadic/sc-trade-companion/internal/output"
	"github.com/Jessomadic/sc-trade-companion/internal/template"
	"github.com/Jessomadic/sc-trade-companion/ui/prefs"
)

// Settings holds the user-tunable extraction configuration.
type Settings struct {
	// TemplatePath locates the reference kiosk template; empty disables
	// alignment pipelines.
	TemplatePath string
	// CaptureDir is where captures and debug rasters are written.
	CaptureDir string
	// SaveImages enables the disk writer. The native OCR pipelines require
	// it; with it off only in-memory engines run.
	SaveImages bool
	// MinSimilarity gates alignment results; 0 disables validation.
	MinSimilarity float64
	// OneOCRInstallDir locates the native library and model.
	OneOCRInstallDir string
	Debug            bool
}

// SettingsFromPrefs builds Settings from stored preferences with sensible
// defaults.
func SettingsFromPrefs(p *prefs.Prefs) Settings {
	return Settings{
		TemplatePath:     p.String(prefs.KeyTemplatePath, ""),
		CaptureDir:       p.String(prefs.KeyCaptureDir, defaultCaptureDir()),
		SaveImages:       p.Bool(prefs.KeySaveImages, true),
		MinSimilarity:    p.Float(prefs.KeyMinSimilarity, align.DefaultMinSimilarity),
		OneOCRInstallDir: p.String(prefs.KeyOneOCRDir, ""),
		Debug:            p.Bool(prefs.KeyDebug, false),
	}
}

func defaultCaptureDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "sc-trade-companion", "captures")
}

// State holds the extraction engines and pipeline configs for the lifetime
// of the application.
type State struct {
	mu       sync.RWMutex
	settings Settings

	template image.Image
	writer   *output.DiskImageWriter
	engines  []ocr.Recognizer
	configs  []commodity.Config

	lastSubmission *commodity.Submission
}

// NewState builds an uninitialized State; call Init before Extract.
func NewState(settings Settings) *State {
	return &State{settings: settings}
}

// Init loads the template and constructs every available pipeline. Engines
// that cannot run on this platform are skipped with a log line rather than
// failing startup; Init fails only when no pipeline at all could be built.
func (s *State) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writer, err := output.NewDiskImageWriter(s.settings.CaptureDir, s.settings.SaveImages)
	if err != nil {
		return err
	}
	s.writer = writer

	if s.settings.TemplatePath != "" {
		tmpl, err := template.Load(s.settings.TemplatePath)
		if err != nil {
			return fmt.Errorf("load template: %w", err)
		}
		s.template = tmpl
	}

	s.configs = s.buildConfigs()
	if len(s.configs) == 0 {
		return errors.New("no extraction pipeline could be constructed")
	}
	return nil
}

// buildConfigs assembles the pipeline fan-out. Callers hold s.mu.
func (s *State) buildConfigs() []commodity.Config {
	var configs []commodity.Config

	var alignStep imageproc.Manipulation
	if s.template != nil {
		alignStep = imageproc.NewAlignToTemplateWithThreshold(s.template, s.settings.MinSimilarity)
	}

	bridge, err := oneocr.New(oneocr.Options{
		InstallDir: s.settings.OneOCRInstallDir,
		Writer:     s.writer,
	})
	switch {
	case errors.Is(err, oneocr.ErrUnsupported):
		log.Println("native OCR engine unavailable on this platform, skipping")
	case err != nil:
		log.Printf("native OCR engine failed to initialize: %v", err)
	default:
		s.engines = append(s.engines, bridge)
		if alignStep != nil {
			configs = append(configs, commodity.Config{
				Name:       "oneocr-aligned",
				Preprocess: []imageproc.Manipulation{alignStep},
				Recognizer: bridge,
				Debug:      s.settings.Debug,
			})
		}
		configs = append(configs, commodity.Config{
			Name:       "oneocr-raw",
			Recognizer: bridge,
			Debug:      s.settings.Debug,
		})
	}

	tess, err := ocr.NewTesseract()
	if err != nil {
		log.Printf("tesseract engine failed to initialize: %v", err)
	} else {
		s.engines = append(s.engines, tess)
		preprocess := []imageproc.Manipulation{
			imageproc.Grayscale(),
			imageproc.CLAHE(2.0, 8),
			imageproc.OtsuThreshold(),
			imageproc.NormalizePolarity(),
		}
		if alignStep != nil {
			preprocess = append([]imageproc.Manipulation{alignStep}, preprocess...)
		}
		configs = append(configs, commodity.Config{
			Name:       "tesseract",
			Preprocess: preprocess,
			Recognizer: tess,
			Debug:      s.settings.Debug,
		})
	}

	return configs
}

// Extract runs every pipeline against a capture and keeps the best
// submission.
func (s *State) Extract(capture image.Image) (commodity.Submission, error) {
	s.mu.RLock()
	configs := s.configs
	s.mu.RUnlock()

	submission, err := commodity.SelectBest(capture, configs)
	if err != nil {
		return commodity.Submission{}, err
	}

	s.mu.Lock()
	s.lastSubmission = &submission
	s.mu.Unlock()
	return submission, nil
}

// LastSubmission returns the most recent successful extraction.
func (s *State) LastSubmission() (commodity.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSubmission == nil {
		return commodity.Submission{}, false
	}
	return *s.lastSubmission, true
}

// Settings returns a copy of the active settings.
func (s *State) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Close releases every OCR engine. The state is unusable afterwards.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, engine := range s.engines {
		if err := engine.Close(); err != nil {
			log.Printf("close engine: %v", err)
		}
	}
	s.engines = nil
	s.configs = nil
}
