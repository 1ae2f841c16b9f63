// Command extracttest runs the extraction pipeline stages on a capture and
// prints results. It is the headless counterpart to the GUI for tuning
// alignment thresholds and comparing engines.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Jessomadic/sc-trade-companion/internal/align"
	"github.com/Jessomadic/sc-trade-companion/internal/commodity"
	"github.com/Jessomadic/sc-trade-companion/internal/imageproc"
	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
	"github.com/Jessomadic/sc-trade-companion/internal/template"
)

func main() {
	capturePath := flag.String("c", "", "Path to kiosk capture")
	templatePath := flag.String("t", "", "Path to reference template")
	outPath := flag.String("o", "", "Write the aligned capture to this path")
	doSimilarity := flag.Bool("similarity", false, "Print the capture/template similarity score")
	doAlign := flag.Bool("align", false, "Run alignment and report the outcome")
	doExtract := flag.Bool("extract", false, "Run the full extraction pipeline")
	threshold := flag.Float64("threshold", align.DefaultMinSimilarity, "Minimum similarity for a valid alignment (0 disables)")
	debug := flag.Bool("debug", false, "Per-stage diagnostics")
	flag.Parse()

	if *capturePath == "" {
		fmt.Println("Usage: extracttest -c <capture> [-t <template>] [-similarity|-align|-extract]")
		os.Exit(1)
	}

	capture := loadImage(*capturePath)

	var tmpl image.Image
	if *templatePath != "" {
		var err error
		tmpl, err = template.Load(*templatePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load template: %v\n", err)
			os.Exit(1)
		}
	}

	if *doSimilarity {
		requireTemplate(tmpl)
		score := align.Similarity(capture, tmpl)
		fmt.Printf("Similarity: %.4f (threshold %.4f)\n", score, *threshold)
		return
	}

	if *doAlign {
		requireTemplate(tmpl)
		fmt.Printf("=== Aligning %s against %s ===\n", *capturePath, *templatePath)
		aligned, err := align.AlignToReference(capture, tmpl, *threshold)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Alignment failed: %v\n", err)
			os.Exit(1)
		}
		if aligned == capture {
			fmt.Println("Alignment rejected, keeping the original capture.")
		} else {
			fmt.Printf("Aligned to %dx%d.\n", aligned.Bounds().Dx(), aligned.Bounds().Dy())
		}
		if *outPath != "" {
			saveImage(*outPath, aligned)
			fmt.Printf("Wrote %s\n", *outPath)
		}
		return
	}

	if *doExtract {
		// One client per pipeline; SelectBest runs them concurrently and a
		// gosseract client is not safe to share.
		tessRaw, err := ocr.NewTesseract()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Tesseract unavailable: %v\n", err)
			os.Exit(1)
		}
		defer tessRaw.Close()
		tessBin, err := ocr.NewTesseract()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Tesseract unavailable: %v\n", err)
			os.Exit(1)
		}
		defer tessBin.Close()

		var preprocess []imageproc.Manipulation
		if tmpl != nil {
			preprocess = append(preprocess,
				imageproc.NewAlignToTemplateWithThreshold(tmpl, *threshold))
		}
		configs := []commodity.Config{
			{
				Name:       "tesseract-raw",
				Preprocess: preprocess,
				Recognizer: tessRaw,
				Debug:      *debug,
			},
			{
				Name: "tesseract-binarized",
				Preprocess: append(append([]imageproc.Manipulation{}, preprocess...),
					imageproc.Grayscale(),
					imageproc.CLAHE(2.0, 8),
					imageproc.OtsuThreshold(),
					imageproc.NormalizePolarity(),
				),
				Recognizer: tessBin,
				Debug:      *debug,
			},
		}

		submission, err := commodity.SelectBest(capture, configs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== Pipeline %q, %d listings ===\n", submission.Pipeline, len(submission.Listings))
		for i, listing := range submission.Listings {
			fmt.Printf("%3d:", i+1)
			for _, word := range listing.Words {
				fmt.Printf(" %s", word.Text)
			}
			fmt.Println()
		}
		return
	}

	fmt.Println("Nothing to do. Pass -similarity, -align or -extract.")
}

func loadImage(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode %s: %v\n", path, err)
		os.Exit(1)
	}
	return img
}

func saveImage(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

func requireTemplate(tmpl image.Image) {
	if tmpl == nil {
		fmt.Fprintln(os.Stderr, "A template is required, pass -t <template>")
		os.Exit(1)
	}
}
