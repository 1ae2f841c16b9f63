// Package oneocr drives the native OneOCR recognition engine through a
// narrow foreign-call boundary. All raw handles and memory stay inside this
// package; callers only see located words.
package oneocr

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/Jessomadic/sc-trade-companion/internal/ocr"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	libraryFileName = "oneocr.dll"
	modelFileName   = "oneocr.onemodel"

	// modelKey decrypts the bundled model file. Fixed by the engine.
	modelKey = "kj)TGtrK>f]b[Piow.gU+nC@s\"\"\"\"\"\"4"

	disableModelDelayLoad = 0
	maxRecognitionLines   = 1000

	// fourChannelImage is the descriptor type tag for a 4-channel
	// byte-interleaved pixel buffer.
	fourChannelImage = 3
)

var (
	// ErrUnsupported is returned on platforms without the native engine.
	ErrUnsupported = errors.New("oneocr native engine is only available on windows")

	// ErrDisposed is returned when the bridge has been closed or failed to
	// initialize; a bridge never transitions back to a usable state.
	ErrDisposed = errors.New("oneocr bridge is disposed")
)

// ImageWriter persists a raster to a discoverable path on disk. The native
// engine requires re-reading the capture from disk (with color-profile
// correction disabled) so the pixel values bit-match what the reference
// platform's bitmap loader would produce.
type ImageWriter interface {
	Write(img image.Image, kind string) (string, error)
}

// imageDescriptor mirrors the fixed-layout image struct consumed by the
// native pipeline:
//
//	struct Img { int T; int Col; int Row; int Unk; int64 Step; int64 DataPtr; }
type imageDescriptor struct {
	Kind     int32  // type tag; fourChannelImage for BGRA
	Width    int32  // columns
	Height   int32  // rows
	Reserved int32  // must be zero
	Stride   int64  // row stride in bytes, width * 4
	Pixels   uint64 // raw pointer to the pixel buffer
}

// nativeAPI is the full foreign-call surface the bridge depends on. Every
// status return is the engine's 64-bit code where 0 means success. The
// Windows implementation binds it to oneocr.dll; tests substitute a fake.
type nativeAPI interface {
	CreateInitOptions() (uintptr, int64)
	SetUseModelDelayLoad(opts uintptr, flag byte) int64
	CreatePipeline(modelPath, key string, opts uintptr) (uintptr, int64)
	CreateProcessOptions() (uintptr, int64)
	SetMaxRecognitionLineCount(opts uintptr, count int64) int64
	RunPipeline(pipeline uintptr, desc *imageDescriptor, opts uintptr) (uintptr, int64)
	LineCount(result uintptr) (int64, int64)
	Line(result uintptr, index int64) (uintptr, int64)
	LineWordCount(line uintptr) (int64, int64)
	Word(line uintptr, index int64) (uintptr, int64)
	WordContent(word uintptr) (string, int64)
	WordBoundingBox(word uintptr) (ocr.BoundingQuad, int64)
	ReleaseResult(result uintptr)
	ReleaseProcessOptions(opts uintptr)
	ReleaseInitOptions(opts uintptr)
	ReleasePipeline(pipeline uintptr)
}

type bridgeState int

const (
	stateReady bridgeState = iota
	stateRecognizing
	stateDisposed
)

// Bridge owns one native recognition pipeline for its whole lifetime. One
// recognition call runs at a time; callers needing parallelism must create
// one bridge per worker rather than share an instance.
type Bridge struct {
	mu          sync.Mutex
	api         nativeAPI
	initOptions uintptr
	pipeline    uintptr
	writer      ImageWriter
	state       bridgeState
}

// Options configures bridge construction.
type Options struct {
	// InstallDir holds the native library, its sibling libraries and, unless
	// ModelPath overrides it, the model file.
	InstallDir string
	// ModelPath optionally overrides the model file location.
	ModelPath string
	// Writer persists captures before recognition; required.
	Writer ImageWriter
}

// New loads the native engine and initializes a recognition pipeline.
// Initialization failure is fatal: no usable bridge is returned and the
// instance cannot be revived.
func New(opts Options) (*Bridge, error) {
	if opts.Writer == nil {
		return nil, errors.New("oneocr: image writer is required")
	}

	api, err := loadNativeAPI(opts.InstallDir)
	if err != nil {
		return nil, err
	}

	modelPath := opts.ModelPath
	if modelPath == "" {
		modelPath = filepath.Join(opts.InstallDir, modelFileName)
	}

	return newBridge(api, modelPath, opts.Writer)
}

// newBridge builds the reusable pipeline handle from the init options, model
// path and decryption key.
func newBridge(api nativeAPI, modelPath string, writer ImageWriter) (*Bridge, error) {
	initOptions, status := api.CreateInitOptions()
	if status != 0 {
		return nil, callError("CreateOcrInitOptions", status)
	}

	if status := api.SetUseModelDelayLoad(initOptions, disableModelDelayLoad); status != 0 {
		api.ReleaseInitOptions(initOptions)
		return nil, callError("OcrInitOptionsSetUseModelDelayLoad", status)
	}

	pipeline, status := api.CreatePipeline(modelPath, modelKey, initOptions)
	if status != 0 {
		api.ReleaseInitOptions(initOptions)
		return nil, callError("CreateOcrPipeline", status)
	}

	return &Bridge{
		api:         api,
		initOptions: initOptions,
		pipeline:    pipeline,
		writer:      writer,
		state:       stateReady,
	}, nil
}

// Recognize submits the image to the native pipeline and returns every
// recognized word in line-then-word order, texts lowercased. An image with
// no text yields an empty, non-nil slice. Any non-zero engine status fails
// the whole call; there is no partial result.
func (b *Bridge) Recognize(img image.Image) ([]ocr.LocatedWord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != stateReady {
		return nil, ErrDisposed
	}
	b.state = stateRecognizing
	defer func() {
		if b.state == stateRecognizing {
			b.state = stateReady
		}
	}()

	path, err := b.writer.Write(img, "screenshot")
	if err != nil {
		return nil, fmt.Errorf("oneocr requires the capture on disk before recognition: %w", err)
	}

	reloaded, err := loadPixels(path)
	if err != nil {
		return nil, err
	}

	pixels, width, height := toBGRA(reloaded)
	if len(pixels) == 0 {
		return nil, errors.New("oneocr: empty image")
	}

	desc := imageDescriptor{
		Kind:   fourChannelImage,
		Width:  int32(width),
		Height: int32(height),
		Stride: int64(width) * 4,
		Pixels: uint64(uintptr(unsafe.Pointer(&pixels[0]))),
	}

	procOpts, status := b.api.CreateProcessOptions()
	if status != 0 {
		return nil, callError("CreateOcrProcessOptions", status)
	}
	defer b.api.ReleaseProcessOptions(procOpts)

	if status := b.api.SetMaxRecognitionLineCount(procOpts, maxRecognitionLines); status != 0 {
		return nil, callError("OcrProcessOptionsSetMaxRecognitionLineCount", status)
	}

	result, status := b.api.RunPipeline(b.pipeline, &desc, procOpts)
	// The pixel buffer must stay reachable for the full duration of the
	// native call that reads it.
	runtime.KeepAlive(pixels)
	if status != 0 {
		return nil, callError("RunOcrPipeline", status)
	}
	defer b.api.ReleaseResult(result)

	return b.walkResult(result)
}

// walkResult reads every line, then every word of each line, preserving the
// engine's emission order. Null line and word handles are skipped
// defensively.
func (b *Bridge) walkResult(result uintptr) ([]ocr.LocatedWord, error) {
	lineCount, status := b.api.LineCount(result)
	if status != 0 {
		return nil, callError("GetOcrLineCount", status)
	}

	words := make([]ocr.LocatedWord, 0, lineCount)
	for i := int64(0); i < lineCount; i++ {
		line, status := b.api.Line(result, i)
		if status != 0 {
			return nil, callError("GetOcrLine", status)
		}
		if line == 0 {
			continue
		}

		wordCount, status := b.api.LineWordCount(line)
		if status != 0 {
			return nil, callError("GetOcrLineWordCount", status)
		}

		for j := int64(0); j < wordCount; j++ {
			word, status := b.api.Word(line, j)
			if status != 0 {
				return nil, callError("GetOcrWord", status)
			}
			if word == 0 {
				continue
			}

			text, status := b.api.WordContent(word)
			if status != 0 {
				return nil, callError("GetOcrWordContent", status)
			}

			quad, status := b.api.WordBoundingBox(word)
			if status != 0 {
				return nil, callError("GetOcrWordBoundingBox", status)
			}

			words = append(words, ocr.LocatedWord{
				Text: strings.ToLower(text),
				Rect: quad.ToRect(),
			})
		}
	}

	return words, nil
}

// Close releases the pipeline handle. The bridge is unusable afterwards.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateDisposed {
		return nil
	}
	b.state = stateDisposed

	b.api.ReleasePipeline(b.pipeline)
	b.api.ReleaseInitOptions(b.initOptions)
	b.pipeline = 0
	b.initOptions = 0
	return nil
}

// loadPixels re-reads a written capture from disk. Go's image decoders apply
// no ICC color management, which keeps the raw pixel values identical to the
// reference platform's loader with color-profile correction disabled.
func loadPixels(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// toBGRA flattens img into a byte-interleaved BGRA buffer with a stride of
// width*4, the layout the native engine expects.
func toBGRA(img image.Image) ([]byte, int, int) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	buf := make([]byte, width*height*4)
	origin := rgba.Bounds().Min
	for y := 0; y < height; y++ {
		offset := rgba.PixOffset(origin.X, origin.Y+y)
		src := rgba.Pix[offset : offset+width*4]
		dst := buf[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			dst[x*4+0] = src[x*4+2] // B
			dst[x*4+1] = src[x*4+1] // G
			dst[x*4+2] = src[x*4+0] // R
			dst[x*4+3] = src[x*4+3] // A
		}
	}
	return buf, width, height
}

func callError(name string, status int64) error {
	return fmt.Errorf("native call %q failed with error code %d", name, status)
}
