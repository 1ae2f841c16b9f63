//go:build windows

package oneocr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/Jessomadic/sc-trade-companion/internal/ocr"

	"golang.org/x/sys/windows"
)

// windowsAPI binds nativeAPI to oneocr.dll through lazy procedure lookups.
type windowsAPI struct {
	dll *windows.LazyDLL

	createInitOptions          *windows.LazyProc
	setUseModelDelayLoad       *windows.LazyProc
	createPipeline             *windows.LazyProc
	createProcessOptions       *windows.LazyProc
	setMaxRecognitionLineCount *windows.LazyProc
	runPipeline                *windows.LazyProc
	getLineCount               *windows.LazyProc
	getLine                    *windows.LazyProc
	getLineWordCount           *windows.LazyProc
	getWord                    *windows.LazyProc
	getWordContent             *windows.LazyProc
	getWordBoundingBox         *windows.LazyProc
	releaseResult              *windows.LazyProc
	releaseProcessOptions      *windows.LazyProc
	releaseInitOptions         *windows.LazyProc
	releasePipeline            *windows.LazyProc
}

// loadNativeAPI loads oneocr.dll from installDir. The DLL search path is
// extended so the library can resolve its sibling DLLs (onnxruntime,
// opencv_world, ...) and restored unconditionally afterward.
func loadNativeAPI(installDir string) (nativeAPI, error) {
	if err := windows.SetDllDirectory(installDir); err != nil {
		return nil, fmt.Errorf("extend dll search path: %w", err)
	}
	defer windows.SetDllDirectory("")

	dll := windows.NewLazyDLL(filepath.Join(installDir, libraryFileName))
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", libraryFileName, err)
	}

	return &windowsAPI{
		dll:                        dll,
		createInitOptions:          dll.NewProc("CreateOcrInitOptions"),
		setUseModelDelayLoad:       dll.NewProc("OcrInitOptionsSetUseModelDelayLoad"),
		createPipeline:             dll.NewProc("CreateOcrPipeline"),
		createProcessOptions:       dll.NewProc("CreateOcrProcessOptions"),
		setMaxRecognitionLineCount: dll.NewProc("OcrProcessOptionsSetMaxRecognitionLineCount"),
		runPipeline:                dll.NewProc("RunOcrPipeline"),
		getLineCount:               dll.NewProc("GetOcrLineCount"),
		getLine:                    dll.NewProc("GetOcrLine"),
		getLineWordCount:           dll.NewProc("GetOcrLineWordCount"),
		getWord:                    dll.NewProc("GetOcrWord"),
		getWordContent:             dll.NewProc("GetOcrWordContent"),
		getWordBoundingBox:         dll.NewProc("GetOcrWordBoundingBox"),
		releaseResult:              dll.NewProc("ReleaseOcrResult"),
		releaseProcessOptions:      dll.NewProc("ReleaseOcrProcessOptions"),
		releaseInitOptions:         dll.NewProc("ReleaseOcrInitOptions"),
		releasePipeline:            dll.NewProc("ReleaseOcrPipeline"),
	}, nil
}

func (a *windowsAPI) CreateInitOptions() (uintptr, int64) {
	var opts uintptr
	r, _, _ := a.createInitOptions.Call(uintptr(unsafe.Pointer(&opts)))
	return opts, int64(r)
}

func (a *windowsAPI) SetUseModelDelayLoad(opts uintptr, flag byte) int64 {
	r, _, _ := a.setUseModelDelayLoad.Call(opts, uintptr(flag))
	return int64(r)
}

func (a *windowsAPI) CreatePipeline(modelPath, key string, opts uintptr) (uintptr, int64) {
	// ASCII strings with explicit null terminators; the buffers must stay
	// alive for the duration of the call.
	model := append([]byte(modelPath), 0)
	keyBytes := append([]byte(key), 0)

	var pipeline uintptr
	r, _, _ := a.createPipeline.Call(
		uintptr(unsafe.Pointer(&model[0])),
		uintptr(unsafe.Pointer(&keyBytes[0])),
		opts,
		uintptr(unsafe.Pointer(&pipeline)))
	runtime.KeepAlive(model)
	runtime.KeepAlive(keyBytes)
	return pipeline, int64(r)
}

func (a *windowsAPI) CreateProcessOptions() (uintptr, int64) {
	var opts uintptr
	r, _, _ := a.createProcessOptions.Call(uintptr(unsafe.Pointer(&opts)))
	return opts, int64(r)
}

func (a *windowsAPI) SetMaxRecognitionLineCount(opts uintptr, count int64) int64 {
	r, _, _ := a.setMaxRecognitionLineCount.Call(opts, uintptr(count))
	return int64(r)
}

func (a *windowsAPI) RunPipeline(pipeline uintptr, desc *imageDescriptor, opts uintptr) (uintptr, int64) {
	var result uintptr
	r, _, _ := a.runPipeline.Call(
		pipeline,
		uintptr(unsafe.Pointer(desc)),
		opts,
		uintptr(unsafe.Pointer(&result)))
	runtime.KeepAlive(desc)
	return result, int64(r)
}

func (a *windowsAPI) LineCount(result uintptr) (int64, int64) {
	var count int64
	r, _, _ := a.getLineCount.Call(result, uintptr(unsafe.Pointer(&count)))
	return count, int64(r)
}

func (a *windowsAPI) Line(result uintptr, index int64) (uintptr, int64) {
	var line uintptr
	r, _, _ := a.getLine.Call(result, uintptr(index), uintptr(unsafe.Pointer(&line)))
	return line, int64(r)
}

func (a *windowsAPI) LineWordCount(line uintptr) (int64, int64) {
	var count int64
	r, _, _ := a.getLineWordCount.Call(line, uintptr(unsafe.Pointer(&count)))
	return count, int64(r)
}

func (a *windowsAPI) Word(line uintptr, index int64) (uintptr, int64) {
	var word uintptr
	r, _, _ := a.getWord.Call(line, uintptr(index), uintptr(unsafe.Pointer(&word)))
	return word, int64(r)
}

func (a *windowsAPI) WordContent(word uintptr) (string, int64) {
	var text *byte
	r, _, _ := a.getWordContent.Call(word, uintptr(unsafe.Pointer(&text)))
	if r != 0 || text == nil {
		return "", int64(r)
	}
	return windows.BytePtrToString(text), 0
}

func (a *windowsAPI) WordBoundingBox(word uintptr) (ocr.BoundingQuad, int64) {
	var box *ocr.BoundingQuad
	r, _, _ := a.getWordBoundingBox.Call(word, uintptr(unsafe.Pointer(&box)))
	if r != 0 || box == nil {
		return ocr.BoundingQuad{}, int64(r)
	}
	return *box, 0
}

// The release entry points are absent from some engine builds; releasing is
// best-effort when the symbol cannot be found.

func (a *windowsAPI) ReleaseResult(result uintptr) {
	if result != 0 && a.releaseResult.Find() == nil {
		a.releaseResult.Call(result)
	}
}

func (a *windowsAPI) ReleaseProcessOptions(opts uintptr) {
	if opts != 0 && a.releaseProcessOptions.Find() == nil {
		a.releaseProcessOptions.Call(opts)
	}
}

func (a *windowsAPI) ReleaseInitOptions(opts uintptr) {
	if opts != 0 && a.releaseInitOptions.Find() == nil {
		a.releaseInitOptions.Call(opts)
	}
}

func (a *windowsAPI) ReleasePipeline(pipeline uintptr) {
	if pipeline != 0 && a.releasePipeline.Find() == nil {
		a.releasePipeline.Call(pipeline)
	}
}
