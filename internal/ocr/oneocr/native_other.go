//go:build !windows

package oneocr

// loadNativeAPI fails on platforms without the native engine. The bridge can
// still be exercised against a substitute API in tests.
func loadNativeAPI(installDir string) (nativeAPI, error) {
	return nil, ErrUnsupported
}
