package sheet

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Opener decodes a file body into a row Source.
type Opener func(r io.Reader) (Source, error)

var (
	openers   = make(map[string]Opener)
	openersMu sync.RWMutex
)

// Register adds an opener for a file extension such as ".xlsx".
// Panics if the extension is already registered.
func Register(ext string, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()

	ext = normalizeExt(ext)
	if _, exists := openers[ext]; exists {
		panic(fmt.Sprintf("sheet format already registered: %s", ext))
	}
	openers[ext] = open
}

// Lookup returns the opener for fileName's extension.
func Lookup(fileName string) (Opener, error) {
	openersMu.RLock()
	defer openersMu.RUnlock()

	ext := normalizeExt(filepath.Ext(fileName))
	open, ok := openers[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q: expected one of %s", ErrUnsupportedType, ext, strings.Join(extensionsLocked(), ", "))
	}
	return open, nil
}

// Extensions returns the registered extensions, sorted.
func Extensions() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	return extensionsLocked()
}

func extensionsLocked() []string {
	exts := make([]string, 0, len(openers))
	for ext := range openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func init() {
	Register(".csv", openCSV)
	Register(".xlsx", openXLSX)
	Register(".xls", openXLS)
}
