package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sangkips/cactus-admin-api/internal/document"
)

// ErrFontUnavailable is returned when one of the typeface weights cannot be read.
// There is no fallback font.
var ErrFontUnavailable = errors.New("render: font unavailable")

// FontFamily is the typeface every delivery note is set in.
const FontFamily = "Inter"

// fontWeights fixes the registration order so output is byte-stable.
var fontWeights = []document.FontWeight{document.WeightLight, document.WeightRegular, document.WeightSemiBold}

var fontFiles = map[document.FontWeight]string{
	document.WeightLight:    "Inter-Light.ttf",
	document.WeightRegular:  "Inter-Regular.ttf",
	document.WeightSemiBold: "Inter-SemiBold.ttf",
}

// Fonts loads the three weights of the document typeface from a directory.
// A successful load is cached for the life of the process; a failed load is
// retried on the next call.
type Fonts struct {
	dir string

	mu    sync.Mutex
	faces map[document.FontWeight][]byte
}

// NewFonts returns a loader for the font files in dir.
func NewFonts(dir string) *Fonts {
	return &Fonts{dir: dir}
}

// Load returns the TTF bytes of every weight.
func (f *Fonts) Load() (map[document.FontWeight][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.faces != nil {
		return f.faces, nil
	}

	faces := make(map[document.FontWeight][]byte, len(fontFiles))
	for weight, name := range fontFiles {
		path := filepath.Join(f.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s weight from %s: %v", ErrFontUnavailable, weight, path, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: %s is empty", ErrFontUnavailable, path)
		}
		faces[weight] = data
	}

	f.faces = faces
	return faces, nil
}

// familyFor is the name a weight is registered under in the PDF.
func familyFor(w document.FontWeight) string {
	return FontFamily + "-" + w.String()
}
