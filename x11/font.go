package x11

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/freetype-go/freetype/truetype"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

// ErrNoFont is returned by LoadFont when none of the paths holds a
// usable TrueType font.
var ErrNoFont = errors.New("no usable font")

// Font is a TrueType face at a fixed size.
type Font struct {
	face    *truetype.Font
	size    float64
	ascent  int
	descent int
}

// LoadFont returns the first font in paths that can be read and parsed,
// together with the path it came from.
func LoadFont(paths []string, size float64) (*Font, string, error) {
	var errs []error
	for _, path := range paths {
		f, err := loadFont(path, size)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return f, path, nil
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoFont, errors.Join(errs...))
}

func loadFont(path string, size float64) (*Font, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	face, err := xgraphics.ParseFont(r)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %w", path, err)
	}
	return newFont(face, size), nil
}

func newFont(face *truetype.Font, size float64) *Font {
	_, h := xgraphics.Extents(face, size, "Mg")
	return &Font{
		face:    face,
		size:    size,
		ascent:  h,
		descent: max(1, h/4),
	}
}

func (f *Font) TextWidth(s string) int {
	if s == "" {
		return 0
	}
	w, _ := xgraphics.Extents(f.face, f.size, s)
	return w
}

func (f *Font) Ascent() int  { return f.ascent }
func (f *Font) Descent() int { return f.descent }
