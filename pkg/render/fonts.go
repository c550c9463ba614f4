package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FontSource produces a font face of a given size
type FontSource interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// ErrFontNotFound is returned by a FileFont that cannot locate its file
var ErrFontNotFound = errors.New("font not found")

// FontDirs are searched, recursively, for font files given by bare name
var FontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

// FileFont loads a TrueType/OpenType font from disk
type FileFont struct {
	Path string
	Dirs []string
}

// Name implements FontSource.
func (f FileFont) Name() string { return f.Path }

// Face implements FontSource.
func (f FileFont) Face(size float64) (font.Face, error) {
	parsed, err := f.Parse()
	if err != nil {
		return nil, err
	}
	return newFace(parsed, size)
}

// Parse locates, reads and parses the font file
func (f FileFont) Parse() (*opentype.Font, error) {
	path, err := f.locate()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}

	return parseFont(data)
}

// locate resolves the font path as given first and then by base name
// inside the search directories
func (f FileFont) locate() (string, error) {
	if _, err := os.Stat(f.Path); err == nil {
		return f.Path, nil
	}

	base := filepath.Base(f.Path)
	dirs := f.Dirs
	if dirs == nil {
		dirs = FontDirs
	}

	var errs []error
	for _, dir := range dirs {
		var found string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable or missing entries are skipped, the root included
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), base) {
				found = path
				return fs.SkipAll
			}
			return nil
		})

		if found != "" {
			return found, nil
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("search %s: %w", dir, err))
		}
	}

	return "", errors.Join(append([]error{fmt.Errorf("%w: %s", ErrFontNotFound, f.Path)}, errs...)...)
}

// EmbeddedFont is a font compiled into the binary
type EmbeddedFont struct {
	Label string
	Data  []byte
}

// Name implements FontSource.
func (f EmbeddedFont) Name() string { return f.Label }

// Face implements FontSource.
func (f EmbeddedFont) Face(size float64) (font.Face, error) {
	parsed, err := f.Parse()
	if err != nil {
		return nil, err
	}
	return newFace(parsed, size)
}

// Parse parses the embedded data
func (f EmbeddedFont) Parse() (*opentype.Font, error) {
	return parseFont(f.Data)
}

// ParsedFont is a font already loaded in memory; faces of any size are
// built from it without touching the disk again
type ParsedFont struct {
	Label string
	Font  *opentype.Font
}

// Name implements FontSource.
func (f ParsedFont) Name() string { return f.Label }

// Face implements FontSource.
func (f ParsedFont) Face(size float64) (font.Face, error) {
	return newFace(f.Font, size)
}

type fontParser interface {
	Parse() (*opentype.Font, error)
}

// Preload parses every source able to parse itself once and drops the ones
// that fail. Other sources are kept as they are.
func Preload(sources []FontSource) []FontSource {
	loaded := make([]FontSource, 0, len(sources))
	for _, source := range sources {
		parser, ok := source.(fontParser)
		if !ok {
			loaded = append(loaded, source)
			continue
		}

		parsed, err := parser.Parse()
		if err != nil {
			continue
		}
		loaded = append(loaded, ParsedFont{Label: source.Name(), Font: parsed})
	}
	return loaded
}

// GoBold is the Go Bold TrueType font shipped with golang.org/x/image
var GoBold = EmbeddedFont{Label: "gobold", Data: gobold.TTF}

// FileFonts wraps paths as font sources, keeping their order
func FileFonts(paths ...string) []FontSource {
	sources := make([]FontSource, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, FileFont{Path: path})
	}
	return sources
}

// DefaultFonts is the preference list used when none is configured:
// the given files, then the embedded Go Bold font.
func DefaultFonts(paths ...string) []FontSource {
	return append(FileFonts(paths...), GoBold)
}

// LoadFace returns a face from the first source that loads. When every
// source fails it falls back to basicfont, so it never fails.
func LoadFace(sources []FontSource, size float64) (font.Face, string) {
	for _, source := range sources {
		face, err := source.Face(size)
		if err == nil {
			return face, source.Name()
		}
	}
	return basicfont.Face7x13, "basicfont"
}

func parseFont(data []byte) (*opentype.Font, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return parsed, nil
}

func newFace(parsed *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
