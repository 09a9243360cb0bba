// Package source measures block heights for the scroll geometry.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields the ordered heights of the content blocks.
type Source interface {
	Heights() ([]float64, error)
	Close() error
}

// Open picks a Source for path: PDF documents by page, anything else as images.
// Heights are scaled to a layout of the given width; width <= 0 keeps native sizes.
func Open(path string, width float64) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path, width)
	}
	return NewImageSource(path, width)
}

// Static is a fixed list of heights.
type Static []float64

func (s Static) Heights() ([]float64, error) {
	out := make([]float64, len(s))
	copy(out, s)
	return out, nil
}

func (s Static) Close() error { return nil }

// FitzPDFSource treats each page as one block.
type FitzPDFSource struct {
	doc   *fitz.Document
	path  string
	width float64
}

func NewFitzPDFSource(path string, width float64) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path, width: width}, nil
}

func (f *FitzPDFSource) Heights() ([]float64, error) {
	heights := make([]float64, f.doc.NumPage())
	for i := range heights {
		rect, err := f.doc.Bound(i)
		if err != nil {
			return nil, err
		}
		heights[i] = scaledHeight(float64(rect.Dx()), float64(rect.Dy()), f.width)
	}
	return heights, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func scaledHeight(w, h, width float64) float64 {
	if width <= 0 || w <= 0 {
		return h
	}
	return h * width / w
}

func isDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
