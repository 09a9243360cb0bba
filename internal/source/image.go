package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/scrolly/internal/analyzer"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// ImageSource treats each image file as one block, in file name order.
type ImageSource struct {
	paths []string
	width float64
}

func NewImageSource(path string, width float64) (*ImageSource, error) {
	dir, err := isDir(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if dir {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && hasExt(entry.Name(), imageExtensions) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths, width: width}, nil
}

func (s *ImageSource) Heights() ([]float64, error) {
	heights := make([]float64, len(s.paths))
	for i, p := range s.paths {
		w, h, err := imageSize(p)
		if err != nil {
			return nil, fmt.Errorf("measure %s: %w", filepath.Base(p), err)
		}
		heights[i] = scaledHeight(w, h, s.width)
	}
	return heights, nil
}

func (s *ImageSource) Close() error {
	return nil
}

func imageSize(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// SegmentedSource splits one tall page image into blocks with a detector.
type SegmentedSource struct {
	path  string
	width float64
	det   analyzer.Detector
}

func NewSegmentedSource(path string, width float64, det analyzer.Detector) *SegmentedSource {
	return &SegmentedSource{path: path, width: width, det: det}
}

func (s *SegmentedSource) Heights() ([]float64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(s.path), err)
	}
	blocks, err := s.det.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", filepath.Base(s.path), err)
	}

	w := float64(img.Bounds().Dx())
	heights := analyzer.Heights(blocks)
	for i, h := range heights {
		heights[i] = scaledHeight(w, h, s.width)
	}
	return heights, nil
}

func (s *SegmentedSource) Close() error {
	return nil
}
