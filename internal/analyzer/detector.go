// Package analyzer finds the content blocks of a tall page image, so a single
// screenshot of a story can serve as the layout.
package analyzer

import "image"

// Block is a horizontal band of the image. Blocks returned by a Detector are
// stacked without gaps and cover the full image height.
type Block struct {
	Top    int
	Bottom int
}

func (b Block) Height() int { return b.Bottom - b.Top }

// Detector is the interface for page segmentation strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// Heights converts blocks to layout heights.
func Heights(blocks []Block) []float64 {
	heights := make([]float64, len(blocks))
	for i, b := range blocks {
		heights[i] = float64(b.Height())
	}
	return heights
}
