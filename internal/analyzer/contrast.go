package analyzer

import (
	"errors"
	"image"
	"image/color"
)

var ErrEmptyImage = errors.New("empty image")

// ContrastDetector splits a page at wide horizontal bands of background.
type ContrastDetector struct {
	ContrastThreshold uint8 // Gray level distance from the background that counts as ink
	MinGap            int   // Blank rows needed to separate two blocks
	MinBlock          int   // Shorter blocks are merged into their neighbour
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		ContrastThreshold: 30,
		MinGap:            24,
		MinBlock:          48,
	}
}

// Detect cuts the page in the middle of every blank band. Leading and trailing
// blank rows belong to the first and last block.
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)
	h := gray.Bounds().Dy()
	if h == 0 || gray.Bounds().Dx() == 0 {
		return nil, ErrEmptyImage
	}

	busy := inkRows(gray, background(gray), d.ContrastThreshold)

	var cuts []int
	run, runStart := 0, 0
	for y, b := range busy {
		if !b {
			if run == 0 {
				runStart = y
			}
			run++
			continue
		}
		if run >= d.MinGap && runStart > 0 {
			cuts = append(cuts, runStart+run/2)
		}
		run = 0
	}

	var blocks []Block
	prev := 0
	for _, c := range cuts {
		if c-prev < d.MinBlock {
			continue
		}
		blocks = append(blocks, Block{Top: prev, Bottom: c})
		prev = c
	}
	if h-prev < d.MinBlock && len(blocks) > 0 {
		blocks[len(blocks)-1].Bottom = h
	} else {
		blocks = append(blocks, Block{Top: prev, Bottom: h})
	}
	return blocks, nil
}

// toGrayscale converts an image to grayscale with its origin at 0,0
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

// background is the most frequent gray level
func background(gray *image.Gray) uint8 {
	var hist [256]int
	for _, p := range gray.Pix {
		hist[p]++
	}
	best := 0
	for v, n := range hist {
		if n > hist[best] {
			best = v
		}
	}
	return uint8(best)
}

// inkRows marks the rows holding at least one pixel that stands out from bg
func inkRows(gray *image.Gray, bg, threshold uint8) []bool {
	bounds := gray.Bounds()
	rows := make([]bool, bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		line := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for _, p := range line {
			if diff(p, bg) > threshold {
				rows[y] = true
				break
			}
		}
	}
	return rows
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
