// Package geometry implements the shared geometric transforms applied
// to an image and its label mask: a proportional resize that fixes the
// shorter side, and a square crop along the longer dimension.
//
// Both halves of a pair must go through the same transforms with the
// same parameters, so that pixel (x, y) in the processed image keeps
// pointing at pixel (x, y) in the processed mask.
package geometry

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ResizeToShorterSide scales img proportionally so that its shorter
// side equals size. The longer side scales by the same ratio, rounded
// to the nearest integer. filter selects the resampling kernel; masks
// must use imaging.NearestNeighbor so no interpolated colors appear.
func ResizeToShorterSide(img image.Image, size int, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("target size must be positive, got %d", size)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot resize zero-area image (%dx%d)", w, h)
	}

	var nw, nh int
	if w <= h {
		nw = size
		nh = int(float64(h)*float64(size)/float64(w) + 0.5)
	} else {
		nh = size
		nw = int(float64(w)*float64(size)/float64(h) + 0.5)
	}
	return imaging.Resize(img, nw, nh, filter), nil
}

// MaxOffset returns the largest valid crop offset for an image whose
// shorter side already equals size, i.e. max(width, height) - size.
func MaxOffset(img image.Image, size int) int {
	b := img.Bounds()
	longer := b.Dx()
	if b.Dy() > longer {
		longer = b.Dy()
	}
	return longer - size
}

// SquareCrop extracts a size x size window starting offset pixels into
// the longer dimension. The shorter dimension is taken in full; it must
// already equal size. An offset outside [0, MaxOffset] is a programming
// error and panics.
func SquareCrop(img image.Image, offset, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if offset < 0 || offset > MaxOffset(img, size) {
		panic(fmt.Sprintf("geometry: crop offset %d out of range [0, %d] for %dx%d image",
			offset, MaxOffset(img, size), w, h))
	}

	var rect image.Rectangle
	if w >= h {
		rect = image.Rect(offset, 0, offset+size, size)
	} else {
		rect = image.Rect(0, offset, size, offset+size)
	}
	return imaging.Crop(img, rect.Add(b.Min))
}
