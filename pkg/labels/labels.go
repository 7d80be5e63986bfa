// Package labels reduces a cropped label mask to a fixed-length binary
// class-presence vector.
package labels

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/segprep/pkg/types"
)

// Reduce scans mask and returns one bit per entry of colors: 1 if at
// least one pixel matches that class color exactly, 0 otherwise. The
// comparison is exact channel equality on R, G and B; alpha is ignored.
// An all-background mask yields an all-zero vector, which is valid.
func Reduce(mask image.Image, colors []types.Color) []int {
	vector := make([]int, len(colors))
	if len(colors) == 0 {
		return vector
	}

	nrgba := imaging.Clone(mask)
	remaining := len(colors)
	for i := 0; i < len(nrgba.Pix) && remaining > 0; i += 4 {
		r, g, b := nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2]
		for ci, c := range colors {
			if vector[ci] == 0 && c[0] == r && c[1] == g && c[2] == b {
				vector[ci] = 1
				remaining--
			}
		}
	}
	return vector
}
