package geometry

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// createTestImage creates an image whose pixels encode their own
// coordinates, so crops can be checked pixel by pixel.
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 7, 255})
		}
	}
	return img
}

func TestResizeToShorterSide(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		size  int
		wantW int
		wantH int
	}{
		{"landscape downscale", 400, 300, 200, 267, 200},
		{"portrait downscale", 300, 400, 200, 200, 267},
		{"square", 300, 300, 150, 150, 150},
		{"already target", 250, 200, 200, 250, 200},
		{"upscale", 100, 50, 80, 160, 80},
		{"odd rounding", 640, 480, 100, 133, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(tt.w, tt.h)
			resized, err := ResizeToShorterSide(img, tt.size, imaging.NearestNeighbor)
			if err != nil {
				t.Fatalf("ResizeToShorterSide failed: %v", err)
			}

			gotW, gotH := resized.Bounds().Dx(), resized.Bounds().Dy()
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, gotW, gotH)
			}

			shorter := gotW
			if gotH < shorter {
				shorter = gotH
			}
			if shorter != tt.size {
				t.Errorf("Expected shorter side %d, got %d", tt.size, shorter)
			}

			// Aspect ratio preserved within one pixel of rounding
			exact := float64(tt.w) / float64(tt.h) * float64(gotH)
			if diff := exact - float64(gotW); diff > 1 || diff < -1 {
				t.Errorf("Aspect ratio drifted by %.2f pixels", diff)
			}
		})
	}
}

func TestResizeToShorterSideInvalidSize(t *testing.T) {
	img := createTestImage(100, 100)
	for _, size := range []int{0, -5} {
		if _, err := ResizeToShorterSide(img, size, imaging.Lanczos); err == nil {
			t.Errorf("Expected error for target size %d", size)
		}
	}
}

func TestResizeToShorterSideZeroArea(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := ResizeToShorterSide(img, 100, imaging.Lanczos); err == nil {
		t.Error("Expected error for zero-area image")
	}
}

func TestMaxOffset(t *testing.T) {
	if got := MaxOffset(createTestImage(267, 200), 200); got != 67 {
		t.Errorf("Expected max offset 67, got %d", got)
	}
	if got := MaxOffset(createTestImage(200, 200), 200); got != 0 {
		t.Errorf("Expected max offset 0, got %d", got)
	}
	if got := MaxOffset(createTestImage(200, 331), 200); got != 131 {
		t.Errorf("Expected max offset 131, got %d", got)
	}
}

func TestSquareCropDimensions(t *testing.T) {
	for _, offset := range []int{0, 33, 67} {
		img := createTestImage(267, 200)
		cropped := SquareCrop(img, offset, 200)
		if cropped.Bounds().Dx() != 200 || cropped.Bounds().Dy() != 200 {
			t.Errorf("offset %d: expected 200x200, got %dx%d",
				offset, cropped.Bounds().Dx(), cropped.Bounds().Dy())
		}
	}
}

func TestSquareCropWindow(t *testing.T) {
	// Landscape: the window slides along x
	img := createTestImage(150, 100)
	cropped := SquareCrop(img, 30, 100)
	got := cropped.NRGBAAt(0, 0)
	if got.R != 30 || got.G != 0 {
		t.Errorf("Expected pixel from source (30, 0), got encoded (%d, %d)", got.R, got.G)
	}

	// Portrait: the window slides along y
	img = createTestImage(100, 150)
	cropped = SquareCrop(img, 25, 100)
	got = cropped.NRGBAAt(0, 0)
	if got.R != 0 || got.G != 25 {
		t.Errorf("Expected pixel from source (0, 25), got encoded (%d, %d)", got.R, got.G)
	}
}

// Cropping an image and its mask with the same offset must yield the
// same window, so a pixel at (x, y) in one maps to (x, y) in the other.
func TestSharedOffsetAlignment(t *testing.T) {
	img := createTestImage(400, 300)
	mask := createTestImage(400, 300)

	resizedImg, err := ResizeToShorterSide(img, 120, imaging.NearestNeighbor)
	if err != nil {
		t.Fatalf("resize image: %v", err)
	}
	resizedMask, err := ResizeToShorterSide(mask, 120, imaging.NearestNeighbor)
	if err != nil {
		t.Fatalf("resize mask: %v", err)
	}

	offset := 17
	croppedImg := SquareCrop(resizedImg, offset, 120)
	croppedMask := SquareCrop(resizedMask, offset, 120)

	if croppedImg.Bounds() != croppedMask.Bounds() {
		t.Fatalf("Crops disagree on bounds: %v vs %v", croppedImg.Bounds(), croppedMask.Bounds())
	}
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			if croppedImg.NRGBAAt(x, y) != croppedMask.NRGBAAt(x, y) {
				t.Fatalf("Pixel (%d, %d) differs between image and mask crop", x, y)
			}
		}
	}
}

func TestSquareCropOffsetOutOfRange(t *testing.T) {
	img := createTestImage(267, 200)
	for _, offset := range []int{-1, 68, 1000} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for offset %d", offset)
				}
			}()
			SquareCrop(img, offset, 200)
		}()
	}
}

func BenchmarkResizeToShorterSide(b *testing.B) {
	img := createTestImage(1920, 1080)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ResizeToShorterSide(img, 512, imaging.Lanczos)
	}
}

func BenchmarkSquareCrop(b *testing.B) {
	img := createTestImage(910, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SquareCrop(img, 128, 512)
	}
}
