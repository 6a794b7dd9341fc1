// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imaging

import (
	"image"
	"image/color"
	"testing"
)

// checkerboard builds a small RGBA image with alternating dark and light pixels.
func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
			}
		}
	}
	return img
}

func TestGrayscale(t *testing.T) {
	src := checkerboard(8, 6)
	gray := Grayscale(src)

	if gray.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: got %v, want %v", gray.Bounds(), src.Bounds())
	}

	// Equal RGB channels convert to the same value.
	if got := gray.GrayAt(0, 0).Y; got != 40 {
		t.Errorf("dark pixel: got %d, want 40", got)
	}
	if got := gray.GrayAt(1, 0).Y; got != 220 {
		t.Errorf("light pixel: got %d, want 220", got)
	}
}

func TestEnhanceContrast_Identity(t *testing.T) {
	gray := Grayscale(checkerboard(8, 8))
	out := EnhanceContrast(gray, 1.0)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.GrayAt(x, y).Y != gray.GrayAt(x, y).Y {
				t.Fatalf("factor 1.0 changed pixel (%d,%d): %d -> %d",
					x, y, gray.GrayAt(x, y).Y, out.GrayAt(x, y).Y)
			}
		}
	}
}

func TestEnhanceContrast_IncreasesSpread(t *testing.T) {
	gray := Grayscale(checkerboard(8, 8))
	out := EnhanceContrast(gray, 1.25)

	// Dark pixels get darker, light pixels get lighter.
	if got := out.GrayAt(0, 0).Y; got >= gray.GrayAt(0, 0).Y {
		t.Errorf("dark pixel not darkened: %d -> %d", gray.GrayAt(0, 0).Y, got)
	}
	if got := out.GrayAt(1, 0).Y; got <= gray.GrayAt(1, 0).Y {
		t.Errorf("light pixel not lightened: %d -> %d", gray.GrayAt(1, 0).Y, got)
	}
}

func TestEnhanceContrast_Clamps(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 0})
	gray.SetGray(1, 0, color.Gray{Y: 255})

	out := EnhanceContrast(gray, 3.0)
	if got := out.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("black pixel: got %d, want 0", got)
	}
	if got := out.GrayAt(1, 0).Y; got != 255 {
		t.Errorf("white pixel: got %d, want 255", got)
	}
}
