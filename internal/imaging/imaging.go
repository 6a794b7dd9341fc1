// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging derives the grayscale, contrast-enhanced page variant
// from a color page raster.
package imaging

import (
	"image"
	"image/color"
)

// Grayscale converts src to an 8-bit luminance image of the same dimensions.
func Grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return dst
}

// EnhanceContrast returns a copy of src with contrast scaled by factor.
// Each pixel is blended against the image's mean luminance:
//
//	out = mean + factor*(in - mean)
//
// so factor 1.0 is the identity, values above 1 push pixels away from the
// mean, and values below 1 flatten the image toward it. Results are
// clamped to [0, 255].
func EnhanceContrast(src *image.Gray, factor float64) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)

	mean := meanLuminance(src)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			in := float64(src.GrayAt(x, y).Y)
			out := mean + factor*(in-mean)
			dst.SetGray(x, y, color.Gray{Y: clamp8(out)})
		}
	}
	return dst
}

// meanLuminance returns the average pixel value of img, or 0 for an
// empty image.
func meanLuminance(img *image.Gray) float64 {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0
	}
	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += uint64(img.GrayAt(x, y).Y)
		}
	}
	return float64(sum) / float64(n)
}

func clamp8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
