// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package favicons

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// resize scales src to a size×size square.
func resize(src image.Image, size int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// pad draws src centred on an opaque white size×size square, leaving offset
// percent of the edge length free on every side.
func pad(src image.Image, size, offset int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	margin := size * offset / 100
	inner := image.Rect(margin, margin, size-margin, size-margin)
	draw.CatmullRom.Scale(dst, inner, src, src.Bounds(), draw.Over, nil)
	return dst
}
