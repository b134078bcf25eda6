// resize.go - Center crop and resample to a target size.
package canvas

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CropToFit center-crops src to the aspect ratio of w x h and scales the
// crop to exactly w x h. Non-positive targets return an unscaled copy.
func CropToFit(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	if w <= 0 || h <= 0 || b.Empty() {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	crop := b
	// Compare b.Dx()/b.Dy() against w/h without floats.
	switch {
	case b.Dx()*h > w*b.Dy():
		cw := b.Dy() * w / h
		x0 := b.Min.X + (b.Dx()-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	case b.Dx()*h < w*b.Dy():
		ch := b.Dx() * h / w
		y0 := b.Min.Y + (b.Dy()-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if crop.Dx() == w && crop.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, crop.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}
