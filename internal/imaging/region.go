package imaging

import "image"

// InkBounds returns the bounding box of dark (ink) pixels in a binarized
// image. The second return value is false when the image contains no dark
// pixels at all.
func InkBounds(bin *image.Gray) (image.Rectangle, bool) {
	b := bin.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if bin.GrayAt(x, y).Y >= 128 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// TrimToInk crops a binarized image to its ink bounding box plus padding on
// every side, clamped to the image bounds. Blank images (no ink) are
// returned unchanged. The result always has zero-origin bounds.
func TrimToInk(bin *image.Gray, padding int) *image.Gray {
	ink, ok := InkBounds(bin)
	if !ok {
		return bin
	}

	b := bin.Bounds()
	r := image.Rect(
		ink.Min.X-padding,
		ink.Min.Y-padding,
		ink.Max.X+padding,
		ink.Max.Y+padding,
	).Intersect(b)
	if r == b {
		return bin
	}

	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.SetGray(x, y, bin.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}
