package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	dimaging "github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Preprocessing parameters. These are fixed: Preprocess must be a pure
// function of the input pixels so repeated runs agree exactly.
const (
	// medianWindow is the median denoise neighborhood size.
	medianWindow = 3.0

	// claheClipLimit caps each histogram bin at this multiple of the mean
	// bin count before equalization.
	claheClipLimit = 2.0

	// claheGridSize splits the image into an NxN tile grid for local
	// equalization.
	claheGridSize = 8

	// threshBlockSize is the adaptive threshold neighborhood (odd).
	threshBlockSize = 11

	// threshC is subtracted from the weighted neighborhood mean.
	threshC = 2

	// inkPadding is kept around the detected ink bounding box when
	// trimming.
	inkPadding = 12

	// minRecognitionHeight is the height below which trimmed output is
	// upscaled before recognition.
	minRecognitionHeight = 64

	// rebinarizeLevel restores a two-valued image after resampling.
	rebinarizeLevel = 128
)

// Preprocess normalizes a formula image for recognition.
//
// Stages, in order:
//
//  1. Already-binarized inputs (only pure black and white pixels) are
//     returned unchanged, which makes the transform idempotent.
//  2. Polarity: dark-background images (e.g. dark-mode screenshots) are
//     inverted so ink is always dark on light.
//  3. Grayscale conversion.
//  4. Median denoise.
//  5. CLAHE local contrast enhancement.
//  6. Adaptive Gaussian binarization.
//  7. Trim to the ink bounding box plus padding.
//  8. Upscale very small results for engine accuracy.
//
// The only failure mode is a malformed input (nil or empty bounds).
func Preprocess(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("nil input image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty input image (%dx%d)", b.Dx(), b.Dy())
	}

	if gray, ok := asBinarized(img); ok {
		return gray, nil
	}

	work := img

	// Normalize polarity before any intensity work
	if darkBackground(work) {
		work = effect.Invert(work)
	}

	// Grayscale, then denoise while still in bild's RGBA space (all
	// channels carry the same value, so the per-channel median is the
	// grayscale median)
	work = effect.Grayscale(work)
	work = effect.Median(work, medianWindow)

	gray := toGray(work)

	// Local contrast, then binarize
	gray = clahe(gray, claheClipLimit, claheGridSize)
	bin := adaptiveThreshold(gray, threshBlockSize, threshC)

	// Trim to the formula itself
	bin = TrimToInk(bin, inkPadding)

	// Tiny crops recognize poorly; double their size
	if bin.Bounds().Dy() < minRecognitionHeight {
		up := dimaging.Resize(bin, 0, bin.Bounds().Dy()*2, dimaging.Lanczos)
		bin = segment.Threshold(up, rebinarizeLevel)
	}

	return bin, nil
}

// asBinarized reports whether img contains only pure black and pure white
// pixels, returning its grayscale form when it does.
func asBinarized(img image.Image) (*image.Gray, bool) {
	gray := toGray(img)
	for _, v := range gray.Pix {
		if v != 0 && v != 255 {
			return nil, false
		}
	}
	return gray, true
}

// darkBackground estimates whether the image background is dark by sampling
// border pixels and averaging their CIE Lab lightness. Borders are a good
// background proxy for formula screenshots, where ink sits in the middle.
func darkBackground(img image.Image) bool {
	b := img.Bounds()

	stepX := b.Dx() / 32
	if stepX < 1 {
		stepX = 1
	}
	stepY := b.Dy() / 32
	if stepY < 1 {
		stepY = 1
	}

	var total float64
	var n int
	sample := func(x, y int) {
		c, ok := colorful.MakeColor(img.At(x, y))
		if !ok {
			return
		}
		l, _, _ := c.Lab()
		total += l
		n++
	}

	for x := b.Min.X; x < b.Max.X; x += stepX {
		sample(x, b.Min.Y)
		sample(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		sample(b.Min.X, y)
		sample(b.Max.X-1, y)
	}

	if n == 0 {
		return false
	}
	return total/float64(n) < 0.5
}

// toGray converts an image to 8-bit grayscale using ITU-R BT.601 luma
// weights (0.299*R + 0.587*G + 0.114*B).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			v := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			gray.SetGray(x, y, color.Gray{Y: uint8(v + 0.5)})
		}
	}
	return gray
}

// clahe performs contrast-limited adaptive histogram equalization.
//
// The image is split into a gridSize x gridSize tile grid. Each tile gets
// its own histogram, clipped at clipLimit times the mean bin count with the
// excess redistributed evenly, then turned into an equalization LUT. Output
// pixels bilinearly interpolate between the four surrounding tile LUTs,
// which avoids visible tile seams.
func clahe(src *image.Gray, clipLimit float64, gridSize int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	tileW := (w + gridSize - 1) / gridSize
	tileH := (h + gridSize - 1) / gridSize
	if tileW < 1 {
		tileW = 1
	}
	if tileH < 1 {
		tileH = 1
	}
	nx := (w + tileW - 1) / tileW
	ny := (h + tileH - 1) / tileH

	// Per-tile equalization LUTs from clipped histograms
	luts := make([][]uint8, nx*ny)
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := x0 + tileW
			y1 := y0 + tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}

			var hist [256]int
			count := (x1 - x0) * (y1 - y0)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[src.GrayAt(b.Min.X+x, b.Min.Y+y).Y]++
				}
			}

			// Clip and redistribute excess evenly across all bins
			limit := int(clipLimit * float64(count) / 256.0)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			share := excess / 256
			rem := excess % 256
			for i := range hist {
				hist[i] += share
				if i < rem {
					hist[i]++
				}
			}

			// Cumulative histogram -> LUT
			lut := make([]uint8, 256)
			cum := 0
			for i := range hist {
				cum += hist[i]
				v := (cum*255 + count/2) / count
				if v > 255 {
					v = 255
				}
				lut[i] = uint8(v)
			}
			luts[ty*nx+tx] = lut
		}
	}

	// Bilinear interpolation between neighboring tile mappings
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			fy := (float64(y)+0.5)/float64(tileH) - 0.5
			tx0 := int(math.Floor(fx))
			ty0 := int(math.Floor(fy))
			wx := fx - float64(tx0)
			wy := fy - float64(ty0)
			tx1 := clamp(tx0+1, 0, nx-1)
			ty1 := clamp(ty0+1, 0, ny-1)
			tx0 = clamp(tx0, 0, nx-1)
			ty0 = clamp(ty0, 0, ny-1)

			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			v00 := float64(luts[ty0*nx+tx0][v])
			v01 := float64(luts[ty0*nx+tx1][v])
			v10 := float64(luts[ty1*nx+tx0][v])
			v11 := float64(luts[ty1*nx+tx1][v])

			top := v00*(1-wx) + v01*wx
			bottom := v10*(1-wx) + v11*wx
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: uint8(top*(1-wy) + bottom*wy + 0.5)})
		}
	}

	return out
}

// adaptiveThreshold binarizes using a Gaussian-weighted neighborhood mean.
//
// For each pixel the threshold is the Gaussian mean of its blockSize x
// blockSize neighborhood minus c, clamped to at least 1 so pure-black
// regions cannot flip to white. Pixels above the threshold become white
// (255), everything else black (0). The Gaussian mean is computed in two
// separable passes with clamped borders.
func adaptiveThreshold(src *image.Gray, blockSize, c int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	kernel := gaussianKernel1D(blockSize)
	r := blockSize / 2

	// Horizontal pass
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -r; k <= r; k++ {
				px := clamp(x+k, 0, w-1)
				sum += float64(src.GrayAt(b.Min.X+px, b.Min.Y+y).Y) * kernel[k+r]
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass and threshold
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mean float64
			for k := -r; k <= r; k++ {
				py := clamp(y+k, 0, h-1)
				mean += tmp[py*w+x] * kernel[k+r]
			}
			thresh := mean - float64(c)
			if thresh < 1 {
				thresh = 1
			}
			if float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > thresh {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 255})
			} else {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 0})
			}
		}
	}

	return out
}

// gaussianKernel1D builds a normalized 1-D Gaussian kernel of the given odd
// size. Sigma follows the usual size-derived heuristic
// 0.3*((size-1)*0.5 - 1) + 0.8.
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*((float64(size)-1)*0.5-1) + 0.8
	kernel := make([]float64, size)
	r := size / 2

	var sum float64
	for i := 0; i < size; i++ {
		d := float64(i - r)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
