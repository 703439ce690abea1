package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	dimaging "github.com/disintegration/imaging"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrNoImage indicates that an acquisition source (typically the
	// clipboard) held no image content.
	ErrNoImage = errors.New("no image available")

	// ErrUnsupportedFormat indicates that supplied bytes could not be
	// decoded as any supported raster format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrClipboardUnavailable indicates that system clipboard support is
	// not compiled into this binary or no clipboard service is reachable.
	ErrClipboardUnavailable = errors.New("system clipboard unavailable")
)

// SupportedExtensions lists the raster file extensions offered in file
// pickers. Decoding itself sniffs content, so this list is advisory.
var SupportedExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".heic",
}

// heicBrands are the ftyp major brands that identify HEIC/HEIF containers.
var heicBrands = []string{"heic", "heix", "hevc", "hevx", "heim", "heis", "hevm", "hevs", "mif1", "msf1"}

// DecodeBytes decodes raw image bytes into a bitmap.
//
// Returns the decoded image and the detected format name ("png", "jpeg",
// "gif", "bmp", "tiff", "webp", or "heic"). Empty input fails with
// ErrNoImage; undecodable input fails with ErrUnsupportedFormat.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrNoImage
	}

	// HEIC is not a registered image.Decode format; sniff its container
	// brand explicitly.
	if isHEIC(data) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("%w: heic: %v", ErrUnsupportedFormat, err)
		}
		return img, "heic", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// Decode reads and decodes an image from r.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	return DecodeBytes(data)
}

// LoadFile reads and decodes the image file at path.
//
// A missing file keeps fs.ErrNotExist in the returned error chain so
// callers can distinguish "file not found" from decode failures.
func LoadFile(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image file: %w", err)
	}

	img, format, err := DecodeBytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

// isHEIC reports whether data starts with an ISO BMFF ftyp box carrying a
// HEIC/HEIF brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	for _, b := range heicBrands {
		if brand == b {
			return true
		}
	}
	return false
}

// EncodePNG encodes img as PNG bytes, the interchange form used for
// recognition engines and previews.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes img as JPEG bytes at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return dimaging.Fit(img, maxW, maxH, dimaging.Lanczos)
}
