package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestInkBounds(t *testing.T) {
	bin := whiteGray(200, 100)
	for y := 30; y < 60; y++ {
		for x := 50; x < 150; x++ {
			bin.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	got, ok := InkBounds(bin)
	if !ok {
		t.Fatal("ink not found")
	}
	want := image.Rect(50, 30, 150, 60)
	if got != want {
		t.Errorf("bounds: got %v, want %v", got, want)
	}
}

func TestInkBounds_Blank(t *testing.T) {
	if _, ok := InkBounds(whiteGray(50, 50)); ok {
		t.Error("blank image reported ink")
	}
}

func TestInkBounds_SinglePixel(t *testing.T) {
	bin := whiteGray(40, 40)
	bin.SetGray(17, 23, color.Gray{Y: 0})

	got, ok := InkBounds(bin)
	if !ok {
		t.Fatal("ink not found")
	}
	want := image.Rect(17, 23, 18, 24)
	if got != want {
		t.Errorf("bounds: got %v, want %v", got, want)
	}
}

func TestTrimToInk(t *testing.T) {
	bin := whiteGray(200, 200)
	for y := 80; y < 120; y++ {
		for x := 80; x < 120; x++ {
			bin.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out := TrimToInk(bin, inkPadding)

	wantSize := 40 + 2*inkPadding
	if out.Bounds().Dx() != wantSize || out.Bounds().Dy() != wantSize {
		t.Errorf("trimmed size: got %dx%d, want %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy(), wantSize, wantSize)
	}
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("origin: got %v, want (0,0)", out.Bounds().Min)
	}

	// The ink must sit centered inside the padding
	if out.GrayAt(inkPadding, inkPadding).Y != 0 {
		t.Error("ink corner not at padding offset")
	}
	if out.GrayAt(0, 0).Y != 255 {
		t.Error("padding corner not white")
	}
}

func TestTrimToInk_ClampsAtImageEdge(t *testing.T) {
	// Ink touching the top-left corner: padding cannot extend past bounds
	bin := whiteGray(100, 100)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			bin.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out := TrimToInk(bin, inkPadding)

	want := 20 + inkPadding
	if out.Bounds().Dx() != want || out.Bounds().Dy() != want {
		t.Errorf("trimmed size: got %dx%d, want %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy(), want, want)
	}
}

func TestTrimToInk_Blank(t *testing.T) {
	bin := whiteGray(60, 60)
	out := TrimToInk(bin, inkPadding)
	if out != bin {
		t.Error("blank image should be returned unchanged")
	}
}

func TestTrimToInk_Stable(t *testing.T) {
	// Re-trimming an already-trimmed image must not shrink it further
	bin := whiteGray(300, 150)
	for y := 60; y < 90; y++ {
		for x := 100; x < 200; x++ {
			bin.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	once := TrimToInk(bin, inkPadding)
	twice := TrimToInk(once, inkPadding)

	if once.Bounds() != twice.Bounds() {
		t.Errorf("bounds changed on re-trim: %v -> %v", once.Bounds(), twice.Bounds())
	}
}

// Helper functions

// whiteGray builds an all-white grayscale image.
func whiteGray(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}
