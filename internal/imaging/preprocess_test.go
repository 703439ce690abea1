package imaging

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func TestPreprocess_ProducesBinaryOutput(t *testing.T) {
	img := createFormulaImage(240, 120, false)

	out, err := Preprocess(img)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("output type: got %T, want *image.Gray", out)
	}
	for i, v := range gray.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d has intermediate value %d, output is not binary", i, v)
		}
	}
}

func TestPreprocess_Idempotent(t *testing.T) {
	img := createFormulaImage(240, 120, false)

	first, err := Preprocess(img)
	if err != nil {
		t.Fatalf("first Preprocess failed: %v", err)
	}
	second, err := Preprocess(first)
	if err != nil {
		t.Fatalf("second Preprocess failed: %v", err)
	}

	g1 := first.(*image.Gray)
	g2 := second.(*image.Gray)
	if g1.Bounds() != g2.Bounds() {
		t.Fatalf("bounds changed on re-application: %v -> %v", g1.Bounds(), g2.Bounds())
	}
	if !bytes.Equal(g1.Pix, g2.Pix) {
		t.Error("pixels changed on re-application of Preprocess")
	}
}

func TestPreprocess_BinarizedShortCircuit(t *testing.T) {
	// Strictly two-valued input must come back unchanged
	bin := image.NewGray(image.Rect(0, 0, 80, 40))
	for i := range bin.Pix {
		bin.Pix[i] = 255
	}
	for y := 10; y < 30; y++ {
		for x := 20; x < 60; x++ {
			bin.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out, err := Preprocess(bin)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	gray := out.(*image.Gray)
	if gray.Bounds() != bin.Bounds() {
		t.Fatalf("bounds: got %v, want %v", gray.Bounds(), bin.Bounds())
	}
	if !bytes.Equal(gray.Pix, bin.Pix) {
		t.Error("binarized input was modified")
	}
}

func TestPreprocess_DarkBackground(t *testing.T) {
	// White ink on black background: output should still be dark ink on a
	// light background after polarity normalization
	img := createFormulaImage(240, 120, true)

	out, err := Preprocess(img)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	gray := out.(*image.Gray)
	white, black := 0, 0
	for _, v := range gray.Pix {
		if v == 255 {
			white++
		} else {
			black++
		}
	}
	if white <= black {
		t.Errorf("background polarity not normalized: %d white vs %d black pixels", white, black)
	}
}

func TestPreprocess_RenderedFormula(t *testing.T) {
	// Rendered glyphs rather than synthetic strokes
	img := image.NewRGBA(image.Rect(0, 0, 260, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 260; x++ {
			img.Set(x, y, color.White)
		}
	}
	drawText(img, 30, 35, "x^2 + y^2 = z^2", color.Black)

	out, err := Preprocess(img)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	gray := out.(*image.Gray)
	ink := 0
	for _, v := range gray.Pix {
		if v == 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("rendered glyphs lost during preprocessing")
	}
	if b := gray.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty output bounds: %v", b)
	}
}

func TestPreprocess_MalformedInput(t *testing.T) {
	if _, err := Preprocess(nil); err == nil {
		t.Error("nil image should fail")
	}
	if _, err := Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("empty image should fail")
	}
}

func TestToGray(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 1))
			img.Set(0, 0, tt.c)
			gray := toGray(img)
			if got := gray.GrayAt(0, 0).Y; got != tt.want {
				t.Errorf("luma: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDarkBackground(t *testing.T) {
	light := createFormulaImage(100, 60, false)
	if darkBackground(light) {
		t.Error("light background detected as dark")
	}

	dark := createFormulaImage(100, 60, true)
	if !darkBackground(dark) {
		t.Error("dark background not detected")
	}
}

func TestCLAHE_UniformImageStaysUniform(t *testing.T) {
	// Tiles share identical histograms, so every pixel must map to the
	// same output value, close to the input level
	src := image.NewGray(image.Rect(0, 0, 256, 256))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	out := clahe(src, claheClipLimit, claheGridSize)

	first := out.Pix[0]
	for i, v := range out.Pix {
		if v != first {
			t.Fatalf("pixel %d is %d, pixel 0 is %d: uniform input became non-uniform", i, v, first)
		}
	}
	if math.Abs(float64(first)-128) > 10 {
		t.Errorf("uniform level drifted from 128 to %d", first)
	}
}

func TestCLAHE_StretchesNarrowRange(t *testing.T) {
	// Values confined to [80,180] should spread over most of the full
	// range after local equalization
	src := image.NewGray(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(80 + (x*7+y*13)%101)})
		}
	}

	out := clahe(src, claheClipLimit, claheGridSize)

	lo, hi := uint8(255), uint8(0)
	for _, v := range out.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if int(hi)-int(lo) <= 150 {
		t.Errorf("range not stretched: got [%d,%d], input was [80,180]", lo, hi)
	}
}

func TestAdaptiveThreshold_StableOnBinaryInput(t *testing.T) {
	// Pure black and white regions must survive thresholding unchanged;
	// this is what the >= 1 threshold clamp guarantees for black areas
	src := image.NewGray(image.Rect(0, 0, 60, 60))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			src.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out := adaptiveThreshold(src, threshBlockSize, threshC)

	if !bytes.Equal(out.Pix, src.Pix) {
		t.Error("binary input changed under adaptive threshold")
	}
}

func TestAdaptiveThreshold_SeparatesInkFromBackground(t *testing.T) {
	// Gray ink on a lighter gray background
	src := image.NewGray(image.Rect(0, 0, 60, 60))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	for y := 28; y < 34; y++ {
		for x := 10; x < 50; x++ {
			src.SetGray(x, y, color.Gray{Y: 80})
		}
	}

	out := adaptiveThreshold(src, threshBlockSize, threshC)

	if out.GrayAt(30, 30).Y != 0 {
		t.Error("ink pixel not black after threshold")
	}
	if out.GrayAt(5, 5).Y != 255 {
		t.Error("background pixel not white after threshold")
	}
}

func TestGaussianKernel1D(t *testing.T) {
	kernel := gaussianKernel1D(threshBlockSize)

	if len(kernel) != threshBlockSize {
		t.Fatalf("kernel length: got %d, want %d", len(kernel), threshBlockSize)
	}

	var sum float64
	for _, v := range kernel {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("kernel sum: got %f, want 1.0", sum)
	}

	mid := len(kernel) / 2
	for i := 0; i < mid; i++ {
		if math.Abs(kernel[i]-kernel[len(kernel)-1-i]) > 1e-12 {
			t.Errorf("kernel not symmetric at %d: %f vs %f",
				i, kernel[i], kernel[len(kernel)-1-i])
		}
		if kernel[i] >= kernel[mid] {
			t.Errorf("kernel peak not at center: kernel[%d]=%f >= kernel[%d]=%f",
				i, kernel[i], mid, kernel[mid])
		}
	}
}

func TestClampRange(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// Helper functions

// drawText renders text onto img with the fixed 7x13 basicfont face.
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createFormulaImage draws simple formula-like strokes. With dark set, the
// polarity is flipped to white ink on a black background.
func createFormulaImage(width, height int, dark bool) image.Image {
	bg, ink := color.RGBA{245, 245, 245, 255}, color.RGBA{20, 20, 20, 255}
	if dark {
		bg, ink = color.RGBA{15, 15, 15, 255}, color.RGBA{235, 235, 235, 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, bg)
		}
	}

	// A horizontal bar and two vertical strokes, roughly "x = y"
	for x := width / 4; x < 3*width/4; x++ {
		for dy := 0; dy < 3; dy++ {
			img.Set(x, height/2+dy, ink)
		}
	}
	for y := height / 4; y < 3*height/4; y++ {
		for dx := 0; dx < 3; dx++ {
			img.Set(width/4+dx, y, ink)
			img.Set(3*width/4+dx, y, ink)
		}
	}

	return img
}
