//go:build !cgo

package tesseract

import (
	"context"
	"errors"
	"testing"

	"github.com/formulasnap/formulasnap/internal/ocr"
)

func TestStubWithoutCgo(t *testing.T) {
	if Available() {
		t.Fatal("Available() = true in a build without cgo")
	}
	if v := Version(); v != "" {
		t.Errorf("Version() = %q, want empty", v)
	}
	if _, err := New("eng", ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}

	var stub Engine
	if _, err := stub.Recognize(context.Background(), ocr.Input{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Recognize() error = %v, want ErrUnavailable", err)
	}
	if stub.Name() != "tesseract" {
		t.Errorf("Name() = %q, want tesseract", stub.Name())
	}
}
