//go:build cgo

package imaging

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// initClipboard initializes the system clipboard connection once. Init
// fails when no clipboard service is reachable (e.g. headless sessions
// without a display server).
func initClipboard() error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

// ReadClipboardImage returns the PNG-encoded image currently on the system
// clipboard. Fails with ErrNoImage when the clipboard holds no image
// content, or ErrClipboardUnavailable when no clipboard service is
// reachable.
func ReadClipboardImage() ([]byte, error) {
	if err := initClipboard(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}

	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}

// WriteClipboardText places text on the system clipboard.
func WriteClipboardText(text string) error {
	if err := initClipboard(); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}

	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
