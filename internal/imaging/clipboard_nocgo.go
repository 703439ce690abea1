//go:build !cgo

package imaging

// System clipboard access needs CGO for the native clipboard bindings.
// These stubs keep pure-Go builds working; the web UI's browser-side
// paste and copy do not go through them.

// ReadClipboardImage always fails with ErrClipboardUnavailable in builds
// without CGO.
func ReadClipboardImage() ([]byte, error) {
	return nil, ErrClipboardUnavailable
}

// WriteClipboardText always fails with ErrClipboardUnavailable in builds
// without CGO.
func WriteClipboardText(text string) error {
	return ErrClipboardUnavailable
}
