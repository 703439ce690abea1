// Package imaging provides image acquisition and preprocessing for formula
// recognition.
//
// Acquisition decodes images from files, uploaded bytes, or the system
// clipboard and normalizes them to in-memory bitmaps. Preprocessing cleans a
// formula image before it is handed to a recognition engine: polarity
// normalization, grayscale, median denoise, CLAHE contrast enhancement,
// adaptive binarization, ink-region trimming, and upscaling of very small
// crops.
//
// # Supported Formats
//
// Decoding is content-sniffed, never extension-based. The accepted raster
// formats are PNG, JPEG, GIF, BMP, TIFF, WebP, and HEIC. Anything else
// fails with ErrUnsupportedFormat.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Region rectangles follow the
// standard library convention (inclusive Min, exclusive Max).
//
// # Clipboard
//
// System clipboard access requires CGO; builds without it get stub
// implementations that fail with ErrClipboardUnavailable. The web UI does
// not depend on this: browser-side paste uploads image bytes directly.
//
// # Determinism
//
// Preprocess is a pure function of the input pixels. Applying it to an
// already-binarized image returns that image unchanged, so the transform is
// idempotent once binarization has happened.
package imaging
