// Package server is the presentation layer: a local HTTP server hosting
// the embedded single-page UI and the JSON API behind it.
//
// # Endpoints
//
// The UI is served at / with its assets under /static/. The API mirrors
// the UI's actions:
//
//   - GET  /api/info              application metadata
//   - POST /api/extract           multipart image upload, runs the pipeline
//   - POST /api/extract/clipboard recognizes the server's clipboard image
//   - GET  /api/result            latest extraction
//   - GET  /api/image             preprocessed thumbnail (PNG)
//   - POST /api/copy              copy a result format to the clipboard
//   - POST /api/export            write a result format to a file
//   - GET  /api/download/{format} result as a file attachment
//
// # Error Handling
//
// Every pipeline error is recovered here and mapped to an HTTP status
// with a user-facing message, returned as {"error": message}; the UI
// shows it in a modal. Nothing past startup is fatal.
package server
