// Package formula orchestrates the recognition pipeline.
//
// A Service ties the stages together: decode, preprocess, recognize on
// a single background worker, convert to Typst and MathML, and record
// the outcome in the in-memory Session. Copy and export side effects
// operate on the session's latest extraction.
package formula
