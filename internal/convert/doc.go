// Package convert translates recognized LaTeX formula strings into other
// math notations.
//
// Two targets are supported:
//
//   - Typst: a fixed, ordered token-replacement mapping (see ToTypst).
//     Conversion is best-effort: tokens without a mapping pass through
//     unchanged, so the output may be a partial translation rather than
//     valid Typst for exotic input.
//   - MathML: rendered through goldmark's math extension (see ToMathML),
//     used for the in-app formula preview.
//
// All conversions are pure functions of their input. The same LaTeX string
// always yields the same output.
package convert
