package convert

import "strings"

// replacement is a single LaTeX token and its Typst equivalent.
type replacement struct {
	latex string
	typst string
}

// typstTable maps LaTeX tokens to Typst tokens. Order matters: structural
// tokens containing braces must be replaced before the bare-brace passes at
// the end of ToTypst, and `}^{`/`}_{` must run before `}{` so that
// sub/superscript boundaries are not consumed by the argument separator.
var typstTable = []replacement{
	{`\frac{`, `frac(`},
	{`}^{`, `)^(`},
	{`}_{`, `)_(`},
	{`}{`, `, `},
	{`\sqrt{`, `sqrt(`},
	{`\sum_{`, `sum_(`},
	{`\int_{`, `integral_(`},
	{`\lim_{`, `lim_(`},
	{`\alpha`, `alpha`},
	{`\beta`, `beta`},
	{`\gamma`, `gamma`},
	{`\delta`, `delta`},
	{`\epsilon`, `epsilon`},
	{`\pi`, `pi`},
	{`\theta`, `theta`},
	{`\infty`, `infinity`},
	{`\leq`, `<=`},
	{`\geq`, `>=`},
	{`\neq`, `!=`},
	{`\cdot`, `dot`},
	{`\times`, `times`},
	{`\div`, `/`},
}

// ToTypst converts a LaTeX formula string to Typst notation.
//
// The conversion applies a fixed table of token replacements in order, then
// rewrites remaining braces as parentheses. Tokens without a table entry are
// left as-is, so unsupported commands degrade to a readable partial
// conversion instead of failing.
//
// Examples:
//
//	ToTypst(`\frac{x^2 + y^2}{z}`)  // "frac(x^2 + y^2, z)"
//	ToTypst(`\sum_{i=1}^{n} x_i`)  // "sum_(i=1)^(n) x_i"
//	ToTypst(`x^2+y^2=z^2`)         // unchanged
func ToTypst(latex string) string {
	s := latex
	for _, r := range typstTable {
		s = strings.ReplaceAll(s, r.latex, r.typst)
	}

	// Close any arguments opened by the table entries and degrade leftover
	// grouping braces to parentheses.
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "{", "(")

	return s
}
