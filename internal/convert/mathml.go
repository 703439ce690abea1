package convert

import (
	"bytes"
	"fmt"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
)

// ToMathML renders a LaTeX formula string as MathML markup for display.
//
// The formula is wrapped in display math delimiters and run through
// goldmark with the treeblood math extension; the returned string is an
// HTML fragment containing a <math> element. Callers use it only for
// preview rendering, so failures should be treated as "no preview
// available" rather than surfaced to the user.
func ToMathML(latex string) (string, error) {
	source := "$$" + latex + "$$"

	md := goldmark.New(
		goldmark.WithExtensions(
			treeblood.MathML(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render MathML: %w", err)
	}

	return buf.String(), nil
}
