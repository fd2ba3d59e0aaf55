package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMarkdown_MathDelimiters(t *testing.T) {
	assert.Equal(t, "$x + 1$", NormalizeMarkdown(`\(x + 1\)`))
	assert.Equal(t, "$$\\int_0^1 x\\,dx$$", NormalizeMarkdown(`\[\int_0^1 x\,dx\]`))
}

func TestNormalizeMarkdown_WrapsBareCommands(t *testing.T) {
	out := NormalizeMarkdown(`The value of \frac{1}{2} is half.`)
	assert.Contains(t, out, `$\frac{1}{2}`)
}

func TestNormalizeMarkdown_KeepsExistingDollarMath(t *testing.T) {
	in := "Solve $\\frac{a}{b} = 2$ for a."
	assert.Equal(t, in, NormalizeMarkdown(in))
}

func TestNormalizeMarkdown_FigurePlaceholders(t *testing.T) {
	assert.Equal(t, "[figure]", NormalizeMarkdown("![]( )"))
	assert.Equal(t, "See [figure] below.", NormalizeMarkdown("See [Figure 2: a triangle] below."))
}

func TestNormalizeMarkdown_CollapsesLayoutNoise(t *testing.T) {
	in := "Question 1   \r\n\n\n\n\nOption A\n"
	assert.Equal(t, "Question 1\n\nOption A", NormalizeMarkdown(in))
}
