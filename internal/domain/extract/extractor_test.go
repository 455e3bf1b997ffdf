package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	t.Run("flattens pages in order", func(t *testing.T) {
		pages := []Page{
			{Number: 1, Text: "primera\nsegunda\n"},
			{Number: 2, Text: "tercera"},
		}

		lines := Lines(pages)
		require.Len(t, lines, 3)
		assert.Equal(t, RawLine{Page: 1, Line: 1, Text: "primera"}, lines[0])
		assert.Equal(t, RawLine{Page: 1, Line: 2, Text: "segunda"}, lines[1])
		assert.Equal(t, RawLine{Page: 2, Line: 1, Text: "tercera"}, lines[2])
	})

	t.Run("drops blank lines but keeps indices", func(t *testing.T) {
		pages := []Page{{Number: 1, Text: "uno\n\n   \ncuatro"}}

		lines := Lines(pages)
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].Line)
		assert.Equal(t, 4, lines[1].Line)
	})

	t.Run("preserves leading whitespace for continuations", func(t *testing.T) {
		pages := []Page{{Number: 1, Text: "01/02/24 COMPRA\n   CUOTA 02/12\r\n"}}

		lines := Lines(pages)
		require.Len(t, lines, 2)
		assert.Equal(t, "   CUOTA 02/12", lines[1].Text)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Lines(nil))
		assert.Empty(t, Lines([]Page{{Number: 1, Text: "  \n "}}))
	})
}
