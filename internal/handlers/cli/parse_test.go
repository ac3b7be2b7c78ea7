package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWalletList(t *testing.T) {
	t.Run("splits on every supported separator", func(t *testing.T) {
		raw := "one\ntwo\r\nthree///four,five;six"

		assert.Equal(t,
			[]string{"one", "two", "three", "four", "five", "six"},
			ParseWalletList(raw),
		)
	})

	t.Run("strips whitespace and quotes", func(t *testing.T) {
		raw := ` "one" , 'two' ,  three  `

		assert.Equal(t, []string{"one", "two", "three"}, ParseWalletList(raw))
	})

	t.Run("drops duplicates keeping first seen order", func(t *testing.T) {
		raw := "b,a,b,c,a"

		assert.Equal(t, []string{"b", "a", "c"}, ParseWalletList(raw))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseWalletList(""))
		assert.Empty(t, ParseWalletList(" ,, ;\n\n "))
	})
}
