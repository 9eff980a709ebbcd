package hexfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordZeroPads(t *testing.T) {
	assert.Equal(t, "0001", Word(1))
	assert.Equal(t, "abcd", Word(0xabcd))
	assert.Equal(t, "0000", Word(0))
	assert.Equal(t, "ffff", Word(0xffff))
}

func TestFormatWordsSpaceSeparated(t *testing.T) {
	var b strings.Builder
	FormatWords(&b, []uint16{0x1, 0x20, 0xbeef})
	assert.Equal(t, "0001 0020 beef ", b.String())
}

func TestFormatWordsEmpty(t *testing.T) {
	var b strings.Builder
	FormatWords(&b, nil)
	assert.Empty(t, b.String())
}
