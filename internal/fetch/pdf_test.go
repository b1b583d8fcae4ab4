package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextFromStream(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
(1st) Tj
( C) Tj
0 -14 Td
(2nd 01MAR24) Tj
T*
[(3rd 08NOV22)] TJ
(continuation text) '
ET`)

	got := extractTextFromStream(stream)
	assert.Equal(t, "1st C\n2nd 01MAR24\n3rd 08NOV22\ncontinuation text", got)
}

func TestExtractTextFromStreamEmpty(t *testing.T) {
	assert.Equal(t, "", extractTextFromStream(nil))
	assert.Equal(t, "", extractTextFromStream([]byte("BT\nET")))
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`a\(b\)c`, "a(b)c"},
		{`tab\there`, "tab\there"},
		{`back\\slash`, `back\slash`},
		{`octal\040space`, "octal space"},
		{`newline\nhere`, "newline\nhere"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodePDFString([]byte(tt.raw)), tt.raw)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "1st C \n 2nd 01MAR24", cleanText(" 1st \t C \n 2nd \x00 01MAR24 \n"))
}
