package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract("resume.txt", []byte("Jane Doe\r\nSenior Engineer\r\n\r\n\r\n10 years of Go"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\n\n10 years of Go", text)
}

func TestExtract_PlainTextLenientDecoding(t *testing.T) {
	// Invalid UTF-8 bytes are replaced, not rejected.
	text, err := Extract("resume.txt", []byte{'J', 'a', 'n', 0xff, 0xfe, 'e'})
	require.NoError(t, err)
	assert.Contains(t, text, "Jan")
	assert.Contains(t, text, "�")
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, err := Extract("resume.odt", []byte("whatever"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExtract_ExtensionCaseInsensitive(t *testing.T) {
	_, err := Extract("RESUME.TXT", []byte("ok"))
	assert.NoError(t, err)
}

func TestExtract_MalformedPDFReturnsError(t *testing.T) {
	_, err := Extract("resume.pdf", []byte("definitely not a pdf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExtract_MalformedDocxReturnsError(t *testing.T) {
	_, err := Extract("resume.docx", []byte("definitely not a zip archive"))
	require.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf normalized", "a\r\nb", "a\nb"},
		{"bare cr normalized", "a\rb", "a\nb"},
		{"blank runs collapsed", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing whitespace trimmed", "a  \t\nb", "a\nb"},
		{"surrounding blanks trimmed", "\n\na\n\n", "a"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}
