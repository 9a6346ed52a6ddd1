package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractorAcceptsText(t *testing.T) {
	text, err := PlainTextExtractor{}.Extract("resume.txt", []byte("Ten years of Go."))
	require.NoError(t, err)
	assert.Equal(t, "Ten years of Go.", text)

	_, err = PlainTextExtractor{}.Extract("notes.md", []byte("# Resume"))
	assert.NoError(t, err)
}

func TestPlainTextExtractorRejectsBinaryFormats(t *testing.T) {
	_, err := PlainTextExtractor{}.Extract("resume.pdf", []byte("%PDF-1.7"))
	assert.Error(t, err)
}

func TestPlainTextExtractorRejectsInvalidUTF8(t *testing.T) {
	_, err := PlainTextExtractor{}.Extract("resume.txt", []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)
}
