package mailfilter

import (
	"io"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	return msg
}

func TestExtractTextFromPlainMessage(t *testing.T) {
	msg := parseMessage(t, "From: a@example.com\r\n"+
		"Subject: hi\r\n"+
		"\r\n"+
		"Just a plain body.\r\n")

	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "Just a plain body.\r\n", text)
}

func TestExtractTextFromMultipartMessage(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=xyz\r\n" +
		"\r\n" +
		"--xyz\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Visible part.\r\n" +
		"--xyz\r\n" +
		"Content-Type: application/pdf\r\n" +
		"\r\n" +
		"binarybinary\r\n" +
		"--xyz--\r\n"

	text, err := extractTextFromMessage(parseMessage(t, raw))
	require.NoError(t, err)
	assert.Contains(t, text, "Visible part.")
	assert.NotContains(t, text, "binarybinary")
}

func TestExtractTextFromMultipartWithoutTextPart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=xyz\r\n" +
		"\r\n" +
		"--xyz\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"data\r\n" +
		"--xyz--\r\n"

	text, err := extractTextFromMessage(parseMessage(t, raw))
	require.NoError(t, err)
	assert.Equal(t, "[No text content found in multipart message]", text)
}

func TestDecodeHeader(t *testing.T) {
	assert.Equal(t, "plain subject", decodeHeader("plain subject"))
	assert.Equal(t, "Résumé", decodeHeader("=?utf-8?q?R=C3=A9sum=C3=A9?="))
	// ISO 8859-1 encoded words rely on the charset reader.
	assert.Equal(t, "café", decodeHeader("=?iso-8859-1?q?caf=E9?="))
	// Garbage stays untouched.
	assert.Equal(t, "=?bogus-charset?q?x?=", decodeHeader("=?bogus-charset?q?x?="))
}

func TestDecodeBodyCharset(t *testing.T) {
	// "café" in Latin-1.
	latin1 := strings.NewReader("caf\xe9")
	r := decodeBody(latin1, `text/plain; charset=iso-8859-1`)

	decoded, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "café", string(decoded))
}
