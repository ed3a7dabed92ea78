package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcortes/habita/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with accented characters passes through unchanged.
	input := "Référence;Montant\nLoyer août;450,00\nVirement;-3,00\n"

	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 encoded "Référence;Montant\n" (é = 0xE9).
	latin1Bytes := []byte{
		'R', 0xE9, 'f', 0xE9, 'r', 'e', 'n', 'c', 'e', ';',
		'M', 'o', 'n', 't', 'a', 'n', 't', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Référence;Montant\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// The UTF-8 BOM is stripped, not decoded into the payload.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Référence;Montant\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Référence;Montant\n", string(got))
}
