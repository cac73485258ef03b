package draw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriter_WriteAtAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)

	cw.WriteAt(1, 1, "hi")
	assert.Empty(t, out.String(), "nothing written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[4;3Hhi", out.String())
}

func TestChunkWriter_WriteCentered(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	cw.WriteCentered(5, 10, "abcd")
	cw.WriteCentered(6, 3, "too wide")
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[5;4Habcd", out.String())
}

func TestChunkWriter_Clear(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 4, 4)

	cw.Clear()
	cw.WriteAt(1, 1, "x")
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[H\033[2J\033[5;5Hx", out.String())
}

func TestChunkWriter_FlushLargePayload(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	payload := bytes.Repeat([]byte("x"), maxChunkSize*3+17)
	_, err := cw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, cw.Flush())

	assert.Equal(t, payload, out.Bytes())
}

func TestSessionSequences(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, BeginSession(&out))
	assert.Equal(t, "\033[?25l\033[?1000h\033[?1006h\033[H\033[2J", out.String())

	out.Reset()
	require.NoError(t, EndSession(&out))
	assert.Equal(t, "\033[?1006l\033[?1000l\033[0m\033[H\033[2J\033[?25h", out.String())
}
