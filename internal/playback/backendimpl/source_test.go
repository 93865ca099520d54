package backendimpl

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipID3v2SkipsTag(t *testing.T) {
	tag := []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 10}
	frames := make([]byte, 10) // tag payload matching the declared size
	body := []byte("flacbody")
	r := bytes.NewReader(append(append(append([]byte{}, tag...), frames...), body...))

	require.NoError(t, skipID3v2(r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, rest)
}

func TestSkipID3v2NoTagRewinds(t *testing.T) {
	body := []byte("fLaCsomething")
	r := bytes.NewReader(body)

	require.NoError(t, skipID3v2(r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, rest)
}

func TestOpenSourceUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/track.xyz"
	require.NoError(t, os.WriteFile(path, []byte("noop"), 0o600))

	_, err := openSource(path)
	assert.Error(t, err)
}
