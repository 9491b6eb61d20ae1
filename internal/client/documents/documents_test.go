package documents

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
)

// 1x1 transparent PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestLoad_TextFile(t *testing.T) {
	p := writeFile(t, "notes.txt", []byte("hello"))

	in, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "notes", in.Name)
	assert.Equal(t, "notes.txt", in.FileName)
	assert.Equal(t, "text/plain", in.FileType)
	assert.Equal(t, int64(5), in.FileSize)
	assert.Equal(t, "data:text/plain;base64,aGVsbG8=", in.FileData)
}

func TestLoad_DetectsByContent(t *testing.T) {
	p := writeFile(t, "picture.bin", tinyPNG)

	in, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "image/png", in.FileType)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAvatar(t *testing.T) {
	uri, err := LoadAvatar(writeFile(t, "me.png", tinyPNG))
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")

	_, err = LoadAvatar(writeFile(t, "me.txt", []byte("not an image")))
	require.ErrorIs(t, err, ErrNotAnImage)

	big := append(bytes.Clone(tinyPNG), make([]byte, MaxAvatarSize)...)
	_, err = LoadAvatar(writeFile(t, "big.png", big))
	require.ErrorIs(t, err, ErrAvatarTooLarge)
}

func TestDataURIRoundTrip(t *testing.T) {
	payload := []byte{0, 1, 2, 250, 251}
	mime, data, err := DecodeDataURI(EncodeDataURI("application/octet-stream", payload))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mime)
	assert.Equal(t, payload, data)
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"hello",
		"data:text/plain;base64",
		"data:text/plain,hello",
		"data:text/plain;base64,!!!",
	} {
		_, _, err := DecodeDataURI(in)
		assert.ErrorIs(t, err, ErrInvalidDataURI, in)
	}
}

func TestExport(t *testing.T) {
	doc := models.Document{ID: "d1", FileData: EncodeDataURI("text/plain", []byte("exported"))}
	out := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, Export(doc, out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "exported", string(b))

	err = Export(models.Document{ID: "d2", FileData: "garbage"}, out)
	require.ErrorIs(t, err, ErrInvalidDataURI)
}
