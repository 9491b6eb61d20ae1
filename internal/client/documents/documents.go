// Package documents turns files on disk into the inline payloads the vault
// stores, and back.
package documents

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
)

// MaxAvatarSize is the largest accepted avatar image.
const MaxAvatarSize = 2 << 20

var (
	ErrAvatarTooLarge = errors.New("avatar larger than 2 MB")
	ErrNotAnImage     = errors.New("file is not an image")
	ErrInvalidDataURI = errors.New("invalid data URI")
)

// Load reads the file at path and returns it as a document payload. The
// document name defaults to the file name without its extension.
func Load(path string) (models.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.DocumentInput{}, fmt.Errorf("read document: %w", err)
	}

	mime := detect(data)
	fileName := filepath.Base(path)

	return models.DocumentInput{
		Name:     strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		FileName: fileName,
		FileType: mime,
		FileSize: int64(len(data)),
		FileData: EncodeDataURI(mime, data),
	}, nil
}

// LoadAvatar reads an image file and returns it as a data URI suitable for
// the profile avatar.
func LoadAvatar(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat avatar: %w", err)
	}
	if fi.Size() > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}

	mime := detect(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, mime)
	}
	return EncodeDataURI(mime, data), nil
}

// EncodeDataURI returns "data:<mime>;base64,<payload>".
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: not base64", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return mime, data, nil
}

// Export writes the bytes of doc to path.
func Export(doc models.Document, path string) error {
	_, data, err := DecodeDataURI(doc.FileData)
	if err != nil {
		return fmt.Errorf("export %s: %w", doc.ID, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("export %s: %w", doc.ID, err)
	}
	return nil
}

// detect returns the bare MIME type, without parameters such as charset.
func detect(data []byte) string {
	m := mimetype.Detect(data).String()
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return m
}
