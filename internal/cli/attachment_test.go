package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/signup-wizard/internal/validate"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestLoadAttachment_ByExtension(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "Me.JPG", []byte("not really a jpeg"))
	a, err := LoadAttachment(p)
	require.NoError(t, err)
	assert.Equal(t, "Me.JPG", a.Name)
	assert.Equal(t, "image/jpeg", a.MIMEType)
	assert.Equal(t, int64(17), a.Size)
	assert.Equal(t, []byte("not really a jpeg"), a.Data)
}

func TestLoadAttachment_SniffsWithoutExtension(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "avatar", pngHeader)
	a, err := LoadAttachment(p)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.MIMEType)
	require.NoError(t, validate.Attachment(a))
}

func TestLoadAttachment_TextRejectedByValidator(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "notes", []byte("hello world"))
	a, err := LoadAttachment(p)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", a.MIMEType)
	require.Error(t, validate.Attachment(a))
}

func TestLoadAttachment_OversizedNotRead(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "huge.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(validate.MaxAttachmentSize+1))
	require.NoError(t, f.Close())

	a, err := LoadAttachment(p)
	require.NoError(t, err)
	assert.Equal(t, int64(validate.MaxAttachmentSize+1), a.Size)
	assert.Nil(t, a.Data)
	require.Error(t, validate.Attachment(a))
}

func TestLoadAttachment_Errors(t *testing.T) {
	t.Parallel()
	_, err := LoadAttachment(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	_, err = LoadAttachment(t.TempDir())
	require.Error(t, err)
}
