package cli

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/and161185/signup-wizard/internal/model"
	"github.com/and161185/signup-wizard/internal/validate"
)

// LoadAttachment describes the file at path. Contents are read only when the
// file fits the attachment limit; oversized files come back with Size set and
// no data so the controller can reject them.
func LoadAttachment(path string) (*model.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	a := &model.Attachment{
		Name: filepath.Base(path),
		Size: fi.Size(),
	}
	if fi.Size() <= validate.MaxAttachmentSize {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		a.Data = data
		a.Size = int64(len(data))
	}
	a.MIMEType = detectType(a.Name, a.Data)
	return a, nil
}

func detectType(name string, data []byte) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" && len(data) > 0 {
		ct = http.DetectContentType(data)
	}
	if ct == "" {
		return "application/octet-stream"
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}
