// Package sink sends finalized registration records to the submission endpoint.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
)

// Submitter hands a record to the submission sink.
type Submitter interface {
	// Submit returns nil when the sink accepted the record, or an error wrapping errs.ErrTransport.
	Submit(ctx context.Context, r model.Record) error
}

// Response is the sink's JSON reply.
type Response struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client posts records as multipart/form-data.
type Client struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

var _ Submitter = (*Client)(nil)

// NewClient builds a client for the given endpoint URL. A nil http client means
// http.DefaultClient; no timeout is added here.
func NewClient(url string, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{url: url, http: hc, log: log}
}

// Submit encodes r and posts it. Any non-2xx status, undecodable body or
// success=false reply is a transport failure.
func (c *Client) Submit(ctx context.Context, r model.Record) error {
	body, ctype, err := Encode(r)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", errs.ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", errs.ErrTransport, resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: decode: %v", errs.ErrTransport, err)
	}
	if !out.Success {
		return fmt.Errorf("%w: not accepted", errs.ErrTransport)
	}
	c.log.Info("submitted", zap.String("id", out.ID), zap.Int("status", resp.StatusCode))
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode writes r as a multipart body and returns it with its content type.
func Encode(r model.Record) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range r.Fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if r.File != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			model.FieldFile, quoteEscaper.Replace(r.File.Name)))
		ct := r.File.MIMEType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(r.File.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
