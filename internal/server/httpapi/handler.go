// Package httpapi exposes the submission sink over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/model"
)

// DefaultMaxUpload bounds a request body.
const DefaultMaxUpload = 10 << 20

// SubmitHandler accepts multipart registration records and logs them.
// It performs no validation of its own.
type SubmitHandler struct {
	log       *zap.Logger
	maxUpload int64
}

// NewSubmitHandler constructs the handler; maxUpload <= 0 means DefaultMaxUpload.
func NewSubmitHandler(log *zap.Logger, maxUpload int64) *SubmitHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmitHandler{log: log, maxUpload: maxUpload}
}

type submitResponse struct {
	Success bool   `json:"success,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, submitResponse{Error: "method not allowed"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	rec, err := ParseRecord(r, h.maxUpload)
	if err != nil {
		h.log.Warn("bad submission", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "Failed"})
		return
	}
	id, err := uuid.NewV4()
	if err != nil {
		h.log.Error("submission id", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "Failed"})
		return
	}

	fields := []zap.Field{
		zap.String("id", id.String()),
		zap.String("firstName", rec.FirstName),
		zap.String("lastName", rec.LastName),
		zap.String("email", rec.Email),
		zap.String("phone", rec.Phone),
		zap.String("username", rec.Username),
		zap.String("password", redact(rec.Password)),
		zap.String("terms", rec.Terms),
	}
	if rec.File != nil {
		fields = append(fields,
			zap.String("file", rec.File.Name),
			zap.Int64("fileSize", rec.File.Size),
			zap.String("fileType", rec.File.MIMEType),
		)
	}
	h.log.Info("form submitted", fields...)

	writeJSON(w, http.StatusOK, submitResponse{Success: true, ID: id.String()})
}

// ParseRecord reads the multipart body written by sink.Encode.
func ParseRecord(r *http.Request, maxMemory int64) (model.Record, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return model.Record{}, err
	}
	rec := model.Record{
		FirstName: r.FormValue(model.FieldFirstName),
		LastName:  r.FormValue(model.FieldLastName),
		Email:     r.FormValue(model.FieldEmail),
		Phone:     r.FormValue(model.FieldPhone),
		Username:  r.FormValue(model.FieldUsername),
		Password:  r.FormValue(model.FieldPassword),
		Terms:     r.FormValue(model.FieldTerms),
	}
	f, hdr, err := r.FormFile(model.FieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return rec, nil
	case err != nil:
		return model.Record{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return model.Record{}, err
	}
	rec.File = &model.Attachment{
		Name:     hdr.Filename,
		Size:     hdr.Size,
		MIMEType: hdr.Header.Get("Content-Type"),
		Data:     data,
	}
	return rec, nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
