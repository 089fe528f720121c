package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"heatglass/internal/types"
)

// AudioField is the multipart field carrying the recording.
const AudioField = "audio"

// multipartSlack covers boundaries and headers on top of the file itself.
const multipartSlack = 1 << 20

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type upload struct {
	Name string `validate:"required,max=255"`
	Ext  string `validate:"eq=.mp3"`
	MIME string `validate:"eq=audio/mpeg"`
	Size int    `validate:"gt=0"`
	Data []byte
}

// readUpload reads and checks the audio part of a multipart request. Errors
// wrap types.ErrInvalidUpload or types.ErrUploadTooLarge.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (upload, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		return upload{}, fmt.Errorf("%w: content-type must be multipart/form-data", types.ErrInvalidUpload)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return upload{}, fmt.Errorf("%w: limit is %d MB", types.ErrUploadTooLarge, maxBytes>>20)
		}
		return upload{}, fmt.Errorf("%w: %v", types.ErrInvalidUpload, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, h, err := r.FormFile(AudioField)
	if err != nil {
		return upload{}, fmt.Errorf("%w: %s file required", types.ErrInvalidUpload, AudioField)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return upload{}, fmt.Errorf("%w: read: %v", types.ErrInvalidUpload, err)
	}
	if int64(len(data)) > maxBytes {
		return upload{}, fmt.Errorf("%w: limit is %d MB", types.ErrUploadTooLarge, maxBytes>>20)
	}

	u := upload{
		Name: filepath.Base(h.Filename),
		Ext:  strings.ToLower(filepath.Ext(h.Filename)),
		Size: len(data),
		Data: data,
	}
	if mt := mimetype.Detect(data); mt.Is("audio/mpeg") {
		u.MIME = "audio/mpeg"
	} else {
		u.MIME = mt.String()
	}

	if err := getValidator().Struct(u); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return upload{}, fmt.Errorf("%w: %s", types.ErrInvalidUpload, uploadMessage(ve[0], u))
		}
		return upload{}, fmt.Errorf("%w: %v", types.ErrInvalidUpload, err)
	}
	return u, nil
}

func uploadMessage(fe validator.FieldError, u upload) string {
	switch fe.Field() {
	case "Ext":
		return "only .mp3 files are accepted"
	case "MIME":
		return fmt.Sprintf("file content is %s, expected audio/mpeg", u.MIME)
	case "Size":
		return "file is empty"
	}
	return "invalid file name"
}
