package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"heatglass/internal/types"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"
	case errors.Is(err, types.ErrInvalidUpload):
		return http.StatusBadRequest, "INVALID_UPLOAD"
	case errors.Is(err, types.ErrTranscription):
		return http.StatusBadGateway, "TRANSCRIPTION_FAILED"
	case errors.Is(err, types.ErrCompletion):
		return http.StatusBadGateway, "COMPLETION_FAILED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: err.Error()}})
}
