// Package respond writes JSON responses and reads JSON request bodies.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; every payload in this API is a handful of fields.
const maxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("empty request body")

// ErrorBody is the shape of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorBody{Error: message})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a single JSON document from the request body into dst.
// Unknown fields are ignored; trailing data is rejected.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	if dec.More() {
		return errors.New("invalid json: unexpected data after body")
	}
	return nil
}
