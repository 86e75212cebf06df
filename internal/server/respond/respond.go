// Package respond writes API responses as JSON, or as MessagePack when the
// client asks for it with Accept: application/msgpack.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// WantsMsgpack reports whether the request accepts MessagePack
func WantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, ContentTypeMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// Write encodes data in the negotiated format. The body is encoded before the
// status is sent, so an encoding failure becomes a 500.
func Write(w http.ResponseWriter, r *http.Request, status int, data interface{}, log zerolog.Logger) {
	contentType := ContentTypeJSON
	var (
		body []byte
		err  error
	)
	if WantsMsgpack(r) {
		contentType = ContentTypeMsgpack
		body, err = msgpack.Marshal(data)
	} else {
		body, err = json.Marshal(data)
		body = append(body, '\n')
	}
	if err != nil {
		log.Error().Err(err).Str("content_type", contentType).Msg("Failed to encode response")
		http.Error(w, "encoding error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// ErrorBody is the error payload of every endpoint
type ErrorBody struct {
	Error string `json:"error" msgpack:"error"`
	Kind  string `json:"kind,omitempty" msgpack:"kind,omitempty"`
}

// Error writes an error message
func Error(w http.ResponseWriter, r *http.Request, status int, message string, log zerolog.Logger) {
	Write(w, r, status, ErrorBody{Error: message}, log)
}

// CycleError maps a failed cycle to a status: an unavailable source is 503,
// malformed data is 422, anything else is 500.
func CycleError(w http.ResponseWriter, r *http.Request, err error, log zerolog.Logger) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, domain.ErrSourceUnavailable):
		status, kind = http.StatusServiceUnavailable, "source_unavailable"
	case errors.Is(err, domain.ErrSchema):
		status, kind = http.StatusUnprocessableEntity, "schema"
	}
	Write(w, r, status, ErrorBody{Error: err.Error(), Kind: kind}, log)
}

// NotReady is written by portfolio endpoints before the first cycle completes
func NotReady(w http.ResponseWriter, r *http.Request, log zerolog.Logger) {
	Write(w, r, http.StatusServiceUnavailable, ErrorBody{Error: "no completed cycle yet", Kind: "not_ready"}, log)
}
