// Package httpio holds the request parsing and JSON response helpers shared
// by the server and edge handlers, so both map failures onto the same
// status codes and bodies.
package httpio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/dispatcher"
	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// Messages relayed to callers for request-shape failures.
const (
	MsgInvalidJSON   = "Invalid JSON in request body"
	MsgNotObject     = "Request body must be a JSON object"
	MsgBodyTooLarge  = "Request body too large"
	MsgNotFound      = "Endpoint not found"
	MsgMethodInvalid = "Method not allowed"
)

// Sentinels matched by errors.Is against a *RequestError.
var (
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrNotObject    = errors.New("body is not a JSON object")
	ErrBodyTooLarge = errors.New("body too large")
)

// RequestError is a client-caused failure to read the request.
type RequestError struct {
	Status int
	Msg    string
	Err    error
}

func (e *RequestError) Error() string { return e.Msg }

func (e *RequestError) Unwrap() error { return e.Err }

// ReadParams decodes the request body as a JSON object. An empty body or a
// JSON null yields empty params. Bodies over limit bytes are rejected.
func ReadParams(r *http.Request, limit int64) (playstore.Params, error) {
	if r.Body == nil {
		return playstore.Params{}, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, &RequestError{Status: http.StatusBadRequest, Msg: MsgInvalidJSON, Err: fmt.Errorf("%w: %w", ErrInvalidJSON, err)}
	}
	if int64(len(raw)) > limit {
		return nil, &RequestError{Status: http.StatusRequestEntityTooLarge, Msg: MsgBodyTooLarge, Err: ErrBodyTooLarge}
	}
	return DecodeParams(raw)
}

// DecodeParams parses raw as a JSON object.
func DecodeParams(raw []byte) (playstore.Params, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return playstore.Params{}, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &RequestError{Status: http.StatusBadRequest, Msg: MsgInvalidJSON, Err: fmt.Errorf("%w: %w", ErrInvalidJSON, err)}
	}
	switch v := decoded.(type) {
	case nil:
		return playstore.Params{}, nil
	case map[string]any:
		return playstore.Params(v), nil
	default:
		return nil, &RequestError{Status: http.StatusBadRequest, Msg: MsgNotObject, Err: ErrNotObject}
	}
}

// QueryParams turns a query string into params. Repeated keys become string
// slices; everything else stays a string for the operation to coerce.
func QueryParams(values url.Values) playstore.Params {
	params := make(playstore.Params, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			params[key] = vals[0]
		default:
			params[key] = append([]string(nil), vals...)
		}
	}
	return params
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteDispatchError maps a failure from reading or dispatching a request to
// its response. Unsupported operations are 400 and list the valid names,
// request-shape failures carry their own status, and everything else is a
// 500 relaying the error message. With expose set, 500s also carry the
// error's stack trace.
func WriteDispatchError(w http.ResponseWriter, err error, expose bool) {
	var unsupported *dispatcher.UnsupportedOperationError
	if errors.As(err, &unsupported) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":            unsupported.Error(),
			"supportedMethods": unsupported.Supported,
		})
		return
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		WriteError(w, reqErr.Status, reqErr.Msg)
		return
	}

	body := map[string]string{"error": err.Error()}
	if expose {
		body["stack"] = eris.ToString(err, true)
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}
