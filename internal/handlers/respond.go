package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/languageloom/languageloom-backend/internal/lock"
	"github.com/languageloom/languageloom-backend/internal/logging"
	"github.com/languageloom/languageloom-backend/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the status so an unencodable value is answered
// with a 500 instead of an empty body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context()).Error("encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: true, Message: "internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logging.FromContext(r.Context()).Debug("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: true, Message: message})
}

// writeServiceError maps a service error onto a status code. Internal details are
// logged, not returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPaymentProvider):
		logging.FromContext(r.Context()).Error("payment provider failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "payment provider unavailable")
	case errors.Is(err, lock.ErrNotAcquired):
		logging.FromContext(r.Context()).Error("resource lock failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "resource is busy")
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody reads a JSON object body. An empty body decodes to an empty object.
// Integral numbers become int64 and all other numbers float64.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("%w: malformed JSON body", services.ErrInvalidInput)
	}
	normalized, err := normalizeNumbers(raw)
	if err != nil {
		return nil, err
	}
	body, ok := normalized.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: body must be a JSON object", services.ErrInvalidInput)
	}
	return body, nil
}

// normalizeNumbers rewrites json.Number values in place. Numbers a float64 cannot
// hold are rejected.
func normalizeNumbers(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: number %s is out of range", services.ErrInvalidInput, t)
		}
		return f, nil
	case map[string]interface{}:
		for k, item := range t {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []interface{}:
		for i, item := range t {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
