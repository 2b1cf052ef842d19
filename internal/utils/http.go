package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrTrailingData = errors.New("unexpected data after JSON body")

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// JSONDetail writes {"detail": "..."} with a given status.
func JSONDetail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

// ValidationError writes a 422 with the per-field messages of err.
func ValidationError(w http.ResponseWriter, err error) {
	detail := map[string]string{}

	var errs validation.Errors
	if errors.As(err, &errs) {
		for field, fieldErr := range errs {
			detail[field] = fieldErr.Error()
		}
	} else {
		detail["_"] = err.Error()
	}

	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validation failed",
		"detail": detail,
	})
}

// DecodeJSON parses the JSON body into v and handles invalid JSON. The body
// must hold exactly one JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		JSONError(w, http.StatusBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			ValidationError(w, validation.Errors{
				typeErr.Field: fmt.Errorf("must be a JSON %s", typeErr.Type.Kind()),
			})
			return err
		}
		JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		JSONError(w, http.StatusBadRequest, "invalid JSON: unexpected data after the body")
		return ErrTrailingData
	}

	return nil
}
