package util

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON writes body encoded as JSON with the given status code. If body
// can't be encoded, a 500 response is written instead and the encoding error
// is returned.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		data = []byte(`{"message":"failed encoding response"}`)
		err = fmt.Errorf("failed encoding response body: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, werr := w.Write(append(data, '\n')); werr != nil && err == nil {
		err = werr
	}

	return err
}
