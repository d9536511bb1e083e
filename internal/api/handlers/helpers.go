package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"

	// maxMultipartMemory is what ParseMultipartForm keeps in memory; larger parts spill to disk.
	maxMultipartMemory = 32 << 20
)

// errFieldMissing means the form was readable but had no such field.
var errFieldMissing = errors.New("field required")

// encodeFailedBody is sent when a response value cannot be marshaled.
const encodeFailedBody = `{"detail":"failed to encode response"}`

// writeJSON writes v as a JSON body with the given status. v is marshaled
// before the header goes out so a failure can still become a clean 500.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	body, err := json.Marshal(v)
	w.Header().Set(headerContentType, mimeJSON)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(encodeFailedBody)) //nolint:errcheck
		return
	}
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n')) //nolint:errcheck
}

// writeError writes a JSON error response. The body uses "detail" so the
// dashboard can show it verbatim.
func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}

// formValue reads a single field from a urlencoded or multipart body.
// Present-but-empty is returned as "" with a nil error.
func formValue(r *http.Request, field string) (string, error) {
	var err error
	if strings.HasPrefix(r.Header.Get(headerContentType), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return "", err
	}

	values, ok := r.PostForm[field]
	if !ok || len(values) == 0 {
		return "", errFieldMissing
	}
	return values[0], nil
}
