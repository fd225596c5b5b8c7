// Package request reads EEDM request bodies and applies the id rules every
// PUT and POST shares.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// Body reads the whole request body. A missing or blank body is an
// integration error named after resource.
func Body(w http.ResponseWriter, r *http.Request, resource string) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Argument("The request body exceeds %d bytes.", MaxBodyBytes)
		}
		return nil, apperr.Argument("The request body could not be read: %s", err.Error())
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperr.Integration("Null "+resource+" argument", "The request body is required.")
	}
	return body, nil
}

// BodyID returns the top level "id" of a JSON body, or "" when there is
// none.
func BodyID(body []byte) string {
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	return v.ID
}

// PutID checks the URL id of a PUT against the body id and returns the id
// to update, lower cased. An empty body id takes the URL id.
func PutID(urlID, bodyID string) (string, error) {
	if urlID == "" {
		return "", apperr.Integration("Null id argument", "The id must be specified in the request URL.")
	}
	if strings.EqualFold(urlID, types.NilGUID) {
		return "", apperr.Integration("Invalid id value", "Nil GUID cannot be used in PUT operation.")
	}
	if bodyID != "" && !strings.EqualFold(urlID, bodyID) {
		return "", apperr.Integration("ID mismatch", "Id not the same as in request body.")
	}
	return strings.ToLower(urlID), nil
}

// PutIDMatching is PutID for resources whose body must repeat the URL id.
// A missing body id is a mismatch.
func PutIDMatching(urlID, bodyID string) (string, error) {
	id, err := PutID(urlID, bodyID)
	if err != nil {
		return "", err
	}
	if bodyID == "" {
		return "", apperr.Integration("ID mismatch", "Id not the same as in request body.")
	}
	return id, nil
}

// RequireURLID rejects a blank id path segment.
func RequireURLID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Integration("Null id argument", "The GUID must be specified in the request URL.")
	}
	return nil
}

// DecodeJSON decodes a self-service body into dst. An empty body is an
// argument error unless optional is set, in which case dst is left
// untouched and false is returned.
func DecodeJSON(r *http.Request, dst any, optional bool) (bool, error) {
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes)).Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		if optional {
			return false, nil
		}
		return false, apperr.Argument("request body is empty")
	case err != nil:
		return false, apperr.Argument("%s", err.Error())
	}
	return true, nil
}
