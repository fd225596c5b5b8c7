package ethos

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
)

// DecodeFilter decodes the JSON object in query parameter name into dst.
//
// Unknown properties and malformed JSON are argument errors. empty is true
// when the filter was supplied but one of its values is blank, in which
// case the caller answers with an empty collection instead of ignoring the
// filter. A missing parameter leaves dst untouched.
func DecodeFilter(r *http.Request, name string, dst any) (empty bool, err error) {
	raw, ok := r.URL.Query()[name]
	if !ok || len(raw) == 0 || raw[0] == "" {
		return false, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw[0]))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "'" + name + "' is an invalid query parameter: " + err.Error()
		return false, apperr.Argument("%s", msg).WithDetail(apperr.CodeValidation, msg, "The filter must be a JSON object with supported properties.")
	}

	var generic any
	if err := json.Unmarshal([]byte(raw[0]), &generic); err != nil {
		return false, apperr.Argument("'%s' is an invalid query parameter", name)
	}
	return hasEmptyValue(generic), nil
}

func hasEmptyValue(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		if len(t) == 0 {
			return true
		}
		for _, child := range t {
			if hasEmptyValue(child) {
				return true
			}
		}
	case []any:
		for _, child := range t {
			if hasEmptyValue(child) {
				return true
			}
		}
	}
	return false
}

// BypassCache reports whether the caller asked for fresh data.
func BypassCache(r *http.Request) bool {
	for _, v := range r.Header.Values("Cache-Control") {
		for _, directive := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(directive), "no-cache") {
				return true
			}
		}
	}
	return false
}

// DecodeBody decodes a JSON request body. An empty body leaves dst
// untouched and returns false.
func DecodeBody(body []byte, dst any) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return false, apperr.Argument("The request body is not valid JSON: %s", err.Error())
	}
	return true, nil
}
