package ethos

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Metadata is the Ethos context of a response: which properties the caller
// may not see and which extended properties belong to each representation.
type Metadata struct {
	// RestrictedProperties are dotted property paths, such as
	// "chargedAmount.amount".
	RestrictedProperties []string
	// ExtendedData is keyed by lower cased representation id.
	ExtendedData map[string]json.RawMessage
}

// WriteShaped writes value, a representation or a slice of them, after
// removing restricted properties and merging extended data. When anything
// was removed the response carries X-Content-Restricted: partial.
func WriteShaped(w http.ResponseWriter, status int, value any, md Metadata) error {
	body, restricted, err := Shape(value, md)
	if err != nil {
		return err
	}
	if restricted {
		w.Header().Set("X-Content-Restricted", "partial")
	}
	return response.WriteJSON(w, status, body)
}

// Shape applies md to value and returns the resulting JSON.
func Shape(value any, md Metadata) (json.RawMessage, bool, error) {
	doc, err := toGeneric(value)
	if err != nil {
		return nil, false, err
	}

	restricted := false
	apply := func(obj map[string]any) error {
		for _, path := range md.RestrictedProperties {
			if removePath(obj, strings.Split(path, ".")) {
				restricted = true
			}
		}
		id, _ := obj["id"].(string)
		if ext, ok := md.ExtendedData[strings.ToLower(id)]; ok && id != "" {
			var extra map[string]any
			if err := decodeNumber(ext, &extra); err != nil {
				return err
			}
			for k, v := range extra {
				obj[k] = v
			}
		}
		return nil
	}

	switch t := doc.(type) {
	case map[string]any:
		if err := apply(t); err != nil {
			return nil, false, err
		}
	case []any:
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				if err := apply(obj); err != nil {
					return nil, false, err
				}
			}
		}
	}

	out, err := json.Marshal(doc)
	return out, restricted, err
}

// removePath deletes path from obj, descending into arrays. It reports
// whether anything was removed.
func removePath(obj map[string]any, path []string) bool {
	if len(path) == 0 {
		return false
	}
	child, ok := obj[path[0]]
	if !ok {
		return false
	}
	if len(path) == 1 {
		delete(obj, path[0])
		return true
	}

	removed := false
	switch t := child.(type) {
	case map[string]any:
		removed = removePath(t, path[1:])
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok && removePath(m, path[1:]) {
				removed = true
			}
		}
	}
	return removed
}

// MergePartial overlays a PUT body on the stored representation. Objects
// merge recursively, null leaves the stored value alone, and restricted
// properties always keep their stored value since the caller never saw it.
func MergePartial(stored, request json.RawMessage, restricted []string) (json.RawMessage, error) {
	var base, overlay map[string]any
	if len(stored) > 0 {
		if err := decodeNumber(stored, &base); err != nil {
			return nil, err
		}
	}
	if err := decodeNumber(request, &overlay); err != nil {
		return nil, err
	}
	if base == nil {
		base = map[string]any{}
	}

	merged := mergeMaps(deepCopy(base).(map[string]any), overlay)

	for _, path := range restricted {
		restorePath(merged, base, strings.Split(path, "."))
	}

	return json.Marshal(merged)
}

func mergeMaps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if v == nil {
			continue
		}
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeMaps(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// restorePath puts the stored value of path back into dst, or removes it
// when nothing was stored. Arrays are matched element by element, so a
// restricted property of the i-th element comes from the i-th stored
// element.
func restorePath(dst, stored map[string]any, path []string) {
	key := path[0]
	sv, ok := stored[key]
	if len(path) == 1 {
		if ok {
			dst[key] = deepCopy(sv)
		} else {
			delete(dst, key)
		}
		return
	}

	if items, isArray := dst[key].([]any); isArray {
		storedItems, _ := sv.([]any)
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var sm map[string]any
			if i < len(storedItems) {
				sm, _ = storedItems[i].(map[string]any)
			}
			restorePath(m, sm, path[1:])
		}
		return
	}

	sm, _ := sv.(map[string]any)
	m, isMap := dst[key].(map[string]any)
	if !isMap {
		if sm == nil {
			return
		}
		m = map[string]any{}
		dst[key] = m
	}
	restorePath(m, sm, path[1:])
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return v
	}
}

// SplitExtended separates the top level properties of body that the
// representation type of dst does not define. The known part is decoded
// into dst; the rest is returned as a JSON object, or nil when there is
// none.
func SplitExtended(body []byte, dst any) (json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, invalidBody(err)
	}

	known := jsonFields(reflect.TypeOf(dst))
	extended := map[string]json.RawMessage{}
	for k, v := range all {
		if !known[k] {
			extended[k] = v
			delete(all, k)
		}
	}

	core, err := json.Marshal(all)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(core, dst); err != nil {
		return nil, invalidBody(err)
	}

	if len(extended) == 0 {
		return nil, nil
	}
	return json.Marshal(extended)
}

func invalidBody(err error) error {
	return apperr.Argument("The request body is not valid JSON: %s", err.Error())
}

// jsonFields lists the JSON names of a struct type, following pointers and
// embedded structs.
func jsonFields(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := map[string]bool{}
	if t.Kind() != reflect.Struct {
		return fields
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" {
			for k := range jsonFields(f.Type) {
				fields[k] = true
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = true
	}
	return fields
}

func toGeneric(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var doc any
	err = decodeNumber(raw, &doc)
	return doc, err
}

// decodeNumber keeps numbers as json.Number so amounts survive the round
// trip unchanged.
func decodeNumber(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}
