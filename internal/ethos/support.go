package ethos

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Support is the part of every EEDM service the response filter needs.
type Support interface {
	DataPrivacyList(ctx context.Context, resource string, bypassCache bool) ([]string, error)
	ExtendedData(ctx context.Context, resource string, ids []string) (map[string]json.RawMessage, error)
	ImportExtendedData(ctx context.Context, resource, id string, ext json.RawMessage) error
}

// LoadMetadata gathers the privacy list and the extended data of ids.
func LoadMetadata(ctx context.Context, s Support, resource string, ids []string, bypassCache bool) (Metadata, error) {
	restricted, err := s.DataPrivacyList(ctx, resource, bypassCache)
	if err != nil {
		return Metadata{}, err
	}
	ext, err := s.ExtendedData(ctx, resource, ids)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{RestrictedProperties: restricted, ExtendedData: ext}, nil
}

// WriteResult loads the metadata of ids and writes value shaped by it.
func WriteResult(w http.ResponseWriter, r *http.Request, s Support, resource string, ids []string, status int, value any) error {
	md, err := LoadMetadata(r.Context(), s, resource, ids, BypassCache(r))
	if err != nil {
		return err
	}
	return WriteShaped(w, status, value, md)
}

// WriteError logs err and writes it as an integration error.
// permissionStatus is the status used for permission failures.
func WriteError(w http.ResponseWriter, log *slog.Logger, op string, err error, permissionStatus int) {
	status := apperr.Status(err, permissionStatus)
	log.Error(op, slog.Int("status", status), slog.String("error", err.Error()))
	response.WriteIntegrationError(w, status, err)
}

// MergeUpdate applies a partial PUT body over stored. Privacy restricted
// properties keep their stored values. The merged document is decoded into
// dst and the extended properties of the body are returned.
func MergeUpdate(stored any, body []byte, restricted []string, dst any) (json.RawMessage, error) {
	current, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	merged, err := MergePartial(current, body, restricted)
	if err != nil {
		return nil, invalidBody(err)
	}
	return SplitExtended(merged, dst)
}
