// Package service holds the coordination services the HTTP handlers call.
// Each service validates permissions and business rules, reads and writes
// documents through storage.Storage, and publishes change notifications.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/cache"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/metrics"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/google/uuid"
)

// Deps are the collaborators every service shares.
type Deps struct {
	Store    storage.Storage
	Cache    cache.Cache
	Events   events.Publisher
	Log      *slog.Logger
	CacheTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// base implements the Ethos support operations every EEDM service offers.
type base struct {
	Deps
}

func (b *base) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// isSelf reports whether the caller is person id.
func (b *base) isSelf(ctx context.Context, id string) bool {
	p := auth.FromContext(ctx)
	return p.PersonID != "" && strings.EqualFold(p.PersonID, id)
}

func (b *base) requirePermission(ctx context.Context, action string, codes ...string) error {
	p := auth.FromContext(ctx)
	if p.Has(codes...) {
		return nil
	}
	return apperr.Permission("User '%s' does not have permission to %s.", p.PersonID, action)
}

// DataPrivacyList returns the property paths of resource the caller may
// not see.
func (b *base) DataPrivacyList(ctx context.Context, resource string, bypassCache bool) ([]string, error) {
	key := "data-privacy:" + resource

	var props []string
	if !bypassCache {
		err := b.Cache.Get(ctx, key, &props)
		if err == nil {
			return props, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			b.Log.Warn("data privacy cache read failed", slog.String("resource", resource), slog.String("error", err.Error()))
		}
	}

	props, err := b.Store.GetDataPrivacy(ctx, resource)
	if err != nil {
		return nil, apperr.Repository(err, "Unable to read data privacy settings for %s.", resource)
	}

	if err := b.Cache.Set(ctx, key, props, b.CacheTTL); err != nil {
		b.Log.Warn("data privacy cache write failed", slog.String("resource", resource), slog.String("error", err.Error()))
	}
	return props, nil
}

// ExtendedData returns the extended properties stored for ids.
func (b *base) ExtendedData(ctx context.Context, resource string, ids []string) (map[string]json.RawMessage, error) {
	if len(ids) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	ext, err := b.Store.GetExtendedData(ctx, resource, ids)
	if err != nil {
		return nil, apperr.Repository(err, "Unable to read extended data for %s.", resource)
	}
	return ext, nil
}

// ImportExtendedData stores the extended properties sent with a POST or
// PUT body.
func (b *base) ImportExtendedData(ctx context.Context, resource, id string, ext json.RawMessage) error {
	if len(ext) == 0 {
		return nil
	}
	if err := b.Store.SaveExtendedData(ctx, resource, id, ext); err != nil {
		return apperr.Repository(err, "Unable to save extended data for %s '%s'.", resource, id)
	}
	return nil
}

// notify drops the cached list of resource and publishes a change
// notification. Failures are logged and counted but never fail the request
// that caused the change.
func (b *base) notify(ctx context.Context, resource, id, version, operation string, content any) {
	b.invalidate(ctx, resource)

	n, err := events.NewNotification(resource, id, version, operation, content)
	if err == nil {
		err = b.Events.Publish(ctx, n)
	}
	metrics.ObserveNotification(resource, operation, err)
	if err != nil {
		b.Log.Error("change notification failed",
			slog.String("resource", resource),
			slog.String("id", id),
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
}

// invalidate removes the cache entries built from the documents of
// resource.
func (b *base) invalidate(ctx context.Context, resource string) {
	if err := b.Cache.Delete(ctx, listKey(resource)); err != nil {
		b.Log.Warn("list cache invalidation failed", slog.String("resource", resource), slog.String("error", err.Error()))
	}
}

func listKey(resource string) string {
	return "list:" + resource
}

// cachedList loads every document of resource, going through the cache
// unless bypassCache is set. It serves the small reference lists.
func cachedList[T any](ctx context.Context, b *base, resource string, bypassCache bool) ([]T, error) {
	key := listKey(resource)

	var items []T
	if !bypassCache {
		if err := b.Cache.Get(ctx, key, &items); err == nil {
			return items, nil
		}
	}

	items, _, err := list[T](ctx, b.Store, resource, storage.Query{})
	if err != nil {
		return nil, err
	}

	if err := b.Cache.Set(ctx, key, items, b.CacheTTL); err != nil {
		b.Log.Warn("list cache write failed", slog.String("resource", resource), slog.String("error", err.Error()))
	}
	return items, nil
}

// get loads one document. notFound is the message used when it is missing.
func get[T any](ctx context.Context, store storage.Storage, resource, id, notFound string) (T, error) {
	var v T
	rec, err := store.GetRecord(ctx, resource, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return v, apperr.NotFound("%s", notFound)
		}
		return v, apperr.Repository(err, "Unable to read %s '%s'.", resource, id)
	}
	if err := json.Unmarshal(rec.Payload, &v); err != nil {
		return v, apperr.Repository(err, "Stored %s '%s' is corrupt.", resource, id)
	}
	return v, nil
}

// list loads a page of documents and the total match count.
func list[T any](ctx context.Context, store storage.Storage, resource string, q storage.Query) ([]T, int, error) {
	recs, total, err := store.ListRecords(ctx, resource, q)
	if err != nil {
		return nil, 0, apperr.Repository(err, "Unable to read %s.", resource)
	}

	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return nil, 0, apperr.Repository(err, "Stored %s '%s' is corrupt.", resource, rec.ID)
		}
		items = append(items, v)
	}
	return items, total, nil
}

// create stores a new document.
func create(ctx context.Context, store storage.Storage, resource, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := store.CreateRecord(ctx, resource, id, payload); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return apperr.Argument("A %s record with id '%s' already exists.", resource, id)
		}
		return apperr.Repository(err, "Unable to create %s '%s'.", resource, id)
	}
	return nil
}

// replace overwrites an existing document.
func replace(ctx context.Context, store storage.Storage, resource, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := store.UpdateRecord(ctx, resource, id, payload); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("No %s was found for GUID '%s'.", resource, id)
		}
		return apperr.Repository(err, "Unable to update %s '%s'.", resource, id)
	}
	return nil
}

// newGUID returns a lower case v4 GUID.
func newGUID() string {
	return uuid.NewString()
}

// validGUID reports whether id parses as a GUID.
func validGUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// sameGUID compares ids case-insensitively.
func sameGUID(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ids collects the ids of representations for the extended data lookup.
func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}
