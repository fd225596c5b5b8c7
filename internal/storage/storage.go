// Package storage defines the Storage interface, the contract every
// database backend must satisfy to back the student-records services.
//
// Every EEDM and self-service resource is stored as a JSON document keyed by
// (resource, id). Services never see SQL: they build a Query out of Filters
// on JSON paths and let the backend translate it.
//
// Handlers and services depend only on this interface, so tests can pass a
// fake and production can swap the SQLite file for another engine without
// touching them.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when no record matches a resource and id.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned by CreateRecord when the id is taken.
var ErrAlreadyExists = errors.New("record already exists")

// Record is one stored document.
type Record struct {
	Resource  string
	ID        string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Op is a filter comparison.
type Op int

const (
	// OpEq matches when the value at Path equals Value.
	OpEq Op = iota
	// OpIn matches when the value at Path is one of Values.
	OpIn
	// OpContains matches when any element of the array at Path has Value at
	// ElemPath.
	OpContains
	// OpGte and OpLte compare the value at Path with Value.
	OpGte
	OpLte
)

// Filter restricts a List to documents whose JSON matches.
//
// Path is a JSON path relative to the document root, such as "$.person.id".
type Filter struct {
	Path     string
	ElemPath string
	Op       Op
	Value    any
	Values   []any
}

// Eq is shorthand for an equality filter.
func Eq(path string, value any) Filter {
	return Filter{Path: path, Op: OpEq, Value: value}
}

// In is shorthand for a membership filter.
func In(path string, values ...any) Filter {
	return Filter{Path: path, Op: OpIn, Values: values}
}

// Contains is shorthand for an array element filter.
func Contains(arrayPath, elemPath string, value any) Filter {
	return Filter{Path: arrayPath, ElemPath: elemPath, Op: OpContains, Value: value}
}

// Query selects a page of documents. A Limit of zero returns every match.
type Query struct {
	Filters []Filter
	Offset  int
	Limit   int
}

// Storage is the database contract.
type Storage interface {
	// CreateRecord inserts a document. It returns ErrAlreadyExists when the
	// resource already has the id.
	CreateRecord(ctx context.Context, resource, id string, payload []byte) error

	// UpdateRecord replaces a document. It returns ErrNotFound when nothing
	// was replaced.
	UpdateRecord(ctx context.Context, resource, id string, payload []byte) error

	// GetRecord fetches one document. Ids compare case-insensitively.
	GetRecord(ctx context.Context, resource, id string) (Record, error)

	// ListRecords returns the requested page in insertion order together
	// with the total number of matches.
	ListRecords(ctx context.Context, resource string, q Query) ([]Record, int, error)

	// DeleteRecord removes a document. It returns ErrNotFound when nothing
	// was removed.
	DeleteRecord(ctx context.Context, resource, id string) error

	// GetDataPrivacy returns the restricted property paths of a resource.
	GetDataPrivacy(ctx context.Context, resource string) ([]string, error)

	// SetDataPrivacy replaces the restricted property paths of a resource.
	SetDataPrivacy(ctx context.Context, resource string, properties []string) error

	// GetExtendedData returns extended properties keyed by record id.
	GetExtendedData(ctx context.Context, resource string, ids []string) (map[string]json.RawMessage, error)

	// SaveExtendedData stores the extended properties of one record.
	SaveExtendedData(ctx context.Context, resource, id string, data json.RawMessage) error

	Close() error
}
