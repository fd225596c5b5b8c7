package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Seed is the JSON file format used to populate a local database.
//
//	{
//	  "records":      {"housing-assignments": [{"id": "...", "payload": {...}}]},
//	  "dataPrivacy":  {"housing-assignments": ["comment"]},
//	  "extendedData": {"housing-assignments": {"<id>": {"customField": 1}}}
//	}
type Seed struct {
	Records      map[string][]SeedRecord               `json:"records"`
	DataPrivacy  map[string][]string                   `json:"dataPrivacy"`
	ExtendedData map[string]map[string]json.RawMessage `json:"extendedData"`
}

// SeedRecord is one document of a seed file.
type SeedRecord struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// LoadSeedFile reads the seed at path and writes it into s. Records that
// already exist are replaced, so loading the same file twice is harmless.
func LoadSeedFile(ctx context.Context, s Storage, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("LoadSeedFile: read: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("LoadSeedFile: decode: %w", err)
	}

	return ApplySeed(ctx, s, seed)
}

// ApplySeed writes seed into s and returns the number of records written.
func ApplySeed(ctx context.Context, s Storage, seed Seed) (int, error) {
	count := 0
	for resource, records := range seed.Records {
		for _, rec := range records {
			if rec.ID == "" {
				return count, fmt.Errorf("ApplySeed: %s: record without id", resource)
			}
			err := s.CreateRecord(ctx, resource, rec.ID, rec.Payload)
			if errors.Is(err, ErrAlreadyExists) {
				err = s.UpdateRecord(ctx, resource, rec.ID, rec.Payload)
			}
			if err != nil {
				return count, fmt.Errorf("ApplySeed: %s/%s: %w", resource, rec.ID, err)
			}
			count++
		}
	}

	for resource, properties := range seed.DataPrivacy {
		if err := s.SetDataPrivacy(ctx, resource, properties); err != nil {
			return count, fmt.Errorf("ApplySeed: data privacy %s: %w", resource, err)
		}
	}

	for resource, byID := range seed.ExtendedData {
		for id, data := range byID {
			if err := s.SaveExtendedData(ctx, resource, id, data); err != nil {
				return count, fmt.Errorf("ApplySeed: extended data %s/%s: %w", resource, id, err)
			}
		}
	}

	return count, nil
}
