package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/argus-dev/argus/internal/models"
)

// Store persists the full catalog as a single JSON document. The document is
// rewritten in place (temp file + rename) so a crash mid-save never leaves a
// truncated catalog behind.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the catalog from disk. A missing file yields an empty catalog,
// not an error. Run-states and health states are reset: loops never survive a
// process restart.
func (s *Store) Load() (models.Catalog, error) {
	var cat models.Catalog

	data, err := os.ReadFile(s.Path)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cat, nil
		}
		return cat, fmt.Errorf("read catalog: %w", err)
	}

	if err := json.Unmarshal(data, &cat); err != nil {
		return models.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	for i := range cat.Alerts {
		cat.Alerts[i].RunState = models.RunStateStopped
		cat.Alerts[i].HealthState = models.HealthOK
	}

	return cat, nil
}

// Save writes the catalog atomically.
func (s *Store) Save(cat models.Catalog) error {
	data, err := json.MarshalIndent(cat, "", "    ")

	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")

	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write catalog: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close catalog: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace catalog: %w", err)
	}

	return nil
}
