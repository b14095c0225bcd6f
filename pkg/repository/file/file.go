package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Store persists the conversation record as a single JSON file, the
// server-side analog of the widget's per-profile localStorage record.
type Store struct {
	path string
}

// New creates a file store at the given path, creating parent
// directories as needed.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, goerr.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create store directory", goerr.V("path", path))
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(ctx context.Context) ([]model.Turn, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read conversation record", goerr.V("path", s.path))
	}

	var turns []model.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, goerr.Wrap(err, "corrupt conversation record", goerr.V("path", s.path))
	}
	return turns, nil
}

func (s *Store) Save(ctx context.Context, turns []model.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return goerr.Wrap(err, "failed to encode conversation record")
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write conversation record", goerr.V("path", s.path))
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove conversation record", goerr.V("path", s.path))
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
