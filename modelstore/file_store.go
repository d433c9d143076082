package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
)

const blobExtension = ".model"

// FileStore keeps one file per key under a directory.
type FileStore struct {
	logger lager.Logger
	dir    string
}

var _ auctiontypes.ModelStore = &FileStore{}

func NewFileStore(logger lager.Logger, dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{
		logger: logger.Session("file-store", lager.Data{"dir": dir}),
		dir:    dir,
	}, nil
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// Save writes through a temporary file so readers never see a partial blob.
func (s *FileStore) Save(ctx context.Context, key string, blob []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	s.logger.Debug("saved", lager.Data{"key": key, "bytes": len(blob)})
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid model key %q", key)
	}
	return filepath.Join(s.dir, key+blobExtension), nil
}
