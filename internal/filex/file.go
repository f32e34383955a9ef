package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metalex84/loginkeeper/internal/common"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// LoadOrCreateKey reads a size-byte key from path. When the file does not
// exist a random key is generated and written with owner-only permissions.
func LoadOrCreateKey(path string, size int) ([]byte, error) {
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != size {
			common.WipeByteArray(key)
			return nil, fmt.Errorf("key file %s: want %d bytes, got %d", path, size, len(key))
		}
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := EnsureParentDir(path); err != nil {
		return nil, err
	}

	key = common.GenerateRandByteArray(size)

	// O_EXCL so two processes never overwrite each other's key
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		common.WipeByteArray(key)
		if errors.Is(err, fs.ErrExist) {
			return LoadOrCreateKey(path, size)
		}
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(key); err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return key, nil
}
