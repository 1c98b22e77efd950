package auth

import (
	"fmt"
	"os"

	"github.com/mamishal/echoos/internal/common"
	"github.com/mamishal/echoos/internal/cryptox"
	"github.com/mamishal/echoos/internal/filex"
)

// GetOrCreateKey returns the process's long-lived symmetric key. On first
// run it generates cryptox.KeySize random bytes and persists them
// atomically at path with mode 0600; on later runs it returns the persisted
// key unchanged. Key rotation is out of scope.
//
// All failures wrap common.ErrKeyStorage: the subsystem cannot operate
// without a key, so callers must treat an error here as fatal at startup.
func GetOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != cryptox.KeySize {
			return nil, fmt.Errorf("%w: key file %s holds %d bytes, want %d",
				common.ErrKeyStorage, path, len(key), cryptox.KeySize)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrKeyStorage, path, err)
	}

	key = common.GenerateRandByteArray(cryptox.KeySize)
	if err := filex.WriteFileAtomic(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write %s: %w", common.ErrKeyStorage, path, err)
	}
	return key, nil
}
