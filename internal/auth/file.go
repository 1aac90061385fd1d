package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
)

// lockTimeout is the maximum time to wait for the token file lock.
// If exceeded, operations proceed without locking (fail-open) so a
// crashed process holding the lock cannot hang every later invocation.
const lockTimeout = 100 * time.Millisecond

// FileStore keeps tokens in a JSON file mapping origin to token.
// Writes are atomic and guarded by a file lock so concurrent CLI
// invocations do not corrupt the file.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed token store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, "credentials.json")
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, ".credentials.lock")
}

// acquireLock obtains an exclusive lock on the token file.
// Returns nil with no error when the lock could not be acquired within
// lockTimeout; callers proceed unlocked rather than hanging.
func (s *FileStore) acquireLock() (*flock.Flock, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, err
	}

	fl := flock.New(s.lockPath())

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, err
	}
	if !locked {
		return nil, nil
	}
	return fl, nil
}

func release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}

// Load retrieves the token for the given origin.
func (s *FileStore) Load(origin string) (string, error) {
	all, err := s.loadAll()
	if err != nil {
		return "", err
	}

	token, ok := all[origin]
	if !ok {
		return "", fmt.Errorf("token not found for %s", origin)
	}
	return token, nil
}

// Save stores the token for the given origin.
func (s *FileStore) Save(origin, token string) error {
	fl, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release(fl)

	all, err := s.loadAll()
	if err != nil {
		return err
	}

	all[origin] = token
	return s.saveAll(all)
}

// Delete removes the token for the given origin.
func (s *FileStore) Delete(origin string) error {
	fl, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release(fl)

	all, err := s.loadAll()
	if err != nil {
		return err
	}

	delete(all, origin)
	return s.saveAll(all)
}

func (s *FileStore) loadAll() (map[string]string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	var all map[string]string
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *FileStore) saveAll(all map[string]string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write with randomized temp file name
	tmpFile, err := os.CreateTemp(s.dir, "credentials-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	// Unix: rename atomically replaces the destination.
	// Windows: rename fails when destination exists. Try rename first to
	// preserve the old file on unrelated errors; only remove+retry on failure.
	destPath := s.path()
	if err := os.Rename(tmpPath, destPath); err != nil {
		if runtime.GOOS == "windows" {
			_ = os.Remove(destPath)
			return os.Rename(tmpPath, destPath)
		}
		os.Remove(tmpPath) // Clean up stale temp on failure
		return err
	}
	return nil
}
