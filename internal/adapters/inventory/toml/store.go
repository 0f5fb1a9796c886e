package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/bnema/frontdesk/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	inventoryFileMode = 0o644
	inventoryDirMode  = 0o755
	tempFilePattern   = ".inventory-*.toml.tmp"
)

// ErrInventoryExists is returned by Init when the file is already there and
// overwriting was not asked for.
var ErrInventoryExists = errors.New("inventory file already exists")

// Store reads and writes the inventory seed file.
type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.InventorySource = (*Store)(nil)
	_ ports.InventoryWriter = (*Store)(nil)
)

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("inventory path is empty")
	}
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load decodes the inventory file. A missing file yields the default seed
// so a fresh install is usable before "inventory init".
func (s *Store) Load(ctx context.Context) (domain.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return domain.Inventory{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, found, err := s.readSchema()
	if err != nil {
		return domain.Inventory{}, err
	}
	if !found {
		return domain.DefaultInventory(), nil
	}

	inv := fromSchema(file)
	if err := inv.Validate(); err != nil {
		return domain.Inventory{}, fmt.Errorf("validate %s: %w", s.path, err)
	}

	return inv, nil
}

func (s *Store) Save(ctx context.Context, inv domain.Inventory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := inv.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSchema(toSchema(inv))
}

// Init writes inv unless a file already exists and force is false.
func (s *Store) Init(ctx context.Context, inv domain.Inventory, force bool) error {
	if !force {
		if _, err := os.Stat(s.path); err == nil {
			return fmt.Errorf("%w: %s", ErrInventoryExists, s.path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat inventory file: %w", err)
		}
	}

	return s.Save(ctx, inv)
}

func (s *Store) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read inventory file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode inventory file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), inventoryDirMode); err != nil {
		return fmt.Errorf("create inventory directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode inventory file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp inventory file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp inventory file: %w", err)
	}

	if err := tempFile.Chmod(inventoryFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp inventory file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp inventory file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace inventory file: %w", err)
	}

	cleanup = false
	return nil
}

// Encode renders inv the way Save writes it.
func Encode(inv domain.Inventory) ([]byte, error) {
	data, err := toml.Marshal(toSchema(inv))
	if err != nil {
		return nil, fmt.Errorf("encode inventory: %w", err)
	}
	return data, nil
}
