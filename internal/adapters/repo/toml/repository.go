package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/spf13/viper"
)

const (
	PathKey           = "dialects.path"
	dialectsFileMode  = 0o600
	dialectsDirMode   = 0o700
	dialectsConfigDir = ".inf-pilisp"
	dialectsFile      = "dialects.toml"
	tempFilePattern   = ".dialects-*.toml.tmp"
)

// Repository stores user dialects in a versioned TOML file.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.DialectRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(PathKey, filepath.Join(homeDir, dialectsConfigDir, dialectsFile))

	path := cfg.GetString(PathKey)
	if path == "" {
		return nil, errors.New("dialects path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) List(ctx context.Context) ([]domain.Dialect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	dialects := make([]domain.Dialect, 0, len(file.Dialects))
	for _, entry := range file.Dialects {
		dialects = append(dialects, fromSchema(entry))
	}

	return dialects, nil
}

func (r *Repository) Save(ctx context.Context, dialect domain.Dialect) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dialect.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(dialect)
	updated := false
	for i := range file.Dialects {
		if file.Dialects[i].ID == encoded.ID {
			file.Dialects[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Dialects = append(file.Dialects, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read dialects file: %w", err)
	}

	return decode(data)
}

func decode(data []byte) (fileSchema, error) {
	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode dialects file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), dialectsDirMode); err != nil {
		return fmt.Errorf("create dialects directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode dialects file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp dialects file: %w", err)
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
		return fmt.Errorf("write temp dialects file: %w", err)
	}
	if err := tempFile.Chmod(dialectsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp dialects file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp dialects file: %w", err)
	}
	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace dialects file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve dialects path: %w", err)
	}

	return filepath.Clean(absPath), nil
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
