package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

// ErrNotFound is returned by a Mirror that holds no snapshot yet.
var ErrNotFound = errors.New("state snapshot not found")

// Mirror keeps an off-host copy of the state file.
type Mirror interface {
	// Upload stores a snapshot.
	Upload(ctx context.Context, data []byte) error
	// Download returns the latest snapshot or ErrNotFound.
	Download(ctx context.Context) ([]byte, error)
}

// Store loads and saves the ProcessedState at a fixed path.
// It has a single writer: the goroutine running sync cycles.
type Store struct {
	path        string
	logger      *zap.Logger
	mirror      Mirror
	retryConfig retry.Config
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for non-fatal mirror failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMirror enables snapshot mirroring and restore.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// NewStore creates a store for the state file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: zap.NewNop(),
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty state, or the
// mirrored snapshot when a mirror is configured and has one.
func (s *Store) Load(ctx context.Context) (*ProcessedState, error) {
	retryer := retry.New[[]byte](s.retryConfig)

	data, err := retryer.Do(ctx, func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- path comes from configuration
		data, err := os.ReadFile(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	if data == nil {
		data = s.restore(ctx)
		if data == nil {
			return New(), nil
		}
	}

	st, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return st, nil
}

// restore fetches the mirrored snapshot, returning nil when there is none.
func (s *Store) restore(ctx context.Context) []byte {
	if s.mirror == nil {
		return nil
	}
	data, err := s.mirror.Download(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("State mirror restore failed", zap.Error(err))
		}
		return nil
	}
	s.logger.Info("Restored state from mirror", zap.String("path", s.path))
	return data
}

// Save atomically replaces the state file with st.
func (s *Store) Save(ctx context.Context, st *ProcessedState) error {
	data, err := st.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, data); err != nil {
			s.logger.Warn("State mirror upload failed", zap.Error(err))
		}
	}
	return nil
}

// writeAtomic replaces path with data through a synced temporary sibling.
func writeAtomic(path string, data []byte) error {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
