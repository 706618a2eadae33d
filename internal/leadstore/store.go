// Package leadstore persists normalized lead records as chunked JSON files.
//
// Records are written in fixed-size chunks so a single save never produces
// one unbounded file. A manifest tracks the chunk list and record count, and
// readers reassemble the full data set in chunk order.
package leadstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

const (
	// DefaultBatchSize caps records per chunk file
	DefaultBatchSize = 400

	manifestFile = "manifest.json"
	chunkPrefix  = "leads_"
	chunkSuffix  = ".json"
)

// Manifest describes the persisted chunk set
type Manifest struct {
	Chunks    []string  `json:"chunks"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists leads under a directory as chunked JSON files
type Store struct {
	mu        sync.RWMutex
	dir       string
	batchSize int
	logger    *slog.Logger
}

// New creates a lead store rooted at dir. The directory is created if
// it does not exist.
func New(dir string, batchSize int, logger *slog.Logger) (*Store, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &Store{
		dir:       dir,
		batchSize: batchSize,
		logger:    logger.With(slog.String("component", "leadstore")),
	}, nil
}

// SaveAll replaces the persisted data set with the given leads
func (s *Store) SaveAll(ctx context.Context, leads []domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeChunksLocked(); err != nil {
		return err
	}
	if err := s.writeChunksLocked(ctx, leads, 0); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "lead data set replaced",
		slog.Int("records", len(leads)),
		slog.Int("chunks", chunkCount(len(leads), s.batchSize)),
	)
	return nil
}

// Append adds leads to the persisted data set without touching existing chunks
func (s *Store) Append(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.readManifestLocked()
	if err != nil {
		return err
	}

	// Fill the trailing partial chunk before starting new ones
	if n := len(manifest.Chunks); n > 0 {
		last := manifest.Chunks[n-1]
		existing, err := s.readChunkLocked(last)
		if err != nil {
			return err
		}
		if len(existing) < s.batchSize {
			room := s.batchSize - len(existing)
			if room > len(leads) {
				room = len(leads)
			}
			merged := append(existing, leads[:room]...)
			if err := s.writeChunkLocked(last, merged); err != nil {
				return err
			}
			leads = leads[room:]
		}
	}

	if err := s.writeChunksLocked(ctx, leads, len(manifest.Chunks)); err != nil {
		return err
	}
	return nil
}

// LoadAll returns the full persisted data set in chunk order
func (s *Store) LoadAll(ctx context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, err := s.readManifestLocked()
	if err != nil {
		return nil, err
	}

	leads := make([]domain.Lead, 0, manifest.Total)
	for _, chunk := range manifest.Chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := s.readChunkLocked(chunk)
		if err != nil {
			return nil, err
		}
		leads = append(leads, records...)
	}
	return leads, nil
}

// DeleteAll removes all persisted chunks and the manifest
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeChunksLocked(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, manifestFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove manifest: %w", err)
	}

	s.logger.InfoContext(ctx, "lead data set deleted")
	return nil
}

// Count returns the number of persisted lead records
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, err := s.readManifestLocked()
	if err != nil {
		return 0, err
	}
	return manifest.Total, nil
}

// LastUpdated returns when the data set was last written, or the zero time
// when no data has been saved yet.
func (s *Store) LastUpdated() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, err := s.readManifestLocked()
	if err != nil {
		return time.Time{}, err
	}
	return manifest.UpdatedAt, nil
}

// writeChunksLocked writes leads in batches starting at chunk index start
// and refreshes the manifest. Callers must hold the write lock.
func (s *Store) writeChunksLocked(ctx context.Context, leads []domain.Lead, start int) error {
	for i := 0; i < len(leads); i += s.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := i + s.batchSize
		if end > len(leads) {
			end = len(leads)
		}
		name := chunkName(start + i/s.batchSize)
		if err := s.writeChunkLocked(name, leads[i:end]); err != nil {
			return err
		}
	}
	return s.refreshManifestLocked()
}

func (s *Store) writeChunkLocked(name string, leads []domain.Lead) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunk %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write chunk %s: %w", name, err)
	}
	return nil
}

func (s *Store) readChunkLocked(name string) ([]domain.Lead, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk %s: %w", name, err)
	}
	var leads []domain.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk %s: %w", name, err)
	}
	return leads, nil
}

// refreshManifestLocked rebuilds the manifest from the chunk files on disk
func (s *Store) refreshManifestLocked() error {
	chunks, err := s.listChunksLocked()
	if err != nil {
		return err
	}

	total := 0
	for _, chunk := range chunks {
		records, err := s.readChunkLocked(chunk)
		if err != nil {
			return err
		}
		total += len(records)
	}

	manifest := Manifest{
		Chunks:    chunks,
		Total:     total,
		UpdatedAt: time.Now(),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func (s *Store) readManifestLocked() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &manifest, nil
}

func (s *Store) listChunksLocked() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan store directory: %w", err)
	}
	chunks := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, chunkPrefix) && strings.HasSuffix(name, chunkSuffix) {
			chunks = append(chunks, name)
		}
	}
	sort.Strings(chunks)
	return chunks, nil
}

func (s *Store) removeChunksLocked() error {
	chunks, err := s.listChunksLocked()
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := os.Remove(filepath.Join(s.dir, chunk)); err != nil {
			return fmt.Errorf("failed to remove chunk %s: %w", chunk, err)
		}
	}
	return nil
}

func chunkName(index int) string {
	return fmt.Sprintf("%s%04d%s", chunkPrefix, index, chunkSuffix)
}

func chunkCount(records, batchSize int) int {
	if records == 0 {
		return 0
	}
	return (records + batchSize - 1) / batchSize
}
