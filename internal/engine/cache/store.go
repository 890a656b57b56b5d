package cache

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/cellscope/internal/scenario"
)

const (
	fileExtension = ".json"
	bytesPerMB    = 1 << 20
)

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Options configures a Store.
type Options struct {
	Dir        string
	Enabled    bool
	TTLSeconds int
	MaxSizeMB  int
}

// DefaultOptions returns an enabled cache rooted at dir.
func DefaultOptions(dir string) Options {
	return Options{
		Dir:        dir,
		Enabled:    true,
		TTLSeconds: DefaultTTLSeconds,
		MaxSizeMB:  DefaultMaxSizeMB,
	}
}

// Store is a directory of JSON entry files. It is safe for concurrent use.
type Store struct {
	dir      string
	enabled  bool
	ttl      int
	maxBytes int64
	now      func() time.Time

	mu sync.RWMutex
}

// Open prepares a Store. A disabled store is returned without touching the
// filesystem; all its operations return ErrDisabled.
func Open(opts Options) (*Store, error) {
	if !opts.Enabled {
		return &Store{now: time.Now}, nil
	}
	if opts.Dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if opts.TTLSeconds == 0 {
		opts.TTLSeconds = DefaultTTLSeconds
	}
	if err := ValidateTTL(opts.TTLSeconds); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{
		dir:      opts.Dir,
		enabled:  true,
		ttl:      opts.TTLSeconds,
		maxBytes: int64(opts.MaxSizeMB) * bytesPerMB,
		now:      time.Now,
	}, nil
}

// Enabled reports whether the store caches anything.
func (s *Store) Enabled() bool { return s.enabled }

// Dir is the cache directory, empty when disabled.
func (s *Store) Dir() string { return s.dir }

// TTL is the lifetime given to new entries.
func (s *Store) TTL() time.Duration { return time.Duration(s.ttl) * time.Second }

// Get returns the live entry for key. Expired entries are removed and
// reported as ErrExpired.
func (s *Store) Get(key string) (*Entry, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	path := s.path(key)
	s.mu.RLock()
	entry, err := readEntry(path)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if entry.ExpiredAt(s.now()) {
		_ = s.Delete(key)
		return nil, ErrExpired
	}
	return entry, nil
}

// Put stores res under key with a fresh run ID and returns the new entry.
// When the directory grows past its size limit the oldest entries are
// evicted.
func (s *Store) Put(key, fingerprint string, res *scenario.Result) (*Entry, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("cannot cache a nil result")
	}

	now := s.now()
	runID := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	entry := newEntry(key, runID, fingerprint, res, now, s.ttl)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("renaming cache file: %w", err)
	}

	if s.maxBytes > 0 {
		if err := s.evictLocked(path); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Delete removes key. Missing entries are not an error.
func (s *Store) Delete(key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return i, fmt.Errorf("removing %s: %w", filepath.Base(f.path), err)
		}
	}
	return len(files), nil
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (s *Store) Prune() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return 0, err
	}
	now := s.now()
	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr == nil && !entry.ExpiredAt(now) {
			continue
		}
		if os.Remove(f.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats summarizes the cache directory.
type Stats struct {
	Dir     string        `json:"dir"`
	Enabled bool          `json:"enabled"`
	TTL     time.Duration `json:"ttl"`
	Entries int           `json:"entries"`
	Expired int           `json:"expired"`
	Bytes   int64         `json:"bytes"`
}

// Stats reads every entry to count expired ones.
func (s *Store) Stats() (Stats, error) {
	st := Stats{Dir: s.dir, Enabled: s.enabled, TTL: s.TTL()}
	if !s.enabled {
		return st, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.listLocked()
	if err != nil {
		return st, err
	}
	now := s.now()
	for _, f := range files {
		st.Entries++
		st.Bytes += f.size
		if entry, readErr := readEntry(f.path); readErr != nil || entry.ExpiredAt(now) {
			st.Expired++
		}
	}
	return st, nil
}

func (s *Store) check(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}

func (s *Store) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+fileExtension)
}

type entryFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *Store) listLocked() ([]entryFile, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	files := make([]entryFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExtension {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, entryFile{
			path:    filepath.Join(s.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// evictLocked drops the oldest entries until the directory fits maxBytes.
// keep is never evicted.
func (s *Store) evictLocked(keep string) error {
	files, err := s.listLocked()
	if err != nil {
		return err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= s.maxBytes {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= s.maxBytes {
			break
		}
		if f.path == keep {
			continue
		}
		if os.Remove(f.path) == nil {
			total -= f.size
		}
	}
	return nil
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &entry, nil
}
