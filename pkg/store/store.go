// Package store keeps fetched hook repositories on disk so each repo@rev is
// downloaded at most once.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/hookcfg/command"
	"github.com/grovetools/hookcfg/errors"
	"github.com/grovetools/hookcfg/logging"
	"github.com/grovetools/hookcfg/pkg/paths"
	"github.com/grovetools/hookcfg/pkg/profiling"
	"github.com/grovetools/hookcfg/util/sanitize"
	"github.com/sirupsen/logrus"
)

// IndexFile is the name of the index kept at the store root.
const IndexFile = "repos.json"

var shorthandRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// Entry describes one checked-out repository revision.
type Entry struct {
	Repo      string    `json:"repo"`
	Rev       string    `json:"rev"`
	Path      string    `json:"path"`
	Commit    string    `json:"commit"`
	FetchedAt time.Time `json:"fetched_at"`
}

type index struct {
	Repos map[string]Entry `json:"repos"` // map[repo@rev]Entry
}

// Store manages the on-disk cache of hook repositories.
type Store struct {
	root      string
	indexPath string
	builder   *command.SafeBuilder
	logger    *logrus.Entry

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithExecutor runs git through exec instead of the real binary lookup.
func WithExecutor(exec command.Executor) Option {
	return func(s *Store) {
		s.builder = command.NewSafeBuilderWithExecutor(exec)
	}
}

// WithLogger sets the logger used for fetch progress.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New opens the store rooted at root, creating it if needed. An empty root
// selects paths.CacheDir().
func New(root string, opts ...Option) (*Store, error) {
	if root == "" {
		root = paths.CacheDir()
	}
	if root == "" {
		return nil, errors.New(errors.ErrCodeInternal, "cannot determine cache directory")
	}

	s := &Store{
		root:      root,
		indexPath: filepath.Join(root, IndexFile),
		builder:   command.NewSafeBuilder(),
		keyLocks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("store")
	}

	if err := os.MkdirAll(filepath.Join(root, "repos"), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Key returns the index key for a repository revision.
func Key(repo, rev string) string {
	return repo + "@" + rev
}

// RemoteURL expands a host-less owner/name shorthand to a GitHub URL. URLs,
// scp-style remotes and existing local paths are returned unchanged.
func RemoteURL(repo string) string {
	if strings.Contains(repo, "://") || strings.Contains(repo, "@") {
		return repo
	}
	if _, err := os.Stat(repo); err == nil {
		return repo
	}
	if shorthandRe.MatchString(repo) {
		return "https://github.com/" + repo
	}
	return repo
}

// Ensure returns the checkout of repo at rev, fetching it first if it is not
// already in the store.
func (s *Store) Ensure(ctx context.Context, repo, rev string) (Entry, error) {
	if err := s.builder.Validate("repoURL", repo); err != nil {
		return Entry{}, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid repository").
			WithDetail("repo", repo)
	}
	if err := s.builder.Validate("gitRef", rev); err != nil {
		return Entry{}, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid revision").
			WithDetail("repo", repo).
			WithDetail("rev", rev)
	}

	key := Key(repo, rev)
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if entry, ok, err := s.lookup(key); err != nil {
		return Entry{}, err
	} else if ok {
		s.logger.WithField("repo", key).Debug("Using cached repository")
		return entry, nil
	}

	dir := s.localPath(repo, rev)
	if err := os.RemoveAll(dir); err != nil {
		return Entry{}, fmt.Errorf("clearing stale checkout: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Entry{}, fmt.Errorf("creating checkout directory: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"repo": repo, "rev": rev}).Info("Fetching hook repository")
	span := profiling.Start("fetch " + key)
	commit, err := s.fetch(ctx, RemoteURL(repo), rev, dir)
	span.Stop()
	if err != nil {
		_ = os.RemoveAll(dir)
		if hookErr, ok := errors.As(err); ok {
			hookErr.WithDetail("repo", repo).WithDetail("rev", rev)
			return Entry{}, hookErr
		}
		return Entry{}, errors.FetchFailed(repo, err)
	}

	entry := Entry{
		Repo:      repo,
		Rev:       rev,
		Path:      dir,
		Commit:    commit,
		FetchedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.loadIndex()
	if err != nil {
		return Entry{}, err
	}
	idx.Repos[key] = entry
	if err := s.saveIndex(idx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Get returns the indexed entry for repo at rev without fetching.
func (s *Store) Get(repo, rev string) (Entry, bool, error) {
	return s.lookup(Key(repo, rev))
}

// List returns every indexed entry sorted by key.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(idx.Repos))
	for k := range idx.Repos {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, idx.Repos[k])
	}
	return entries, nil
}

// Clean removes every checkout and the index.
func (s *Store) Clean() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{"repos", IndexFile, IndexFile + ".bak"} {
		if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return os.MkdirAll(filepath.Join(s.root, "repos"), 0755)
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

func (s *Store) lookup(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndex()
	if err != nil {
		return Entry{}, false, err
	}
	entry, ok := idx.Repos[key]
	if !ok {
		return Entry{}, false, nil
	}
	if _, err := os.Stat(entry.Path); err != nil {
		// Checkout was removed behind our back; refetch.
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *Store) localPath(repo, rev string) string {
	hash := sha256.Sum256([]byte(Key(repo, rev)))
	dirName := fmt.Sprintf("%s_%s", sanitize.ForRepoDir(repo), hex.EncodeToString(hash[:])[:8])
	return filepath.Join(s.root, "repos", dirName)
}

func (s *Store) loadIndex() (*index, error) {
	idx := &index{Repos: make(map[string]Entry)}

	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s.loadFromBackup(idx)
		}
		return nil, fmt.Errorf("reading store index: %w", err)
	}

	if err := json.Unmarshal(data, idx); err != nil {
		s.logger.WithField("path", s.indexPath).Warn("Store index is corrupt, attempting to recover from backup")
		recovered, backupErr := s.loadFromBackup(&index{Repos: make(map[string]Entry)})
		if backupErr != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreCorrupt, "store index is corrupt and backup could not be loaded").
				WithDetail("path", s.indexPath)
		}
		return recovered, nil
	}
	if idx.Repos == nil {
		idx.Repos = make(map[string]Entry)
	}
	return idx, nil
}

// loadFromBackup loads the index from its backup and restores the main file.
func (s *Store) loadFromBackup(empty *index) (*index, error) {
	backupPath := s.indexPath + ".bak"
	backupData, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("reading backup index: %w", err)
	}

	backup := &index{Repos: make(map[string]Entry)}
	if err := json.Unmarshal(backupData, backup); err != nil {
		return nil, fmt.Errorf("unmarshaling backup index: %w", err)
	}
	if backup.Repos == nil {
		backup.Repos = make(map[string]Entry)
	}

	if err := os.WriteFile(s.indexPath, backupData, 0644); err != nil {
		s.logger.WithError(err).Warn("Failed to restore store index from backup")
	}
	return backup, nil
}

func (s *Store) saveIndex(idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store index: %w", err)
	}

	// 1. Write to a temporary file.
	tempFile, err := os.CreateTemp(s.root, "repos-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}

	successful := false
	defer func() {
		if !successful {
			os.Remove(tempFile.Name())
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("writing temp index file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("closing temp index file: %w", err)
	}

	// 2. Backup the existing index if it exists.
	backupPath := s.indexPath + ".bak"
	if _, err := os.Stat(s.indexPath); err == nil {
		if err := os.Rename(s.indexPath, backupPath); err != nil {
			return fmt.Errorf("backing up store index: %w", err)
		}
	}

	// 3. Atomically rename the temporary file to the final path.
	if err := os.Rename(tempFile.Name(), s.indexPath); err != nil {
		if _, backupErr := os.Stat(backupPath); backupErr == nil {
			os.Rename(backupPath, s.indexPath)
		}
		return fmt.Errorf("activating store index: %w", err)
	}

	successful = true
	return nil
}
