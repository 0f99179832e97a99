// Package credstore persists the bearer session on the device. The snapshot
// is encrypted at rest with a per-install key so that a copied app-data
// directory does not leak a usable token.
package credstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/talentlink/appcore/internal/core/domain"
)

const (
	sessionFile = "session.bin"
	keyFile     = "session.key"

	keySize   = 32
	nonceSize = 24
)

var errCorrupt = errors.New("credstore: session file corrupt")

// snapshot is the single on-disk record. Writing credentials and the user
// snapshot as one blob is what makes Clear atomic from the reader's view.
type snapshot struct {
	Token  string       `json:"token"`
	UserID string       `json:"user_id"`
	User   *domain.User `json:"user,omitempty"`
}

// FileStore implements ports.CredentialStore on the local filesystem.
type FileStore struct {
	mu  sync.Mutex
	dir string
	key [keySize]byte
	log zerolog.Logger
}

// NewFileStore opens (or initialises) the store under dir. The encryption
// key is created on first use and never leaves the directory.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credstore: create dir: %w", err)
	}

	s := &FileStore{dir: dir, log: log}
	if err := s.loadOrCreateKey(); err != nil {
		return nil, err
	}
	return s, nil
}

// Store writes the (token, id) pair together. Partial pairs are rejected so
// a token can never be persisted without the identity it belongs to.
func (s *FileStore) Store(ctx context.Context, token, userID string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("credstore: refusing partial write (token=%t id=%t)", token != "", userID != "")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		// A corrupt file is overwritten rather than blocking a fresh login.
		s.log.Warn().Err(err).Msg("credstore: discarding unreadable session file")
		snap = snapshot{}
	}
	snap.Token = token
	snap.UserID = userID
	return s.save(snap)
}

// Read returns the persisted credentials, or domain.ErrNoSession when the
// device has none. Honors ctx cancellation before touching the disk.
func (s *FileStore) Read(ctx context.Context) (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	if snap.Token == "" || snap.UserID == "" {
		return domain.Credentials{}, domain.ErrNoSession
	}
	return domain.Credentials{Token: snap.Token, UserID: snap.UserID}, nil
}

// Clear removes the session file. Removing the single blob clears token,
// id, and snapshot in one step; there is no intermediate half-cleared state.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: clear: %w", err)
	}
	return nil
}

// SaveUser persists the hydration snapshot alongside the credentials.
func (s *FileStore) SaveUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return err
	}
	snap.User = user.Clone()
	return s.save(snap)
}

// LoadUser returns the persisted snapshot, or nil when none exists.
func (s *FileStore) LoadUser(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap.User.Clone(), nil
}

func (s *FileStore) loadOrCreateKey() error {
	path := filepath.Join(s.dir, keyFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		if len(raw) != keySize {
			return fmt.Errorf("credstore: key file has %d bytes, want %d", len(raw), keySize)
		}
		copy(s.key[:], raw)
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("credstore: read key: %w", err)
	}

	if _, err := io.ReadFull(rand.Reader, s.key[:]); err != nil {
		return fmt.Errorf("credstore: generate key: %w", err)
	}
	if err := os.WriteFile(path, s.key[:], 0o600); err != nil {
		return fmt.Errorf("credstore: write key: %w", err)
	}
	return nil
}

func (s *FileStore) load(ctx context.Context) (snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot{}, err
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if os.IsNotExist(err) {
		return snapshot{}, domain.ErrNoSession
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("credstore: read session: %w", err)
	}

	if len(raw) < nonceSize+secretbox.Overhead {
		return snapshot{}, errCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return snapshot{}, errCorrupt
	}

	var snap snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return snapshot{}, errCorrupt
	}
	return snap, nil
}

// save seals and writes the snapshot via a temp file + rename so the session
// file on disk is always either the old blob or the new one, never a mix.
func (s *FileStore) save(snap snapshot) error {
	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("credstore: encode session: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("credstore: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)

	tmp, err := os.CreateTemp(s.dir, sessionFile+".*")
	if err != nil {
		return fmt.Errorf("credstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(sealed); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: chmod: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, sessionFile)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: rename: %w", err)
	}
	return nil
}
