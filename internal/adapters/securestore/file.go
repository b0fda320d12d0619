// Package securestore keeps the session tokens in a passphrase-encrypted file.
package securestore

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"riconnect/internal/domain"
)

const (
	saltLen  = 16
	nonceLen = 24
	keyLen   = 32
)

var magic = []byte("RIC1")

// ErrDecrypt is returned when the file cannot be opened with the given passphrase.
var ErrDecrypt = errors.New("secure store: wrong passphrase or corrupt file")

// FileStore is a domain.SecureStore backed by a single file sealed with NaCl secretbox.
// The key is derived from the passphrase with Argon2id. Every write re-seals the whole
// file with a fresh nonce.
type FileStore struct {
	mu     sync.Mutex
	path   string
	salt   []byte
	key    [keyLen]byte
	values map[string]string
}

var _ domain.SecureStore = (*FileStore)(nil)

// Open loads the store at path, creating an empty one when the file does not exist.
func Open(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("secure store: passphrase is required: %w", domain.ErrInvalidInput)
	}
	s := &FileStore{path: path, values: map[string]string{}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.salt = make([]byte, saltLen)
		if _, err := rand.Read(s.salt); err != nil {
			return nil, fmt.Errorf("secure store: generate salt: %w", err)
		}
		s.key = deriveKey(passphrase, s.salt)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("secure store: read %s: %w", path, err)
	}

	if len(raw) < len(magic)+saltLen+nonceLen+secretbox.Overhead || !bytes.Equal(raw[:len(magic)], magic) {
		return nil, ErrDecrypt
	}
	raw = raw[len(magic):]
	s.salt = append([]byte(nil), raw[:saltLen]...)
	s.key = deriveKey(passphrase, s.salt)

	var nonce [nonceLen]byte
	copy(nonce[:], raw[saltLen:saltLen+nonceLen])
	plain, ok := secretbox.Open(nil, raw[saltLen+nonceLen:], &nonce, &s.key)
	if !ok {
		return nil, ErrDecrypt
	}
	if err := json.Unmarshal(plain, &s.values); err != nil {
		return nil, fmt.Errorf("secure store: decode: %w", err)
	}
	return s, nil
}

func deriveKey(passphrase string, salt []byte) [keyLen]byte {
	var key [keyLen]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, keyLen))
	return key
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

// flush seals the values and atomically replaces the file. Caller holds mu.
func (s *FileStore) flush() error {
	plain, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("secure store: encode: %w", err)
	}
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("secure store: generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltLen+nonceLen+len(plain)+secretbox.Overhead)
	out = append(out, magic...)
	out = append(out, s.salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, &s.key)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("secure store: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".securestore-*")
	if err != nil {
		return fmt.Errorf("secure store: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("secure store: chmod: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("secure store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("secure store: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("secure store: replace %s: %w", s.path, err)
	}
	return nil
}
