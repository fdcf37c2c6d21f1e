package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"modelstash.io/cli/internal/core/domain"
)

// FileCredentialStore persists the token pair in an encrypted file. The key
// is derived from machine identity, so the file is useless when copied to
// another host.
type FileCredentialStore struct {
	path       string
	encryptKey []byte
	mu         sync.RWMutex
}

// NewFileCredentialStore creates a store rooted at dir, creating it if
// needed. Pass "" to use the default location under the user home directory.
func NewFileCredentialStore(dir string) (*FileCredentialStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "stash")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	return &FileCredentialStore{
		path:       filepath.Join(dir, ".credentials"),
		encryptKey: machineKey(),
	}, nil
}

// AccessToken returns the stored access token, or "" when none exists.
func (s *FileCredentialStore) AccessToken() (string, error) {
	pair, err := s.read()
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// RefreshToken returns the stored refresh token, or "" when none exists.
func (s *FileCredentialStore) RefreshToken() (string, error) {
	pair, err := s.read()
	if err != nil {
		return "", err
	}
	return pair.RefreshToken, nil
}

// SetTokens replaces both tokens in a single write.
func (s *FileCredentialStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(domain.TokenPair{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	encrypted, err := s.encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(s.path, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}

// Clear removes all stored credentials. Clearing an empty store is not an
// error.
func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) read() (domain.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TokenPair{}, nil
		}
		return domain.TokenPair{}, fmt.Errorf("failed to read credential file: %w", err)
	}

	decrypted, err := s.decrypt(data)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(decrypted, &pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return pair, nil
}

func (s *FileCredentialStore) encrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func (s *FileCredentialStore) decrypt(data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// machineKey derives an encryption key from machine-specific identity.
func machineKey() []byte {
	hostname, _ := os.Hostname()
	homeDir, _ := os.UserHomeDir()

	h := sha256.New()
	h.Write([]byte("modelstash-cli"))
	h.Write([]byte(hostname))
	h.Write([]byte(homeDir))
	h.Write([]byte(runtime.GOOS))

	if machineID, err := os.ReadFile("/etc/machine-id"); err == nil {
		h.Write(machineID)
	}

	return h.Sum(nil)
}

// MemoryCredentialStore is an in-memory store for tests and ephemeral use.
type MemoryCredentialStore struct {
	mu   sync.RWMutex
	pair domain.TokenPair
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// AccessToken returns the stored access token, or "" when none exists.
func (s *MemoryCredentialStore) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.AccessToken, nil
}

// RefreshToken returns the stored refresh token, or "" when none exists.
func (s *MemoryCredentialStore) RefreshToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.RefreshToken, nil
}

// SetTokens replaces both tokens in a single write.
func (s *MemoryCredentialStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = domain.TokenPair{AccessToken: access, RefreshToken: refresh}
	return nil
}

// Clear removes all stored credentials.
func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = domain.TokenPair{}
	return nil
}
