package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout/session"
)

const (
	SessionDir      = ".local/go-helpscout-cli/db"
	SessionFile     = "session.enc"
	KeyFile         = ".key"
	CredentialsFile = "credentials.enc"

	keySize = 32
)

var ErrEmptySession = errors.New("refusing to save a session without an access token")

// NewSessionStorage opens the storage under the user's home directory.
func NewSessionStorage() (*Storage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewStorage(filepath.Join(homeDir, SessionDir))
}

// NewStorage opens the storage rooted at basePath, creating the directory
// and the AES-256 key on first use.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, errors.New("storage path is empty")
	}

	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	key, err := loadOrGenerateKey(filepath.Join(basePath, KeyFile))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Storage{basePath: basePath, aead: aead}, nil
}

func loadOrGenerateKey(keyPath string) ([]byte, error) {
	key, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		if len(key) != keySize {
			return nil, fmt.Errorf("encryption key %s has %d bytes, want %d", keyPath, len(key), keySize)
		}
		return key, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read encryption key: %w", err)
	}

	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.WriteFile(keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to save encryption key: %w", err)
	}

	return key, nil
}

func (s *Storage) GetBasePath() string {
	return s.basePath
}

func (s *Storage) SaveSession(stored *session.Session) error {
	if stored == nil || stored.AccessToken == "" {
		return ErrEmptySession
	}
	return s.writeEncrypted(SessionFile, stored)
}

// LoadSession returns nil, nil when no session has been saved.
func (s *Storage) LoadSession() (*session.Session, error) {
	var stored session.Session
	found, err := s.readEncrypted(SessionFile, &stored)
	if err != nil || !found {
		return nil, err
	}
	return &stored, nil
}

func (s *Storage) HasSession() bool {
	return s.exists(SessionFile)
}

func (s *Storage) DeleteSession() error {
	return s.remove(SessionFile)
}

func (s *Storage) SaveCredentials(clientID, clientSecret string) error {
	return s.writeEncrypted(CredentialsFile, &StoredCredentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// LoadCredentials returns nil, nil when no credentials have been saved.
func (s *Storage) LoadCredentials() (*StoredCredentials, error) {
	var creds StoredCredentials
	found, err := s.readEncrypted(CredentialsFile, &creds)
	if err != nil || !found {
		return nil, err
	}
	return &creds, nil
}

func (s *Storage) HasCredentials() bool {
	return s.exists(CredentialsFile)
}

func (s *Storage) DeleteCredentials() error {
	return s.remove(CredentialsFile)
}

func (s *Storage) writeEncrypted(name string, v any) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, []byte(name))

	if err := os.WriteFile(filepath.Join(s.basePath, name), sealed, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// readEncrypted decrypts name into v. found is false when the file does not
// exist.
func (s *Storage) readEncrypted(name string, v any) (found bool, err error) {
	sealed, err := os.ReadFile(filepath.Join(s.basePath, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	n := s.aead.NonceSize()
	if len(sealed) < n {
		return false, fmt.Errorf("failed to decrypt %s: ciphertext too short", name)
	}

	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], []byte(name))
	if err != nil {
		return false, fmt.Errorf("failed to decrypt %s: %w", name, err)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}

func (s *Storage) exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, name))
	return err == nil
}

func (s *Storage) remove(name string) error {
	err := os.Remove(filepath.Join(s.basePath, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
