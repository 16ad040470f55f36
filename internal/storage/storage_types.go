package storage

import "crypto/cipher"

// Storage keeps the CLI's session and credentials on disk, sealed with
// AES-GCM under a per-installation key.
type Storage struct {
	basePath string
	aead     cipher.AEAD
}

type StoredCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}
