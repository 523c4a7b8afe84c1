package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"

	"github.com/nhle/workstatus/internal/source"
)

// Config controls where credentials are looked up.
type Config struct {
	// ServiceName is the keyring service the tokens are stored under.
	ServiceName string

	// FileDir is used by the encrypted-file fallback backend.
	FileDir string

	// EnvPrefix, when set, lets PREFIX_<KEY> environment variables
	// override keyring entries (e.g. WORKSTATUS_GITHUB_TOKEN).
	EnvPrefix string
}

// Opener opens the backing keyring. Tests substitute an in-memory one.
type Opener func(cfg Config) (keyring.Keyring, error)

// Store reads and writes tokens. It is built once from a Config and
// handed to each source client.
type Store struct {
	cfg    Config
	open   Opener
	lookup func(string) (string, bool)
}

// NewStore returns a Store backed by the system keyring.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, open: openKeyring, lookup: os.LookupEnv}
}

// NewStoreWithOpener returns a Store backed by the given keyring opener.
func NewStoreWithOpener(cfg Config, open Opener) *Store {
	return &Store{cfg: cfg, open: open, lookup: os.LookupEnv}
}

// openKeyring returns a configured keyring instance.
func openKeyring(cfg Config) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: cfg.ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  cfg.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(cfg.ServiceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// envName maps a credential key such as "github-token" to
// WORKSTATUS_GITHUB_TOKEN.
func (s *Store) envName(key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	return strings.ToUpper(s.cfg.EnvPrefix) + "_" + name
}

// Get retrieves a credential value by key. A missing or empty credential
// is reported as a *source.ConfigError with remediation text.
func (s *Store) Get(key string) (string, error) {
	if s.cfg.EnvPrefix != "" {
		if v, ok := s.lookup(s.envName(key)); ok && v != "" {
			return v, nil
		}
	}

	ring, err := s.open(s.cfg)
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) || (err == nil && len(item.Data) == 0) {
		return "", s.missing(key)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// missing builds the configuration fault for an absent credential.
func (s *Store) missing(key string) error {
	remediation := fmt.Sprintf(
		"credential %q is not set; run `workstatus login`", key,
	)
	if s.cfg.EnvPrefix != "" {
		remediation += fmt.Sprintf(" or export %s", s.envName(key))
	}
	return &source.ConfigError{Key: key, Remediation: remediation}
}

// Set stores a credential value by key in the keyring.
func (s *Store) Set(key string, value string) error {
	ring, err := s.open(s.cfg)
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the keyring.
func (s *Store) Delete(key string) error {
	ring, err := s.open(s.cfg)
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// TokenSource returns a source.TokenSource that reads key on every call.
func (s *Store) TokenSource(key string) source.TokenSource {
	return keyToken{store: s, key: key}
}

type keyToken struct {
	store *Store
	key   string
}

func (k keyToken) Token(context.Context) (string, error) {
	return k.store.Get(k.key)
}
