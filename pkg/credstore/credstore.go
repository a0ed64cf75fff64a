package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/samvad-console-client/pkg/restclient"
)

// Package credstore persists API credentials locally so token resolvers can
// read them on every call without the application holding them in memory.

const tokenBucket = "tokens"

// Store is a BoltDB-backed credential store keyed by profile id.
type Store struct {
	db *bolt.DB
}

// Open initializes the store at path, creating parent directories as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("credential store requires a path")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create credential store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(tokenBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init token bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetToken stores the bearer token for a profile.
func (s *Store) SetToken(profile, token string) error {
	key, err := profileKey(profile)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}
		return bucket.Put(key, []byte(token))
	})
}

// Token returns the stored bearer token for a profile, or an empty string
// when none is stored.
func (s *Store) Token(profile string) (string, error) {
	key, err := profileKey(profile)
	if err != nil {
		return "", err
	}
	var token string
	err = s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}
		token = string(bucket.Get(key))
		return nil
	})
	return token, err
}

// DeleteToken removes the stored token for a profile.
func (s *Store) DeleteToken(profile string) error {
	key, err := profileKey(profile)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenBucket))
		if bucket == nil {
			return fmt.Errorf("token bucket missing")
		}
		return bucket.Delete(key)
	})
}

// TokenResolver adapts the store to the restclient resolver boundary: the
// executor calls it on every request, so a token written after login is
// picked up without rebuilding the client.
func (s *Store) TokenResolver(profile string) func(context.Context, *restclient.Descriptor) (string, error) {
	return func(context.Context, *restclient.Descriptor) (string, error) {
		return s.Token(profile)
	}
}

func profileKey(profile string) ([]byte, error) {
	profile = strings.TrimSpace(strings.ToLower(profile))
	if profile == "" {
		return nil, fmt.Errorf("profile id is empty")
	}
	return []byte(profile), nil
}
