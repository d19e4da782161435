// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/inframock/internal/log"
)

// Entry represents a cached artifact on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	ModTime    time.Time
}

// Cache is a flat, hashed-key file cache rooted at Base. The zero value is a
// disabled cache.
type Cache struct {
	Base    string
	Enabled bool
}

// FromEnv resolves the cache from the environment.
// Base precedence:
//  1. INFRAMOCK_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/inframock
//
// The cache is enabled unless INFRAMOCK_CACHE is "0" or "false", or no base
// can be resolved.
func FromEnv() Cache {
	enabled := true
	if v, ok := os.LookupEnv("INFRAMOCK_CACHE"); ok && (v == "0" || v == "false") {
		enabled = false
	}

	if c, ok := os.LookupEnv("INFRAMOCK_CACHE_DIR"); ok && c != "" {
		return Cache{Base: c, Enabled: enabled}
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return Cache{Base: filepath.Join(dir, "inframock"), Enabled: enabled}
	}
	return Cache{}
}

// EntryPath returns the path where an entry would live given subdirectory
// components and the clear-text key, and whether a file exists there.
func (c Cache) EntryPath(subdirs []string, clearKey string) (string, bool) {
	if c.Base == "" {
		return "", false
	}
	p := filepath.Join(append([]string{c.Base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Read returns the cached entry for clearKey, if any.
func (c Cache) Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !c.Enabled {
		return nil, false
	}
	p, ok := c.EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
		ModTime:    info.ModTime(),
	}, true
}

// Write stores data for clearKey beneath subdirs, creating directories as
// needed. A disabled cache silently accepts the write.
func (c Cache) Write(subdirs []string, clearKey string, data []byte) error {
	if !c.Enabled || c.Base == "" {
		return nil
	}
	dir := filepath.Join(append([]string{c.Base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache has no base, it is a no-op.
func (c Cache) Purge(hours int) error {
	if hours <= 0 || c.Base == "" {
		log.Debug("cache cleaning disabled")
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(c.Base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err == nil {
			log.Debugf("removed cache file %s", path)
		} else {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
