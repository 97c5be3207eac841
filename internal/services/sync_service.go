package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shelving/internal/apperr"
	"shelving/internal/store"
	"shelving/pkg/jsonbin"
)

// SyncService handles image backup, restore, and cloud sharing.
type SyncService struct {
	store     *store.Store
	bins      *jsonbin.Client
	keyFile   string
	shareBase string
}

// NewSyncService creates a new SyncService. keyFile is where the paste
// service master key is remembered between shares; shareBase, when set, is
// the URL prefix for generated share links.
func NewSyncService(s *store.Store, bins *jsonbin.Client, keyFile, shareBase string) *SyncService {
	return &SyncService{store: s, bins: bins, keyFile: keyFile, shareBase: shareBase}
}

// ExportImage returns the serialized image together with the conventional
// backup filename.
func (s *SyncService) ExportImage() (string, []byte, error) {
	data, err := s.store.Export()
	if err != nil {
		return "", nil, err
	}
	filename := fmt.Sprintf("STORAGE_SYSTEM_BACKUP_%s.db", time.Now().Format("2006-01-02"))
	return filename, data, nil
}

// ImportImage replaces the live image with an uploaded backup. The store
// rejects anything that is not a well-formed image.
func (s *SyncService) ImportImage(data []byte) error {
	return s.store.Import(data)
}

// Share uploads the current image to the paste service and returns the bin
// id plus a ready share link. The master key comes from the request when
// supplied (and is remembered for next time), otherwise from the key file.
// A rejected key is forgotten so the next attempt re-prompts.
func (s *SyncService) Share(ctx context.Context, apiKey string) (string, string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = s.storedKey()
	} else {
		s.rememberKey(apiKey)
	}
	if apiKey == "" {
		return "", "", apperr.Invalid("api key required")
	}

	data, err := s.store.Export()
	if err != nil {
		return "", "", err
	}

	binID, err := s.bins.Upload(ctx, apiKey, data)
	if err != nil {
		if errors.Is(err, jsonbin.ErrBadKey) {
			s.forgetKey()
			return "", "", apperr.Unauthorized("invalid master key")
		}
		return "", "", err
	}

	shareURL := ""
	if s.shareBase != "" {
		shareURL = fmt.Sprintf("%s?sync_id=%s", s.shareBase, binID)
	}
	return binID, shareURL, nil
}

func (s *SyncService) storedKey() string {
	if s.keyFile == "" {
		return ""
	}
	data, err := os.ReadFile(s.keyFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *SyncService) rememberKey(apiKey string) {
	if s.keyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.keyFile), 0o755); err != nil {
		log.Printf("Warning: failed to create key directory: %v", err)
		return
	}
	if err := os.WriteFile(s.keyFile, []byte(apiKey), 0o600); err != nil {
		log.Printf("Warning: failed to remember api key: %v", err)
	}
}

func (s *SyncService) forgetKey() {
	if s.keyFile == "" {
		return
	}
	if err := os.Remove(s.keyFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to clear api key: %v", err)
	}
}
