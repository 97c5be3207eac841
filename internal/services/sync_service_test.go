package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelving/internal/apperr"
	"shelving/internal/services"
	"shelving/internal/store"
	"shelving/pkg/jsonbin"
)

func newSyncFixture(t *testing.T, binServer *httptest.Server) (*services.SyncService, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(store.Config{Path: filepath.Join(dir, "storage.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var bins *jsonbin.Client
	if binServer != nil {
		bins = jsonbin.NewClient(binServer.URL)
	}
	keyFile := filepath.Join(dir, "jsonbin.key")
	return services.NewSyncService(st, bins, keyFile, "https://shelving.example/app"), keyFile
}

func TestSyncService_ExportNamesBackupByDate(t *testing.T) {
	svc, _ := newSyncFixture(t, nil)

	filename, data, err := svc.ExportImage()
	require.NoError(t, err)
	assert.Regexp(t, `^STORAGE_SYSTEM_BACKUP_\d{4}-\d{2}-\d{2}\.db$`, filename)
	assert.NotEmpty(t, data)
	assert.NoError(t, store.ValidateImage(data))
}

func TestSyncService_ShareRemembersKeyAndBuildsLink(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Master-Key")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"metadata": map[string]string{"id": "bin-123"},
		})
	}))
	defer server.Close()

	svc, keyFile := newSyncFixture(t, server)

	binID, shareURL, err := svc.Share(context.Background(), " master-key ")
	require.NoError(t, err)
	assert.Equal(t, "bin-123", binID)
	assert.Equal(t, "https://shelving.example/app?sync_id=bin-123", shareURL)
	assert.Equal(t, "master-key", gotKey)

	// The key was remembered; a second share needs no key in the request.
	_, _, err = svc.Share(context.Background(), "")
	require.NoError(t, err)

	saved, err := os.ReadFile(keyFile)
	require.NoError(t, err)
	assert.Equal(t, "master-key", string(saved))
}

func TestSyncService_ShareWithoutKeyFails(t *testing.T) {
	svc, _ := newSyncFixture(t, nil)

	_, _, err := svc.Share(context.Background(), "")
	require.Error(t, err)
	status, msg := apperr.Status(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "api key required", msg)
}

func TestSyncService_BadKeyIsForgotten(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc, keyFile := newSyncFixture(t, server)

	_, _, err := svc.Share(context.Background(), "stale-key")
	require.Error(t, err)
	status, msg := apperr.Status(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid master key", msg)

	// The rejected key must be cleared so the next attempt re-prompts.
	_, statErr := os.Stat(keyFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSyncService_ImportRejectsGarbage(t *testing.T) {
	svc, _ := newSyncFixture(t, nil)

	err := svc.ImportImage([]byte("junk"))
	require.Error(t, err)
	status, _ := apperr.Status(err)
	assert.Equal(t, http.StatusBadRequest, status)
}
