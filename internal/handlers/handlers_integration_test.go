package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelving/internal/handlers"
	"shelving/internal/middleware"
	"shelving/internal/repositories"
	"shelving/internal/services"
	"shelving/internal/store"
)

// setupApp wires a complete Fiber app over a temp-file store, the same way
// main does but without the broker and the paste service.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	st, err := store.Open(store.Config{Path: filepath.Join(dir, "storage.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	userRepo := repositories.NewGORMUserRepository(st)
	nodeRepo := repositories.NewGORMNodeRepository(st)
	blockRepo := repositories.NewGORMBlockRepository(st)
	recordRepo := repositories.NewGORMRecordRepository(st)
	noteRepo := repositories.NewGORMNoteRepository(st)

	authService := services.NewAuthService(userRepo, st, "test_jwt_secret")
	nodeService := services.NewNodeService(nodeRepo, st, nil)
	blockService := services.NewBlockService(blockRepo, st, nil)
	recordService := services.NewRecordService(recordRepo, st, nil)
	noteService := services.NewNoteService(noteRepo, st, nil)
	syncService := services.NewSyncService(st, nil, filepath.Join(dir, "jsonbin.key"), "")

	app := fiber.New()

	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	handlers.NewNodeHandler(nodeService).RegisterRoutes(protected)
	handlers.NewBlockHandler(blockService).RegisterRoutes(protected)
	handlers.NewRecordHandler(recordService).RegisterRoutes(protected)
	handlers.NewNoteHandler(noteService).RegisterRoutes(protected)
	handlers.NewSyncHandler(syncService).RegisterRoutes(protected)

	api.Use(handlers.NotFound)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func decodeList(t *testing.T, raw []byte) []map[string]interface{} {
	t.Helper()
	var l []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &l))
	return l
}

// registerAndLogin bootstraps the single operator and returns a session
// token.
func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()
	creds := map[string]string{"username": "admin", "password": "password123"}

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := decodeMap(t, raw)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)
	creds := map[string]string{"username": "admin", "password": "password123"}

	// Bootstrap registration succeeds once.
	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeMap(t, raw)["success"])

	// Any further registration fails closed, whatever the credentials.
	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "intruder", "password": "letmein99"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "registration is closed", decodeMap(t, raw)["error"])

	// Bad password.
	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid credentials", decodeMap(t, raw)["error"])

	// Good credentials; username matching is case-folded.
	resp, raw = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "ADMIN", "password": "password123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeMap(t, raw)["token"])

	// Missing fields are a validation error.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEntityRoutesRequireAuth(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/nodes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/records", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownAPIRoute(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/widgets", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", decodeMap(t, raw)["error"])
}

// TestShelvingScenario walks the canonical flow: rack, box, record, box
// move, record follow-up, cascade delete.
func TestShelvingScenario(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	// Create RACK-01 and find its docId.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/nodes", token, map[string]string{"nodeId": "RACK-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw := doJSON(t, app, http.MethodGet, "/api/nodes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nodes := decodeList(t, raw)
	require.Len(t, nodes, 1)
	assert.Equal(t, "RACK-01", nodes[0]["nodeId"])

	// Add BOX-01 to RACK-01.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/blocks", token,
		map[string]string{"blockId": "BOX-01", "nodeId": "RACK-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, raw = doJSON(t, app, http.MethodGet, "/api/blocks", token, nil)
	blocks := decodeList(t, raw)
	require.Len(t, blocks, 1)
	boxDocID := blocks[0]["docId"].(string)
	assert.Nil(t, blocks[0]["originNodeId"])

	// File a record into BOX-01 the way legacy clients do: labels only.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/records", token, map[string]interface{}{
		"fileNumber": "F1", "fileName": "FILE ONE", "fullName": "DOE, JOHN",
		"fileDate": "2024-02-01", "blockId": "BOX-01", "nodeId": "RACK-01",
		"blockDocId": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, raw = doJSON(t, app, http.MethodGet, "/api/records", token, nil)
	records := decodeList(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, "RACK-01", records[0]["nodeId"])
	assert.Equal(t, "BOX-01", records[0]["blockId"])

	// Move BOX-01 to a new rack RACK-02.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/nodes", token, map[string]string{"nodeId": "RACK-02"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPut, "/api/blocks/"+boxDocID+"/move", token,
		map[string]string{"targetNodeId": "RACK-02"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The box carries its origin label; the legacy record was adopted.
	_, raw = doJSON(t, app, http.MethodGet, "/api/blocks", token, nil)
	blocks = decodeList(t, raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, "RACK-02", blocks[0]["nodeId"])
	assert.Equal(t, "RACK-01", blocks[0]["originNodeId"])

	_, raw = doJSON(t, app, http.MethodGet, "/api/records", token, nil)
	records = decodeList(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, "RACK-02", records[0]["nodeId"])
	assert.Equal(t, boxDocID, records[0]["blockDocId"])

	// Moving a record to a box that does not exist fails without touching it.
	recordDocID := records[0]["docId"].(string)
	resp, raw = doJSON(t, app, http.MethodPut, "/api/records/"+recordDocID+"/move", token,
		map[string]string{"targetNodeId": "RACK-01", "targetBlockId": "no-such-box"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "block not found", decodeMap(t, raw)["error"])

	// Move the record into a second box for real.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/blocks", token,
		map[string]string{"blockId": "BOX-02", "nodeId": "RACK-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, raw = doJSON(t, app, http.MethodGet, "/api/blocks", token, nil)
	var box2DocID string
	for _, b := range decodeList(t, raw) {
		if b["blockId"] == "BOX-02" {
			box2DocID = b["docId"].(string)
		}
	}
	require.NotEmpty(t, box2DocID)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/records/"+recordDocID+"/move", token,
		map[string]string{"targetNodeId": "RACK-01", "targetBlockId": box2DocID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, raw = doJSON(t, app, http.MethodGet, "/api/records", token, nil)
	records = decodeList(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, "RACK-01", records[0]["nodeId"])
	assert.Equal(t, "BOX-02", records[0]["blockId"])
	assert.Equal(t, box2DocID, records[0]["blockDocId"])

	// Deleting RACK-01 takes its boxes and the record down with it.
	_, raw = doJSON(t, app, http.MethodGet, "/api/nodes", token, nil)
	var rack1DocID string
	for _, n := range decodeList(t, raw) {
		if n["nodeId"] == "RACK-01" {
			rack1DocID = n["docId"].(string)
		}
	}
	require.NotEmpty(t, rack1DocID)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/nodes/"+rack1DocID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw = doJSON(t, app, http.MethodGet, "/api/records", token, nil)
	assert.Empty(t, decodeList(t, raw))
	_, raw = doJSON(t, app, http.MethodGet, "/api/blocks", token, nil)
	blocks = decodeList(t, raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, "RACK-02", blocks[0]["nodeId"])
}

func TestMoveUnknownBlock(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp, raw := doJSON(t, app, http.MethodPut, "/api/blocks/no-such-box/move", token,
		map[string]string{"targetNodeId": "RACK-02"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "block not found", decodeMap(t, raw)["error"])
}

func TestNotesLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/notes", token,
		map[string]string{"text": "CHECK AISLE 4", "time": "09:15"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw := doJSON(t, app, http.MethodGet, "/api/notes", token, nil)
	notes := decodeList(t, raw)
	require.Len(t, notes, 1)
	assert.Equal(t, "CHECK AISLE 4", notes[0]["text"])

	noteDocID := notes[0]["docId"].(string)
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/notes/"+noteDocID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw = doJSON(t, app, http.MethodGet, "/api/notes", token, nil)
	assert.Empty(t, decodeList(t, raw))
}

func TestCreateValidation(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	// A record without its required fields is rejected.
	resp, raw := doJSON(t, app, http.MethodPost, "/api/records", token,
		map[string]string{"fileName": "NO NUMBER"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation failed", decodeMap(t, raw)["error"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/nodes", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackupAndRestore(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/nodes", token, map[string]string{"nodeId": "RACK-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Export produces a dated backup file.
	resp, backup := doJSON(t, app, http.MethodGet, "/api/backup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "STORAGE_SYSTEM_BACKUP_")
	require.NotEmpty(t, backup)

	// Garbage is rejected as a restore payload.
	req := httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewReader([]byte("junk")))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The exported image restores cleanly.
	req = httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewReader(backup))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw := doJSON(t, app, http.MethodGet, "/api/nodes", token, nil)
	nodes := decodeList(t, raw)
	require.Len(t, nodes, 1)
	assert.Equal(t, "RACK-01", nodes[0]["nodeId"])
}
