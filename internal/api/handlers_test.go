package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scai-digital/cascade/internal/config"
	"github.com/scai-digital/cascade/internal/documents"
	"github.com/scai-digital/cascade/internal/export"
	"github.com/scai-digital/cascade/internal/store"
	"github.com/scai-digital/cascade/internal/types"
)

const testAPIKey = "test-api-key"

type testEnv struct {
	server  *httptest.Server
	store   store.Store
	handler *Handler
}

// newTestEnv wires a full router over a fresh SQLite store, a fake document
// backend, and a fake LLM gateway.
func newTestEnv(t *testing.T, docsHandler, gatewayHandler http.HandlerFunc) *testEnv {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if docsHandler == nil {
		docsHandler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unexpected call", http.StatusInternalServerError)
		}
	}
	docsServer := httptest.NewServer(docsHandler)
	t.Cleanup(docsServer.Close)

	gatewayCfg := config.GatewayConfig{}
	if gatewayHandler != nil {
		gatewayServer := httptest.NewServer(gatewayHandler)
		t.Cleanup(gatewayServer.Close)
		gatewayCfg = config.GatewayConfig{BaseURL: gatewayServer.URL, APIKey: "gw-secret"}
	}

	h := NewHandler(s, export.New(nil), documents.New(docsServer.URL), gatewayCfg, testAPIKey, "test")
	server := httptest.NewServer(NewRouter(h))
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: s, handler: h}
}

// request performs an authenticated request against the test server and
// decodes the JSON response body into out, when out is non-nil.
func (e *testEnv) request(t *testing.T, method, path string, body io.Reader, out any) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

// newMultipart writes a single-file multipart form into buf and returns the
// Content-Type header value for it.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename string, data []byte) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return mw.FormDataContentType()
}

func (e *testEnv) rows(t *testing.T, table string) rowsResponse {
	t.Helper()
	var resp rowsResponse
	e.request(t, http.MethodGet, "/api/v1/tables/"+table+"/rows", nil, &resp)
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp, err := http.Get(env.server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.RowCount["goals"] == 0 || health.RowCount["kpi"] == 0 {
		t.Errorf("rowCount = %v, want seeded rows in both tables", health.RowCount)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp, err := http.Get(env.server.URL + "/api/v1/tables/goals/rows")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestListRows(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.rows(t, "goals")
	if len(resp.Rows) == 0 {
		t.Fatal("expected seeded rows")
	}
	if resp.PageSize != 20 {
		t.Errorf("pageSize = %d, want 20", resp.PageSize)
	}
	if resp.Editing != nil {
		t.Errorf("editing = %+v, want nil", resp.Editing)
	}
}

func TestListRows_UnknownTable(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodGet, "/api/v1/tables/budgets/rows", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListRows_InvalidSort(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var problem Problem
	resp := env.request(t, http.MethodGet, "/api/v1/tables/goals/rows?sort=color", nil, &problem)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestEditFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rowID := env.rows(t, "goals").Rows[0].ID

	resp := env.request(t, http.MethodPost, "/api/v1/tables/goals/rows/"+rowID+"/edit", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start edit status = %d, want 200", resp.StatusCode)
	}

	// The draft accepts cell updates without touching the stored row.
	body := strings.NewReader(`{"field":"goal","value":"Новая цель"}`)
	var draft types.GoalRow
	resp = env.request(t, http.MethodPatch, "/api/v1/tables/goals/edit", body, &draft)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", resp.StatusCode)
	}
	if draft.Goal != "Новая цель" {
		t.Errorf("draft goal = %q", draft.Goal)
	}

	// The same view is still served, and carries the editing state.
	listResp := env.rows(t, "goals")
	if listResp.Editing == nil || listResp.Editing.RowID != rowID {
		t.Fatalf("editing = %+v, want row %s", listResp.Editing, rowID)
	}
	if listResp.Editing.Draft.Goal != "Новая цель" {
		t.Errorf("editing draft goal = %q", listResp.Editing.Draft.Goal)
	}

	// A different view is refused while the edit is active.
	resp = env.request(t, http.MethodGet, "/api/v1/tables/goals/rows?name=Иванов", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("filtered list status = %d, want 409", resp.StatusCode)
	}

	// A second edit is refused too.
	otherID := env.rows(t, "goals").Rows[1].ID
	resp = env.request(t, http.MethodPost, "/api/v1/tables/goals/rows/"+otherID+"/edit", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second edit status = %d, want 409", resp.StatusCode)
	}

	var committed types.GoalRow
	resp = env.request(t, http.MethodPost, "/api/v1/tables/goals/edit/commit", nil, &committed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit status = %d, want 200", resp.StatusCode)
	}
	if committed.Goal != "Новая цель" {
		t.Errorf("committed goal = %q", committed.Goal)
	}

	// After commit the change is persisted and the view is unpinned.
	listResp = env.rows(t, "goals")
	if listResp.Editing != nil {
		t.Errorf("editing after commit = %+v, want nil", listResp.Editing)
	}
	found := false
	for _, row := range listResp.Rows {
		if row.ID == rowID {
			found = true
			if row.Goal != "Новая цель" {
				t.Errorf("stored goal = %q", row.Goal)
			}
		}
	}
	if !found {
		t.Error("edited row missing from list")
	}
}

func TestEditFlow_Cancel(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rowID := env.rows(t, "kpi").Rows[0].ID
	original := env.rows(t, "kpi").Rows[0].Goal

	env.request(t, http.MethodPost, "/api/v1/tables/kpi/rows/"+rowID+"/edit", nil, nil)
	env.request(t, http.MethodPatch, "/api/v1/tables/kpi/edit",
		strings.NewReader(`{"field":"goal","value":"отменить"}`), nil)

	resp := env.request(t, http.MethodPost, "/api/v1/tables/kpi/edit/cancel", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status = %d, want 204", resp.StatusCode)
	}

	if got := env.rows(t, "kpi").Rows[0].Goal; got != original {
		t.Errorf("goal after cancel = %q, want %q", got, original)
	}
}

func TestCancelEdit_NoActiveEdit(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodPost, "/api/v1/tables/goals/edit/cancel", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestUpdateEdit_UnknownField(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rowID := env.rows(t, "goals").Rows[0].ID
	env.request(t, http.MethodPost, "/api/v1/tables/goals/rows/"+rowID+"/edit", nil, nil)

	resp := env.request(t, http.MethodPatch, "/api/v1/tables/goals/edit",
		strings.NewReader(`{"field":"salary","value":"1"}`), nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCreateRow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	before := env.rows(t, "goals").TotalCount

	var created createRowResponse
	resp := env.request(t, http.MethodPost, "/api/v1/tables/goals/rows", nil, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if created.Row.ID == "" {
		t.Error("created row has no id")
	}
	if created.Row.Goal != "" || created.Row.LastName != "" {
		t.Errorf("created row is not blank: %+v", created.Row)
	}

	// The new row starts in editing state on its page.
	listResp := env.rows(t, "goals")
	if listResp.Editing == nil || listResp.Editing.RowID != created.Row.ID {
		t.Fatalf("editing = %+v, want new row", listResp.Editing)
	}
	if listResp.TotalCount != before+1 {
		t.Errorf("totalCount = %d, want %d", listResp.TotalCount, before+1)
	}

	env.request(t, http.MethodPost, "/api/v1/tables/goals/edit/cancel", nil, nil)
}

func TestDeleteRow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	first := env.rows(t, "goals")
	rowID := first.Rows[0].ID

	resp := env.request(t, http.MethodDelete, "/api/v1/tables/goals/rows/"+rowID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	after := env.rows(t, "goals")
	if after.TotalCount != first.TotalCount-1 {
		t.Errorf("totalCount = %d, want %d", after.TotalCount, first.TotalCount-1)
	}
	for _, row := range after.Rows {
		if row.ID == rowID {
			t.Error("deleted row still listed")
		}
	}
}

func TestDeleteRow_EndsEditOfSameRow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rowID := env.rows(t, "goals").Rows[0].ID
	env.request(t, http.MethodPost, "/api/v1/tables/goals/rows/"+rowID+"/edit", nil, nil)

	resp := env.request(t, http.MethodDelete, "/api/v1/tables/goals/rows/"+rowID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	if env.rows(t, "goals").Editing != nil {
		t.Error("edit still active after its row was deleted")
	}
}

func TestDeleteRow_NotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodDelete, "/api/v1/tables/goals/rows/missing", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateEditCommitThenDeleteOther(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var created createRowResponse
	env.request(t, http.MethodPost, "/api/v1/tables/goals/rows", nil, &created)

	env.request(t, http.MethodPatch, "/api/v1/tables/goals/edit",
		strings.NewReader(`{"field":"q1","value":"42"}`), nil)
	env.request(t, http.MethodPost, "/api/v1/tables/goals/edit/commit", nil, nil)

	otherID := env.rows(t, "goals").Rows[0].ID
	if otherID == created.Row.ID {
		t.Fatal("picked the freshly created row to delete")
	}
	env.request(t, http.MethodDelete, "/api/v1/tables/goals/rows/"+otherID, nil, nil)

	for _, row := range env.rows(t, "goals").Rows {
		if row.ID == created.Row.ID {
			if row.Q1 != "42" {
				t.Errorf("q1 = %q, want 42", row.Q1)
			}
			return
		}
	}
	t.Error("created row missing after unrelated delete")
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var report struct {
		Summary struct {
			TotalRows int `json:"totalRows"`
		} `json:"summary"`
	}
	resp := env.request(t, http.MethodGet, "/api/v1/tables/kpi/dashboard", nil, &report)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if report.Summary.TotalRows == 0 {
		t.Error("totalRows = 0, want seeded rows")
	}
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodGet, "/api/v1/tables/goals/export?format=csv", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, `filename="goals.csv"`) {
		t.Errorf("Content-Disposition = %q, want ascii fallback filename", cd)
	}
	if !strings.Contains(cd, "filename*=UTF-8''") {
		t.Errorf("Content-Disposition = %q, want RFC 5987 filename", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("\uFEFF")) {
		t.Error("CSV body missing BOM")
	}
	if !strings.Contains(string(body), "ФИО,SCAI Цель") {
		t.Error("CSV body missing header")
	}
}

func TestExportCSV_AppliesViewFilterAndSort(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	state := &types.GoalsState{Rows: []types.GoalRow{
		{ID: "r1", LastName: "Петров", Goal: "Снижение затрат"},
		{ID: "r2", LastName: "Иванова", Goal: "Автоматизация"},
		{ID: "r3", LastName: "Иванов", Goal: "Рост выручки"},
	}}
	if err := env.store.SaveTable(context.Background(), types.TableGoals, state); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	resp := env.request(t, http.MethodGet,
		"/api/v1/tables/goals/export?format=csv&name=иванов&sort=lastName&dir=asc", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := string(body)

	if strings.Contains(out, "Петров") {
		t.Error("filtered-out row present in export")
	}
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 filtered rows", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Иванов,") || !strings.HasPrefix(lines[2], "Иванова,") {
		t.Errorf("rows not in sorted order: %q, %q", lines[1], lines[2])
	}
}

func TestExport_InvalidSort(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodGet, "/api/v1/tables/goals/export?format=csv&sort=color", nil, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodGet, "/api/v1/tables/goals/export?format=png", nil, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestChatSettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodPut, "/api/v1/chat/settings",
		strings.NewReader(`{"apiUrl":"http://gw.local","apiKey":"k"}`), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put status = %d, want 204", resp.StatusCode)
	}

	var settings types.ChatSettings
	env.request(t, http.MethodGet, "/api/v1/chat/settings", nil, &settings)
	if settings.APIURL != "http://gw.local" || settings.APIKey != "k" {
		t.Errorf("settings = %+v", settings)
	}
}

func TestChatsRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var empty []types.StoredChat
	env.request(t, http.MethodGet, "/api/v1/chats", nil, &empty)
	if len(empty) != 0 {
		t.Fatalf("initial chats = %d, want 0", len(empty))
	}

	payload := `[{"id":"c1","title":"Цели Q3","modelId":"gpt-4o","messages":[{"role":"user","content":"привет"}]}]`
	resp := env.request(t, http.MethodPut, "/api/v1/chats", strings.NewReader(payload), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put status = %d, want 204", resp.StatusCode)
	}

	var chats []types.StoredChat
	env.request(t, http.MethodGet, "/api/v1/chats", nil, &chats)
	if len(chats) != 1 || chats[0].Title != "Цели Q3" {
		t.Errorf("chats = %+v", chats)
	}
}

func TestCompletions(t *testing.T) {
	gatewayHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer gw-secret" {
			t.Errorf("gateway auth = %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Готово"}}]}`)
	}
	env := newTestEnv(t, nil, gatewayHandler)

	var reply completionResponse
	resp := env.request(t, http.MethodPost, "/api/v1/chat/completions",
		strings.NewReader(`{"model":"gpt-4o","messages":[{"role":"user","content":"план"}]}`), &reply)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if reply.Content != "Готово" {
		t.Errorf("content = %q", reply.Content)
	}
}

func TestCompletions_MissingModel(t *testing.T) {
	env := newTestEnv(t, nil, func(w http.ResponseWriter, r *http.Request) {})

	resp := env.request(t, http.MethodPost, "/api/v1/chat/completions",
		strings.NewReader(`{"messages":[{"role":"user","content":"x"}]}`), nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCompletions_GatewayNotConfigured(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.request(t, http.MethodPost, "/api/v1/chat/completions",
		strings.NewReader(`{"model":"gpt-4o","messages":[{"role":"user","content":"x"}]}`), nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestModels_UsesStoredSettings(t *testing.T) {
	gatewayHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"gpt-4o","name":"GPT-4o"}]}`)
	}
	gatewayServer := httptest.NewServer(http.HandlerFunc(gatewayHandler))
	defer gatewayServer.Close()

	// No server-level gateway config; only the stored settings point anywhere.
	env := newTestEnv(t, nil, nil)
	env.request(t, http.MethodPut, "/api/v1/chat/settings",
		strings.NewReader(fmt.Sprintf(`{"apiUrl":%q,"apiKey":"stored"}`, gatewayServer.URL)), nil)

	var models []struct {
		ID string `json:"id"`
	}
	resp := env.request(t, http.MethodGet, "/api/v1/chat/models", nil, &models)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(models) != 1 || models[0].ID != "gpt-4o" {
		t.Errorf("models = %+v", models)
	}
}

func TestUploadChatFile(t *testing.T) {
	gatewayHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/files/":
			fmt.Fprint(w, `{"id":"file-1","filename":"цели.docx"}`)
		case strings.HasSuffix(r.URL.Path, "/process/status"):
			fmt.Fprint(w, `{"status":"completed"}`)
		default:
			http.NotFound(w, r)
		}
	}
	env := newTestEnv(t, nil, gatewayHandler)

	var form bytes.Buffer
	mw := newMultipart(t, &form, "file", "цели.docx", []byte("PK data"))

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/chat/files", &form)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /chat/files: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var stored types.StoredUploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.FileID != "file-1" || stored.Name != "цели.docx" {
		t.Errorf("stored = %+v", stored)
	}

	var files []types.StoredUploadedFile
	env.request(t, http.MethodGet, "/api/v1/chat/files", nil, &files)
	if len(files) != 1 || files[0].FileID != "file-1" {
		t.Errorf("files = %+v", files)
	}
}

func TestChatCollectionsRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	payload := `[{"id":"col-1","name":"Отчёты","fileIds":["file-1"]}]`
	resp := env.request(t, http.MethodPut, "/api/v1/chat/collections", strings.NewReader(payload), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put status = %d, want 204", resp.StatusCode)
	}

	var collections []types.StoredCollection
	env.request(t, http.MethodGet, "/api/v1/chat/collections", nil, &collections)
	if len(collections) != 1 || collections[0].Name != "Отчёты" {
		t.Errorf("collections = %+v", collections)
	}
}

func TestListDocuments_Passthrough(t *testing.T) {
	docsHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("document_type"); got != "goals" {
			t.Errorf("document_type = %q", got)
		}
		fmt.Fprint(w, `{"items":[{"id":"d1","name":"цели.pdf"}],"total":1}`)
	}
	env := newTestEnv(t, docsHandler, nil)

	var list documents.DocumentList
	resp := env.request(t, http.MethodGet, "/api/v1/documents/?document_type=goals", nil, &list)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].Name != "цели.pdf" {
		t.Errorf("list = %+v", list)
	}
}

func TestDocuments_BackendDown(t *testing.T) {
	docsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>nginx fallback</body></html>")
	}
	env := newTestEnv(t, docsHandler, nil)

	var problem Problem
	resp := env.request(t, http.MethodGet, "/api/v1/documents/", nil, &problem)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(problem.Detail, "HTML") {
		t.Errorf("detail = %q, want HTML hint", problem.Detail)
	}
}

func TestDocumentCollections_Passthrough(t *testing.T) {
	docsHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/collections":
			fmt.Fprint(w, `{"id":"col-9","name":"Новая коллекция"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/collections/col-9":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}
	env := newTestEnv(t, docsHandler, nil)

	var created documents.CollectionMeta
	resp := env.request(t, http.MethodPost, "/api/v1/documents/collections/",
		strings.NewReader(`{"name":""}`), &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	if created.ID != "col-9" {
		t.Errorf("created = %+v", created)
	}

	resp = env.request(t, http.MethodDelete, "/api/v1/documents/collections/col-9", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
}
