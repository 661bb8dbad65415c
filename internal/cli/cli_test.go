package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/session/sessiontest"
	"github.com/me/heroconsole/pkg/model"
)

type apiCall struct {
	Auth  string
	Query string
	Body  string
	Type  string
}

// fakeAPI stands in for the Hero Records API and records every call.
type fakeAPI struct {
	*httptest.Server
	mu     sync.Mutex
	calls  map[string][]apiCall
	routes map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{calls: map[string][]apiCall{}, routes: map[string]http.HandlerFunc{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		route := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls[route] = append(f.calls[route], apiCall{
			Auth:  r.Header.Get("Authorization"),
			Query: r.URL.RawQuery,
			Body:  string(body),
			Type:  r.Header.Get("Content-Type"),
		})
		h := f.routes[route]
		f.mu.Unlock()

		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) reply(route string, status int, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
}

func (f *fakeAPI) callsTo(route string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls[route]...)
}

// harness runs CLI commands against a fake API with a private credentials file.
type harness struct {
	api   *fakeAPI
	creds string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		api:   newFakeAPI(t),
		creds: filepath.Join(t.TempDir(), "credentials.json"),
	}
}

// loginAs stores a token carrying role, as `hero login` would.
func (h *harness) loginAs(t *testing.T, role string) string {
	t.Helper()
	token := sessiontest.Token(role)
	require.NoError(t, session.NewFileStore(h.creds).SetToken(token))
	return token
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api", h.api.URL, "--credentials", h.creds}, args...))

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func sampleRecords() model.Page[model.HeroRecord] {
	return model.NewPage([]model.HeroRecord{
		{ID: 1, WallOwner: "club", PostAuthor: "ivan", DateTime: "2024-05-09T10:00:00", Text: "first hero\tsecond line", Likes: 1234, Views: 56789},
		{ID: 2, WallOwner: "club", PostAuthor: "olga", DateTime: "2024-05-10T11:30:00", Text: "another hero", Likes: 3},
	}, 1, 2, 4)
}

func TestLogin_StoresToken(t *testing.T) {
	h := newHarness(t)
	token := sessiontest.Token(model.RoleAdminClaim)
	h.api.reply("POST /User/Login", http.StatusOK, map[string]string{"token": token})

	out, _, err := h.run(t, "", "login", "admin@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin@example.com (role: Admin)")

	assert.Equal(t, token, session.NewFileStore(h.creds).Token())
	calls := h.api.callsTo("POST /User/Login")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":"admin@example.com","password":"secret"}`, calls[0].Body)
	assert.Empty(t, calls[0].Auth)
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	h := newHarness(t)
	h.api.reply("POST /User/Login", http.StatusOK, map[string]string{"token": sessiontest.Token("User")})

	out, _, err := h.run(t, "user@example.com\nhunter2\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "role: User")

	calls := h.api.callsTo("POST /User/Login")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":"user@example.com","password":"hunter2"}`, calls[0].Body)
}

func TestLogin_ShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.api.reply("POST /User/Login", http.StatusBadRequest, map[string]string{"error": "Wrong password"})

	_, _, err := h.run(t, "", "login", "--email", "a@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wrong password")
	assert.Empty(t, session.NewFileStore(h.creds).Token())
}

func TestLogin_UnauthorizedSkipsSessionHint(t *testing.T) {
	h := newHarness(t)
	h.api.reply("POST /User/Login", http.StatusUnauthorized, nil)

	_, errOut, err := h.run(t, "", "login", "--email", "a@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
	assert.NotContains(t, errOut, "Session expired")
}

func TestPromptSecret_NonTerminalReadsLine(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString("s3cret\n")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(f)
	cmd.SetOut(&out)

	got, err := promptSecret(cmd, bufio.NewReader(f), "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "Password: ", out.String())
}

func TestLogout_RemovesCredentials(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")

	out, _, err := h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	_, statErr := os.Stat(h.creds)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("GET /User/TestAuth", http.StatusOK, "Hello, admin@example.com")

	out, _, err := h.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Role:   Admin")
	assert.Contains(t, out, "Server: Hello, admin@example.com")
	assert.Equal(t, "Bearer "+token, h.api.callsTo("GET /User/TestAuth")[0].Auth)
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"whoami"},
		{"records", "list"},
		{"charts"},
		{"users", "list"},
		{"admin", "mark"},
	} {
		_, _, err := h.run(t, "", args...)
		assert.ErrorIs(t, err, errNotLoggedIn, args)
	}
	h.api.mu.Lock()
	assert.Empty(t, h.api.calls)
	h.api.mu.Unlock()
}

func TestAdminCommandsCheckRoleLocally(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")

	for _, args := range [][]string{
		{"users", "list"},
		{"users", "create", "--email", "x@example.com", "--password", "pw"},
		{"users", "delete", "7", "--yes"},
		{"upload", "posts.csv"},
		{"admin", "mark"},
		{"admin", "reset-mark"},
		{"admin", "recalculate"},
	} {
		_, _, err := h.run(t, "", args...)
		assert.ErrorIs(t, err, errNotAdmin, args)
	}
	h.api.mu.Lock()
	assert.Empty(t, h.api.calls)
	h.api.mu.Unlock()
}

func TestRecordsList_Table(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusOK, sampleRecords())

	out, _, err := h.run(t, "", "records", "list", "--wall-owner", "club", "--from", "2024-05-01T00:00", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "first hero second line")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "56,789")
	assert.Contains(t, out, "2024-05-09 10:00")
	assert.Contains(t, out, "Page 1 of 2 (4 total)")

	calls := h.api.callsTo("PATCH /HeroRecords/RecordsByFilter")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"wallOwner":"club","fromDateTime":"2024-05-01T00:00","pageNumber":1,"pageSize":2}`, calls[0].Body)
}

func TestRecordsList_JSONAndYAML(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusOK, sampleRecords())

	out, _, err := h.run(t, "", "records", "list", "-o", "json")
	require.NoError(t, err)
	var page model.Page[model.HeroRecord]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNextPage)

	out, _, err = h.run(t, "", "records", "list", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "wallOwner: club")
	assert.Contains(t, out, "totalCount: 4")
}

func TestRecordsList_RejectsBadInput(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")

	_, _, err := h.run(t, "", "records", "list", "--from", "last tuesday")
	assert.ErrorContains(t, err, "--from")
	_, _, err = h.run(t, "", "records", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
	assert.Empty(t, h.api.callsTo("PATCH /HeroRecords/RecordsByFilter"))
}

func TestRecordsList_EmptyResult(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusOK, model.NewPage[model.HeroRecord](nil, 1, 0, 0))

	out, _, err := h.run(t, "", "records", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No records found.")
}

func TestRecordsList_UnauthorizedClearsCredentials(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusUnauthorized, nil)

	_, errOut, err := h.run(t, "", "records", "list")
	require.Error(t, err)
	assert.Contains(t, errOut, "run `hero login`")
	_, statErr := os.Stat(h.creds)
	assert.True(t, os.IsNotExist(statErr), "credentials file should be removed")

	// The next command sees an anonymous session.
	_, _, err = h.run(t, "", "records", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestRecordsExport_CSV(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusOK, sampleRecords())

	path := filepath.Join(t.TempDir(), "out.csv")
	out, _, err := h.run(t, "", "records", "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 records to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Date,Wall owner,Post author"))
	assert.Contains(t, lines[1], "first hero\tsecond line")
}

func TestRecordsExport_XLSX(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/RecordsByFilter", http.StatusOK, sampleRecords())

	path := filepath.Join(t.TempDir(), "out.xlsx")
	_, _, err := h.run(t, "", "records", "export", "--format", "xlsx", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "another hero", rows[2][5])
}

func TestUsersList(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("PATCH /User/UsersByFilter", http.StatusOK,
		model.NewPage([]model.User{{ID: 7, Email: "listed@example.com", Role: model.RoleAdmin}}, 1, 1, 1))

	out, _, err := h.run(t, "", "users", "list", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "listed@example.com")
	assert.Contains(t, out, "Admin")

	calls := h.api.callsTo("PATCH /User/UsersByFilter")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"role":2,"pageNumber":1,"pageSize":10}`, calls[0].Body)

	_, _, err = h.run(t, "", "users", "list", "--role", "root")
	assert.ErrorContains(t, err, "unknown role")
}

func TestUsersCreate_PasswordMismatch(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)

	_, _, err := h.run(t, "one\ntwo\n", "users", "create", "--email", "new@example.com")
	assert.ErrorContains(t, err, "Passwords do not match")
	assert.Empty(t, h.api.callsTo("POST /User/CreateUser"))
}

func TestUsersCreate(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("POST /User/CreateUser", http.StatusOK, nil)

	out, _, err := h.run(t, "secret\nsecret\n", "users", "create", "--email", "new@example.com", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "User new@example.com created (role: Admin)")

	calls := h.api.callsTo("POST /User/CreateUser")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":"new@example.com","password":"secret","role":2}`, calls[0].Body)
}

func TestUsersDelete(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("DELETE /User/User", http.StatusOK, nil)

	out, _, err := h.run(t, "n\n", "users", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Empty(t, h.api.callsTo("DELETE /User/User"))

	out, _, err = h.run(t, "", "users", "delete", "7", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "User 7 deleted")
	calls := h.api.callsTo("DELETE /User/User")
	require.Len(t, calls, 1)
	assert.Equal(t, "id=7", calls[0].Query)

	_, _, err = h.run(t, "", "users", "delete", "seven", "--yes")
	assert.ErrorContains(t, err, "invalid user id")
}

func TestUpload(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("POST /HeroRecords/UploadCsv", http.StatusOK, map[string]int{"imported": 2})

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("url,text\nhttps://vk.com/wall-1_1,hero\n"), 0o600))

	out, _, err := h.run(t, "", "upload", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 records from posts.csv")

	calls := h.api.callsTo("POST /HeroRecords/UploadCsv")
	require.Len(t, calls, 1)
	_, params, err := mime.ParseMediaType(calls[0].Type)
	require.NoError(t, err)
	mr := multipart.NewReader(strings.NewReader(calls[0].Body), params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "posts.csv", part.FileName())
	content, _ := io.ReadAll(part)
	assert.Equal(t, "url,text\nhttps://vk.com/wall-1_1,hero\n", string(content))
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)

	dir := t.TempDir()
	png := filepath.Join(dir, "image.csv")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	_, _, err := h.run(t, "", "upload", png)
	assert.ErrorContains(t, err, "only CSV files")
	_, _, err = h.run(t, "", "upload", empty)
	assert.ErrorContains(t, err, "the file is empty")
	assert.Empty(t, h.api.callsTo("POST /HeroRecords/UploadCsv"))
}

func TestCharts(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "User")
	h.api.reply("PATCH /HeroRecords/ClassificationCounts", http.StatusOK, map[string]int{"Svo": 3, "NoHero": 1})
	h.api.reply("PATCH /HeroRecords/GetMetrics", http.StatusOK, []model.MetricPoint{{Date: "2024-05-09", VR: 0.5, ER: 0.25, Average: 0.125}})

	out, _, err := h.run(t, "", "charts", "--classification", "svo")
	require.NoError(t, err)
	assert.Contains(t, out, "Heroes of the special military operation")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "Total: 4")
	assert.Contains(t, out, "2024-05-09")

	calls := h.api.callsTo("PATCH /HeroRecords/ClassificationCounts")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"classification":1,"pageNumber":0,"pageSize":0}`, calls[0].Body)

	out, _, err = h.run(t, "", "charts", "-o", "json")
	require.NoError(t, err)
	var res chartsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Total)
	assert.Len(t, res.Metrics, 1)
}

func TestAdminMark(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("POST /HeroRecords/Mark", http.StatusOK, model.MarkResult{MarkedCount: 5, NoHeroCount: 2, UnknownCategoryCount: 1})

	out, _, err := h.run(t, "", "admin", "mark")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked:           5")
	assert.Contains(t, out, "No hero word:     2")
	assert.Contains(t, out, "Unknown category: 1")
}

func TestAdminActions(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, model.RoleAdminClaim)
	h.api.reply("POST /HeroRecords/ResetMark", http.StatusOK, nil)
	h.api.reply("POST /HeroRecords/RecalculateMetrics", http.StatusInternalServerError, map[string]string{"error": "metrics job busy"})

	out, _, err := h.run(t, "", "admin", "reset-mark")
	require.NoError(t, err)
	assert.Contains(t, out, "Marks reset")

	_, _, err = h.run(t, "", "admin", "recalculate")
	assert.ErrorContains(t, err, "metrics job busy")
}
