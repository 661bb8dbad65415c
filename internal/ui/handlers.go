package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/export"
	"github.com/me/heroconsole/internal/store"
	"github.com/me/heroconsole/internal/table"
	"github.com/me/heroconsole/pkg/model"
)

// UI handles the web console.
type UI struct {
	sessions   *SessionManager
	logger     *slog.Logger
	apiLogger  *slog.Logger
	apiURL     string
	httpClient *http.Client
	pageSize   int
	pageSizes  []int // PageSizes plus the configured default
	secure     bool  // Use secure cookies (HTTPS)
}

// Config holds UI configuration.
type Config struct {
	APIURL         string        // Hero Records API base URL
	Secure         bool          // Use secure cookies for HTTPS
	PageSize       int           // Default table page size
	RequestTimeout time.Duration // Per-call API timeout
	SessionTTL     time.Duration // Browser session lifetime
	HTTPClient     *http.Client  // Optional; overrides RequestTimeout
}

// PageSizes are the page sizes offered by the list pages.
var PageSizes = []int{10, 25, 50, 100}

// New creates a new UI handler.
func New(st store.Store, logger *slog.Logger, cfg Config) *UI {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = apiclient.DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	sizes := slices.Clone(PageSizes)
	if !slices.Contains(sizes, pageSize) {
		sizes = append(sizes, pageSize)
		slices.Sort(sizes)
	}
	return &UI{
		sessions:   NewSessionManager(st, cfg.SessionTTL),
		logger:     logger.With("component", "ui"),
		apiLogger:  logger,
		apiURL:     cfg.APIURL,
		httpClient: hc,
		pageSize:   pageSize,
		pageSizes:  sizes,
		secure:     cfg.Secure,
	}
}

// Sessions exposes the session manager, e.g. for periodic cleanup.
func (ui *UI) Sessions() *SessionManager {
	return ui.sessions
}

// --- Authentication ---

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Login - Hero Records",
		"Error": r.URL.Query().Get("error"),
	}
	ui.render(w, "login", data)
}

// HandleLoginPost exchanges the credentials for an API token and opens a browser session.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", "Invalid request")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		redirectWithError(w, r, "/login", "Email and password required")
		return
	}

	token, err := ui.api(r).Login(r.Context(), email, password)
	if err != nil {
		ui.logger.Warn("login failed", "email", email, "error", err)
		redirectWithError(w, r, "/login", apiclient.ErrorMessage(err, "Invalid email or password"))
		return
	}

	sess, err := ui.sessions.CreateSession(r.Context(), email, token)
	if err != nil {
		ui.logger.Error("create session failed", "error", err)
		redirectWithError(w, r, "/login", "Session creation failed")
		return
	}

	SetSessionCookie(w, sess, ui.secure)

	ui.logger.Info("user logged in", "email", email, "role", sess.Role, "session", sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session and redirects to login.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		_ = ui.sessions.DeleteSession(r.Context(), sess.ID)
		ui.logger.Info("user logged out", "email", sess.Email, "session", sess.ID)
	}
	ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Hero records ---

// recordsTable builds the records table for the filter in the query string.
func (ui *UI) recordsTable(r *http.Request) (*table.Table[model.HeroRecord], model.RecordFilter) {
	q := r.URL.Query()
	var f model.RecordFilter
	for _, field := range model.RecordFilterFields {
		f.Set(field.Key, q.Get(field.Key))
	}
	client := ui.api(r)
	fetch := func(ctx context.Context, page, size int) (model.Page[model.HeroRecord], error) {
		return client.RecordsByFilter(ctx, f, model.PageRequest{PageNumber: page, PageSize: size})
	}
	return table.New(fetch, recordColumns, ui.pageSizeParam(r)), f
}

// loadPage fetches the page named by the query string, clamped to the result's page count.
func loadPage[Row any](ctx context.Context, t *table.Table[Row], r *http.Request) error {
	return t.Open(ctx, intParam(r, "page", 1))
}

// HandleRecords renders the hero records list.
func (ui *UI) HandleRecords(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	t, f := ui.recordsTable(r)

	data := map[string]any{
		"Title":        "Hero records - Hero Records",
		"Session":      sess,
		"Filter":       f,
		"FilterFields": model.RecordFilterFields,
		"PageSizes":    ui.pageSizes,
	}
	if err := loadPage(r.Context(), t, r); err != nil {
		ui.logAPIError("load records failed", err)
		data["Error"] = apiclient.ErrorMessage(err, "Failed to load records")
	}

	view := t.Snapshot()
	data["Table"] = view
	data["Query"] = recordQuery(f, view.PageSize)
	ui.render(w, "records/list", data)
}

// HandleRecordDetail renders one record from the page it was listed on.
// The API has no single-record endpoint, so the list query is replayed.
func (ui *UI) HandleRecordDetail(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		ui.renderNotFound(w, "Record not found")
		return
	}

	t, f := ui.recordsTable(r)
	if err := loadPage(r.Context(), t, r); err != nil {
		ui.renderAPIError(w, "Failed to load record", err)
		return
	}

	for _, rec := range t.Items() {
		if rec.ID == id {
			data := map[string]any{
				"Title":   fmt.Sprintf("Record %d - Hero Records", id),
				"Session": sess,
				"Record":  rec,
				"Back":    "/?" + pageQuery(recordQuery(f, t.PageSize()), t.CurrentPage()),
			}
			ui.render(w, "records/detail", data)
			return
		}
	}
	ui.renderNotFound(w, "Record not found on this page")
}

// HandleRecordExport downloads the current filter page as CSV or XLSX.
func (ui *UI) HandleRecordExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, _ := ui.recordsTable(r)
	if err := loadPage(r.Context(), t, r); err != nil {
		ui.renderAPIError(w, "Failed to load records", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, t.Snapshot()); err != nil {
		ui.renderError(w, "Export failed", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="hero-records-page-%d.%s"`, t.CurrentPage(), format))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// --- Charts ---

// HandleCharts renders classification counts and the engagement series.
func (ui *UI) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	q := r.URL.Query()

	f := model.ChartFilter{
		FromDateTime: strings.TrimSpace(q.Get("fromDateTime")),
		ToDateTime:   strings.TrimSpace(q.Get("toDateTime")),
	}
	if c, ok := model.ParseClassification(q.Get("classification")); ok {
		f.Classification = &c
	}

	data := map[string]any{
		"Title":           "Charts - Hero Records",
		"Session":         sess,
		"Filter":          f,
		"Classifications": model.Classifications,
	}

	client := ui.api(r)
	counts, err := client.ClassificationCounts(r.Context(), f)
	if err != nil {
		ui.logAPIError("load classification counts failed", err)
		data["Error"] = apiclient.ErrorMessage(err, "Failed to load charts")
	}
	metrics, err := client.Metrics(r.Context(), f)
	if err != nil {
		ui.logAPIError("load metrics failed", err)
		data["Error"] = apiclient.ErrorMessage(err, "Failed to load charts")
	}

	data["Counts"] = counts.Slices()
	data["Total"] = counts.Total()
	data["Metrics"] = metrics
	ui.render(w, "charts", data)
}

// --- Users ---

// HandleUsers renders the user list.
func (ui *UI) HandleUsers(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	q := r.URL.Query()

	f := model.UserFilter{Email: strings.TrimSpace(q.Get("email"))}
	if role, ok := model.ParseUserRole(q.Get("role")); ok {
		f.Role = &role
	}

	client := ui.api(r)
	fetch := func(ctx context.Context, page, size int) (model.Page[model.User], error) {
		return client.UsersByFilter(ctx, f, model.PageRequest{PageNumber: page, PageSize: size})
	}
	t := table.New(fetch, userColumns, ui.pageSizeParam(r))

	data := map[string]any{
		"Title":     "Users - Hero Records",
		"Session":   sess,
		"Filter":    f,
		"Roles":     model.UserRoles,
		"PageSizes": ui.pageSizes,
		"Message":   q.Get("msg"),
		"Error":     q.Get("error"),
	}
	if err := loadPage(r.Context(), t, r); err != nil {
		ui.logAPIError("load users failed", err)
		data["Error"] = apiclient.ErrorMessage(err, "Failed to load users")
	}

	view := t.Snapshot()
	data["Table"] = view
	data["Query"] = userQuery(f, view.PageSize)
	ui.render(w, "users/list", data)
}

// HandleUserDelete deletes a user and returns to the list.
func (ui *UI) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectWithError(w, r, "/users", "Invalid user id")
		return
	}

	if err := ui.api(r).DeleteUser(r.Context(), id); err != nil {
		ui.logAPIError("delete user failed", err, "user_id", id)
		redirectWithError(w, r, "/users", apiclient.ErrorMessage(err, "Failed to delete user"))
		return
	}

	ui.logger.Info("user deleted", "user_id", id, "by", SessionFromContext(r.Context()).Email)
	http.Redirect(w, r, "/users?msg="+url.QueryEscape("User deleted"), http.StatusSeeOther)
}

// HandleUserCreate renders the create user form.
func (ui *UI) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	ui.render(w, "users/create", map[string]any{
		"Title":   "New user - Hero Records",
		"Session": SessionFromContext(r.Context()),
		"Roles":   model.UserRoles,
		"Form":    model.CreateUserRequest{Role: model.RoleUser},
	})
}

// HandleUserCreatePost validates the form locally and creates the user.
func (ui *UI) HandleUserCreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	req := model.CreateUserRequest{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if role, ok := model.ParseUserRole(r.FormValue("role")); ok {
		req.Role = role
	}

	data := map[string]any{
		"Title":   "New user - Hero Records",
		"Session": SessionFromContext(r.Context()),
		"Roles":   model.UserRoles,
		"Form":    req,
	}

	if err := req.Validate(r.FormValue("confirm")); err != nil {
		data["Error"] = err.Error()
		w.WriteHeader(http.StatusUnprocessableEntity)
		ui.render(w, "users/create", data)
		return
	}

	if err := ui.api(r).CreateUser(r.Context(), req); err != nil {
		ui.logAPIError("create user failed", err, "email", req.Email)
		data["Error"] = apiclient.ErrorMessage(err, "Failed to create user")
		ui.render(w, "users/create", data)
		return
	}

	ui.logger.Info("user created", "email", req.Email, "role", req.Role.Label())
	http.Redirect(w, r, "/users?msg="+url.QueryEscape("User created"), http.StatusSeeOther)
}

// --- Admin ---

// HandleAdmin renders the batch operations page.
func (ui *UI) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	ui.render(w, "admin", map[string]any{
		"Title":   "Admin - Hero Records",
		"Session": SessionFromContext(r.Context()),
	})
}

// HandleAdminMark runs the classification pass and shows its counts.
func (ui *UI) HandleAdminMark(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":   "Admin - Hero Records",
		"Session": SessionFromContext(r.Context()),
	}
	res, err := ui.api(r).Mark(r.Context())
	if err != nil {
		ui.logAPIError("mark failed", err)
		data["Error"] = apiclient.ErrorMessage(err, "Marking failed")
	} else {
		ui.logger.Info("records marked", "marked", res.MarkedCount, "no_hero", res.NoHeroCount, "unknown", res.UnknownCategoryCount)
		data["Mark"] = res
	}
	ui.render(w, "admin", data)
}

// HandleAdminResetMark clears every classification.
func (ui *UI) HandleAdminResetMark(w http.ResponseWriter, r *http.Request) {
	ui.adminAction(w, r, "Marks reset", "Reset failed", ui.api(r).ResetMark)
}

// HandleAdminRecalculate recomputes the engagement metrics.
func (ui *UI) HandleAdminRecalculate(w http.ResponseWriter, r *http.Request) {
	ui.adminAction(w, r, "Metrics recalculated", "Recalculation failed", ui.api(r).RecalculateMetrics)
}

func (ui *UI) adminAction(w http.ResponseWriter, r *http.Request, okMsg, failMsg string, run func(context.Context) error) {
	data := map[string]any{
		"Title":   "Admin - Hero Records",
		"Session": SessionFromContext(r.Context()),
	}
	if err := run(r.Context()); err != nil {
		ui.logAPIError(failMsg, err)
		data["Error"] = apiclient.ErrorMessage(err, failMsg)
	} else {
		ui.logger.Info(okMsg)
		data["Message"] = okMsg
	}
	ui.render(w, "admin", data)
}

// --- Helper Methods ---

func (ui *UI) pageSizeParam(r *http.Request) int {
	n := intParam(r, "size", ui.pageSize)
	if slices.Contains(ui.pageSizes, n) {
		return n
	}
	return ui.pageSize
}

func intParam(r *http.Request, name string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return n
	}
	return def
}

// recordQuery encodes the filter and page size; pagination links append the page.
func recordQuery(f model.RecordFilter, size int) url.Values {
	v := url.Values{}
	for _, field := range model.RecordFilterFields {
		if s := f.Get(field.Key); s != "" {
			v.Set(field.Key, s)
		}
	}
	v.Set("size", strconv.Itoa(size))
	return v
}

func userQuery(f model.UserFilter, size int) url.Values {
	v := url.Values{}
	if f.Email != "" {
		v.Set("email", f.Email)
	}
	if f.Role != nil {
		v.Set("role", strconv.Itoa(int(*f.Role)))
	}
	v.Set("size", strconv.Itoa(size))
	return v
}

// pageQuery returns q with page set, encoded.
func pageQuery(q url.Values, page int) string {
	out := url.Values{}
	for k, vs := range q {
		out[k] = vs
	}
	out.Set("page", strconv.Itoa(page))
	return out.Encode()
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (ui *UI) logAPIError(msg string, err error, args ...any) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		ui.logger.Info("session rejected by API", "during", msg)
		return
	}
	ui.logger.Error(msg, append(args, "error", err)...)
}

func (ui *UI) render(w http.ResponseWriter, template string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	ui.renderStatus(w, http.StatusInternalServerError, "Error - Hero Records", message)
}

// renderAPIError shows the server's message when it sent one.
func (ui *UI) renderAPIError(w http.ResponseWriter, message string, err error) {
	ui.logAPIError(message, err)
	status := http.StatusBadGateway
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	}
	ui.renderStatus(w, status, "Error - Hero Records", apiclient.ErrorMessage(err, message))
}

func (ui *UI) renderNotFound(w http.ResponseWriter, message string) {
	ui.renderStatus(w, http.StatusNotFound, "Not Found - Hero Records", message)
}

func (ui *UI) renderStatus(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf bytes.Buffer
	if err := renderTemplate(&buf, "error", map[string]any{"Title": title, "Message": message}); err != nil {
		ui.logger.Error("template render failed", "template", "error", "error", err)
		http.Error(w, message, status)
		return
	}
	w.WriteHeader(status)
	buf.WriteTo(w)
}
