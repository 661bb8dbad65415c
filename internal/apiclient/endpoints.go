package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/me/heroconsole/internal/filter"
	"github.com/me/heroconsole/pkg/model"
)

var pageKeys = []string{"items", "pageNumber", "totalPages"}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/User/Login", model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	var resp model.LoginResponse
	if err := decodeStrict(data, &resp, "token"); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: %w: empty token", ErrDecode)
	}
	return resp.Token, nil
}

// TestAuth returns the greeting the API shows an authenticated user.
func (c *Client) TestAuth(ctx context.Context) (string, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/User/TestAuth", nil)
	if err != nil {
		return "", fmt.Errorf("test auth: %w", err)
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	return strings.TrimSpace(string(data)), nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) error {
	if _, err := c.doJSON(ctx, http.MethodPost, "/User/CreateUser", req); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// DeleteUser deletes the account with the given id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	path := "/User/User?" + url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()
	if _, err := c.doJSON(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// UsersByFilter returns one page of accounts matching f.
func (c *Client) UsersByFilter(ctx context.Context, f model.UserFilter, page model.PageRequest) (model.Page[model.User], error) {
	var out model.Page[model.User]
	body := filter.Build(filter.FromStruct(f), &page)
	data, err := c.doJSON(ctx, http.MethodPatch, "/User/UsersByFilter", body)
	if err != nil {
		return out, fmt.Errorf("list users: %w", err)
	}
	if err := decodeStrict(data, &out, pageKeys...); err != nil {
		return out, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// RecordsByFilter returns one page of hero records matching f.
func (c *Client) RecordsByFilter(ctx context.Context, f model.RecordFilter, page model.PageRequest) (model.Page[model.HeroRecord], error) {
	var out model.Page[model.HeroRecord]
	body := filter.Build(filter.FromStruct(f), &page)
	data, err := c.doJSON(ctx, http.MethodPatch, "/HeroRecords/RecordsByFilter", body)
	if err != nil {
		return out, fmt.Errorf("list records: %w", err)
	}
	if err := decodeStrict(data, &out, pageKeys...); err != nil {
		return out, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

// aggregatePage is the pagination the aggregate endpoints expect: everything.
var aggregatePage = filter.Page(0, 0)

// ClassificationCounts returns record counts per classification.
func (c *Client) ClassificationCounts(ctx context.Context, f model.ChartFilter) (model.ClassificationCounts, error) {
	data, err := c.doJSON(ctx, http.MethodPatch, "/HeroRecords/ClassificationCounts", filter.Build(filter.FromStruct(f), aggregatePage))
	if err != nil {
		return nil, fmt.Errorf("classification counts: %w", err)
	}
	// Keys are classification names, not fields, so there is nothing to require.
	out := model.ClassificationCounts{}
	if err := decodeStrict(data, &out); err != nil {
		return nil, fmt.Errorf("classification counts: %w", err)
	}
	return out, nil
}

// Metrics returns the daily VR/ER/average series.
func (c *Client) Metrics(ctx context.Context, f model.ChartFilter) ([]model.MetricPoint, error) {
	data, err := c.doJSON(ctx, http.MethodPatch, "/HeroRecords/GetMetrics", filter.Build(filter.FromStruct(f), aggregatePage))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	var out []model.MetricPoint
	if err := decodeStrictList(data, &out, "date", "vr", "er", "average"); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return out, nil
}

// Mark runs server-side classification of unmarked records.
func (c *Client) Mark(ctx context.Context) (model.MarkResult, error) {
	var out model.MarkResult
	data, err := c.doJSON(ctx, http.MethodPost, "/HeroRecords/Mark", nil)
	if err != nil {
		return out, fmt.Errorf("mark: %w", err)
	}
	if err := decodeStrict(data, &out, "markedCount", "noHeroCount", "unknownCategoryCount"); err != nil {
		return out, fmt.Errorf("mark: %w", err)
	}
	return out, nil
}

// ResetMark clears every record's classification.
func (c *Client) ResetMark(ctx context.Context) error {
	if _, err := c.doJSON(ctx, http.MethodPost, "/HeroRecords/ResetMark", nil); err != nil {
		return fmt.Errorf("reset mark: %w", err)
	}
	return nil
}

// RecalculateMetrics asks the server to rebuild the engagement metrics.
func (c *Client) RecalculateMetrics(ctx context.Context) error {
	if _, err := c.doJSON(ctx, http.MethodPost, "/HeroRecords/RecalculateMetrics", nil); err != nil {
		return fmt.Errorf("recalculate metrics: %w", err)
	}
	return nil
}

// UploadCSV sends a CSV export as the multipart field "file".
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (model.UploadResult, error) {
	var out model.UploadResult

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return out, fmt.Errorf("upload csv: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return out, fmt.Errorf("upload csv: read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("upload csv: %w", err)
	}

	data, err := c.send(ctx, http.MethodPost, "/HeroRecords/UploadCsv", &buf, mw.FormDataContentType())
	if err != nil {
		return out, fmt.Errorf("upload csv: %w", err)
	}
	if err := decodeStrict(data, &out, "imported"); err != nil {
		return out, fmt.Errorf("upload csv: %w", err)
	}
	return out, nil
}
