// Package drive adapts the Google Drive and Sheets read-only REST APIs.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xparky/portal/pkg/logger"
	"github.com/xparky/portal/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultDriveBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultSheetsBaseURL  = "https://sheets.googleapis.com/v4"
	defaultRequestTimeout = 30 * time.Second
	defaultPageSize       = 1000

	// folderMimeType marks a listing entry as a folder rather than a file.
	folderMimeType = "application/vnd.google-apps.folder"

	// sheetRange covers every row of columns A through Z, which is as wide
	// as any portal sheet gets.
	sheetRange = "A1:Z"

	errorBodyLimit = 512
)

// Operation labels used for request metrics.
const (
	opListChildren = "list_children"
	opSheetValues  = "sheet_values"
	opDownload     = "download"
)

// Entry is one row of a folder listing.
type Entry struct {
	ID     string
	Name   string
	Folder bool
}

// Table holds one sheet tab: the first returned row as column headers and
// every following row as string cells. Rows shorter than the header (the
// values API trims trailing empties) are padded with "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named header column, or -1 when
// the sheet does not carry it.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Lister enumerates the immediate children of a folder.
type Lister interface {
	ListChildren(ctx context.Context, folderID string) ([]Entry, error)
}

// SheetReader fetches one sheet tab as a header-plus-rows table.
type SheetReader interface {
	SheetValues(ctx context.Context, spreadsheetID, sheetName string) (*Table, error)
}

// Downloader fetches the raw content of a file.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Source bundles the three read operations the portal consumes.
type Source interface {
	Lister
	SheetReader
	Downloader
}

// Client talks to the Drive v3 and Sheets v4 endpoints with a bearer token.
type Client struct {
	httpClient    *http.Client
	driveBaseURL  string
	sheetsBaseURL string
	tokens        TokenSource
	pageSize      int
	log           logger.Logger
}

// New creates a new API client with configuration options. A token source
// must be supplied via WithTokenSource before any request can succeed.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
		driveBaseURL:  defaultDriveBaseURL,
		sheetsBaseURL: defaultSheetsBaseURL,
		pageSize:      defaultPageSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get()
	}

	return c
}

// fileList mirrors the Drive files.list response payload.
type fileList struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		MimeType string `json:"mimeType"`
	} `json:"files"`
}

// valueRange mirrors the Sheets values.get response payload.
type valueRange struct {
	Values [][]string `json:"values"`
}

// ListChildren returns the immediate children of folderID, following
// nextPageToken until the listing is exhausted.
func (c *Client) ListChildren(ctx context.Context, folderID string) (entries []Entry, err error) {
	defer c.observe(opListChildren, time.Now(), &err)

	var pageToken string
	for {
		q := url.Values{}
		q.Set("q", fmt.Sprintf("'%s' in parents", escapeQueryTerm(folderID)))
		q.Set("fields", "nextPageToken, files(id, name, mimeType)")
		q.Set("pageSize", strconv.Itoa(c.pageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page fileList
		if err := c.getJSON(ctx, c.driveBaseURL+"/files?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("listing children of folder %s: %w", folderID, err)
		}

		for _, f := range page.Files {
			entries = append(entries, Entry{
				ID:     f.ID,
				Name:   f.Name,
				Folder: f.MimeType == folderMimeType,
			})
		}

		if page.NextPageToken == "" {
			c.log.Debug(ctx, "listed folder children",
				logger.String("folder_id", folderID),
				logger.Int("entries", len(entries)),
			)
			return entries, nil
		}
		pageToken = page.NextPageToken
	}
}

// SheetValues fetches the named sheet tab of a spreadsheet. An existing but
// empty sheet yields (nil, nil): an absent table, not an error.
func (c *Client) SheetValues(ctx context.Context, spreadsheetID, sheetName string) (table *Table, err error) {
	defer c.observe(opSheetValues, time.Now(), &err)

	reqURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.sheetsBaseURL,
		url.PathEscape(spreadsheetID),
		url.PathEscape(sheetName+"!"+sheetRange),
	)

	var payload valueRange
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheetName, spreadsheetID, err)
	}
	if len(payload.Values) == 0 {
		return nil, nil
	}

	table = newTable(payload.Values)
	c.log.Debug(ctx, "fetched sheet values",
		logger.String("spreadsheet_id", spreadsheetID),
		logger.String("sheet", sheetName),
		logger.Int("rows", len(table.Rows)),
	)
	return table, nil
}

// Download returns the raw bytes of a file.
func (c *Client) Download(ctx context.Context, fileID string) (data []byte, err error) {
	defer c.observe(opDownload, time.Now(), &err)

	reqURL := fmt.Sprintf("%s/files/%s?alt=media", c.driveBaseURL, url.PathEscape(fileID))
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", fileID, err)
	}

	c.log.Debug(ctx, "downloaded file",
		logger.String("file_id", fileID),
		logger.Int("bytes", len(data)),
	)
	return data, nil
}

// getJSON performs an authorized GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get performs an authorized GET and returns the response on status 200.
func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	if c.tokens == nil {
		return nil, ErrNoTokenSource
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp)
	}
	return resp, nil
}

// observe records request metrics for one adapter operation.
func (c *Client) observe(op string, start time.Time, err *error) {
	metrics.RecordDriveRequest(op)
	metrics.RecordDriveRequestLatency(op, float64(time.Since(start).Milliseconds()))
	if *err != nil {
		metrics.RecordDriveRequestError(op)
	}
}

// statusError maps a non-200 response to a sentinel-wrapped error carrying a
// snippet of the response body.
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	msg := strings.TrimSpace(string(snippet))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	default:
		return fmt.Errorf("google api status %d: %s", resp.StatusCode, msg)
	}
}

// escapeQueryTerm escapes single quotes in a term embedded in a Drive
// search query.
func escapeQueryTerm(term string) string {
	return strings.ReplaceAll(term, `'`, `\'`)
}

// newTable builds a Table from raw sheet values, padding short rows to the
// header width.
func newTable(values [][]string) *Table {
	t := &Table{Columns: values[0]}
	width := len(t.Columns)

	for _, row := range values[1:] {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
