package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Doer is the minimal HTTP client surface. Tests substitute a fake; the real
// thing is *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin wrapper over the backend REST API. It forwards the
// browser's cookies on every call, decodes JSON bodies, and surfaces non-2xx
// responses as *Error. No retries: a failed request is surfaced once.
type Client struct {
	baseURL string
	http    Doer
}

// NewClient creates a Client for the given base URL. A nil doer falls back to
// a default http.Client with a request timeout.
func NewClient(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    doer,
	}
}

// Error is a structured non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// File is an upload forwarded inside a multipart request.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Get performs a GET and decodes the JSON body into out (out may be nil).
func (c *Client) Get(ctx context.Context, path, cookie string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, cookie, "", nil, out)
	return err
}

// GetList performs a GET against a list endpoint and normalizes the response
// shape. The backend answers either a bare array or a paginated wrapper like
// {"groups": [...], "pagination": {...}}; callers always receive the array,
// decoded into out (a pointer to a slice).
func (c *Client) GetList(ctx context.Context, path, cookie, key string, out any) error {
	var raw json.RawMessage
	if err := c.Get(ctx, path, cookie, &raw); err != nil {
		return err
	}
	return DecodeList(raw, key, out)
}

// PostJSON performs a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path, cookie string, body, out any) error {
	_, err := c.postJSON(ctx, path, cookie, body, out)
	return err
}

// PostJSONCookies is PostJSON plus the upstream Set-Cookie values, for auth
// flows that must relay the backend's session cookie to the browser.
func (c *Client) PostJSONCookies(ctx context.Context, path, cookie string, body, out any) ([]*http.Cookie, error) {
	return c.postJSON(ctx, path, cookie, body, out)
}

func (c *Client) postJSON(ctx context.Context, path, cookie string, body, out any) ([]*http.Cookie, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}
	return c.do(ctx, http.MethodPost, path, cookie, "application/json", &buf, out)
}

// PostMultipart performs a POST with a multipart/form-data body built from
// the given field values and files.
func (c *Client) PostMultipart(ctx context.Context, path, cookie string, fields url.Values, files []File, out any) error {
	_, err := c.postMultipart(ctx, path, cookie, fields, files, out)
	return err
}

// PostMultipartCookies is PostMultipart plus the upstream Set-Cookie values.
func (c *Client) PostMultipartCookies(ctx context.Context, path, cookie string, fields url.Values, files []File, out any) ([]*http.Cookie, error) {
	return c.postMultipart(ctx, path, cookie, fields, files, out)
}

func (c *Client) postMultipart(ctx context.Context, path, cookie string, fields url.Values, files []File, out any) ([]*http.Cookie, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for field, values := range fields {
		for _, v := range values {
			if err := w.WriteField(field, v); err != nil {
				return nil, fmt.Errorf("write form field %s: %w", field, err)
			}
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, cookie, w.FormDataContentType(), &buf, out)
}

// Delete performs a DELETE and decodes the JSON body into out (out may be
// nil).
func (c *Client) Delete(ctx context.Context, path, cookie string, out any) error {
	_, err := c.do(ctx, http.MethodDelete, path, cookie, "", nil, out)
	return err
}

func (c *Client) do(ctx context.Context, method, path, cookie, contentType string, body io.Reader, out any) ([]*http.Cookie, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[API] %s %s FAILED: err=%v", method, path, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Printf("[API] %s %s status=%d duration=%v", method, path, resp.StatusCode, time.Since(startTime))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			// A malformed body on a 2xx is treated the same as a
			// transport failure: caught and surfaced once.
			return nil, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}

	return resp.Cookies(), nil
}

// decodeError extracts the server-supplied error payload. The backend
// answers {"message": "..."} on failures; anything unreadable falls back to
// the HTTP status text.
func (c *Client) decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// DecodeList normalizes a list response. raw is either a bare JSON array or
// an object wrapping the array under key (matched case-insensitively). out
// must be a pointer to a slice.
func DecodeList(raw json.RawMessage, key string, out any) error {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return fmt.Errorf("decode list wrapper: %w", err)
	}
	for k, v := range wrapper {
		if strings.EqualFold(k, key) {
			return json.Unmarshal(v, out)
		}
	}
	// Wrapper present but the key is missing: treat as an empty list rather
	// than an error so callers render an empty page.
	return nil
}
