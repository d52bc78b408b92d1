package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/autovendor/contract-flags/internal/config"
)

// ErrMissingFlags is returned when a 2xx response has no usable "flags" object.
var ErrMissingFlags = errors.New("upload response did not include flags")

// StatusError is a non-2xx answer from the analysis API.
type StatusError struct {
	StatusCode int
	Detail     string // the server's "detail" text, if it sent one
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Upload failed (%d)", e.StatusCode)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root; requests go to BaseURL + "/upload".
	BaseURL string
	// HTTPClient defaults to a client without a timeout. Cancel through ctx.
	HTTPClient *http.Client
}

// Client posts contracts to the analysis API.
type Client struct {
	uploadURL  string
	httpClient *http.Client
}

// NewClient validates the base URL and returns a Client.
func NewClient(opts Options) (*Client, error) {
	if err := config.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		uploadURL:  strings.TrimRight(opts.BaseURL, "/") + "/upload",
		httpClient: hc,
	}, nil
}

// URL returns the endpoint uploads are sent to.
func (c *Client) URL() string { return c.uploadURL }

// Upload sends file as the multipart field "file" and returns the "flags"
// object of the response.
func (c *Client) Upload(ctx context.Context, file FileHandle) (map[string]any, error) {
	body, contentType, err := encodeFile(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: detailOf(data)}
	}

	var payload struct {
		Flags json.RawMessage `json:"flags"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid upload response: %w", err)
	}

	var flags map[string]any
	if len(payload.Flags) == 0 || json.Unmarshal(payload.Flags, &flags) != nil || flags == nil {
		return nil, ErrMissingFlags
	}
	return flags, nil
}

// encodeFile builds the multipart body in memory.
func encodeFile(file FileHandle) (io.Reader, string, error) {
	// Open errors are returned as-is: their text is what the user sees.
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Name())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", file.Name(), err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// detailOf returns the "detail" string of an error body, or "" when the body
// isn't JSON or detail is missing or not a string.
func detailOf(data []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	s, _ := body.Detail.(string)
	return s
}
