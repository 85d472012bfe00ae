package httpdom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Page is the container produced for one trial: the last document fetched
// from the story server. Request steps replace the document with their
// response, and Refresh re-fetches the current location.
type Page struct {
	client  *http.Client
	baseURL string

	mu       sync.Mutex
	location string
	body     []byte
	closed   bool
}

func newPage(client *http.Client, baseURL string) *Page {
	return &Page{client: client, baseURL: baseURL}
}

// Text returns the current document.
func (p *Page) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.body)
}

func (p *Page) Contains(text string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bytes.Contains(p.body, []byte(text))
}

// Location is the path of the last GET issued on this page.
func (p *Page) Location() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

// Do issues a request relative to the base URL and makes its response the
// current document. A GET also moves the page location.
func (p *Page) Do(ctx context.Context, method, path, body string) error {
	data, err := p.fetch(ctx, method, path, body)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("page is closed")
	}
	p.body = data
	if method == http.MethodGet {
		p.location = path
	}
	return nil
}

// Refresh re-fetches the current location.
func (p *Page) Refresh(ctx context.Context) error {
	return p.Do(ctx, http.MethodGet, p.Location(), "")
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.body = nil
	return nil
}

func (p *Page) fetch(ctx context.Context, method, path, body string) ([]byte, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return data, nil
}
