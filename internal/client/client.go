// Package client talks to a doctree server over HTTP
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nainya/doctree/internal/store"
	"github.com/nainya/doctree/pkg/docformat"
)

// Client accesses a remote document store.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches a stored document by name. Derived snapshots are stripped
// from the returned tree.
func (c *Client) Load(name string) (*docformat.Export, error) {
	resp, err := c.http.Get(c.baseURL + "/documents/" + name)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load document: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	ex, err := docformat.Decode(body)
	if err != nil {
		return nil, err
	}
	ex.Sections = docformat.StripSnapshots(ex.Sections)
	return ex, nil
}

// Save stores an export under name. An empty name lets the server derive
// one from the document title; the stored name is returned either way.
func (c *Client) Save(name string, ex *docformat.Export) (string, error) {
	body, err := docformat.Encode(ex)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.baseURL+"/documents", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if name != "" {
		req.Header.Set("X-Filename", name)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("save document: HTTP %d", resp.StatusCode)
	}

	var created struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.Name, nil
}

// List returns summaries of all stored documents.
func (c *Client) List() ([]store.Info, error) {
	resp, err := c.http.Get(c.baseURL + "/documents")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list documents: HTTP %d", resp.StatusCode)
	}

	var listing struct {
		Documents []store.Info `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return listing.Documents, nil
}

// Delete removes a stored document by name.
func (c *Client) Delete(name string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+"/documents/"+name, nil)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete document: HTTP %d", resp.StatusCode)
	}
	return nil
}
