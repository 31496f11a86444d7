// Package fetch retrieves web pages and extracts readable text for import
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Page holds the extracted content of a fetched URL.
type Page struct {
	URL   string
	Title string
	Text  string
}

// maxBodyBytes caps the downloaded response size (5MB).
const maxBodyBytes = 5 * 1024 * 1024

// Fetch retrieves a URL and extracts its title and readable text.
func Fetch(rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "doctree/1.0 (document-importer)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	page := Extract(string(body))
	if page.Text == "" {
		return nil, fmt.Errorf("no text content found")
	}
	page.URL = u.String()
	return page, nil
}

// IsURL reports whether a string looks like a URL.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// Extract parses HTML and returns the page title and readable text.
func Extract(htmlContent string) *Page {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return &Page{}
	}

	var sb strings.Builder
	var title string

	// Tags to skip (non-content)
	skipTags := map[string]bool{
		"script": true, "style": true, "nav": true,
		"header": true, "footer": true, "aside": true,
		"noscript": true, "iframe": true,
	}

	var walk func(n *html.Node, inTitle bool)
	walk = func(n *html.Node, inTitle bool) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if n.Data == "title" {
				inTitle = true
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if inTitle && title == "" {
					title = text
				} else if !inTitle {
					sb.WriteString(text)
					sb.WriteString(" ")
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTitle)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "br":
				sb.WriteString("\n")
			}
		}
	}
	walk(doc, false)

	text := strings.Join(strings.Fields(sb.String()), " ")
	return &Page{Title: title, Text: strings.TrimSpace(text)}
}
