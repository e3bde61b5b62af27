package curseforge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonwraymond/modmeta/pace"
)

// ErrNotFound is the registry's definitive "no such project" answer. It
// covers 404, 403, and 429: all three mean the registry has nothing
// usable for the slug right now, and none of them warrant a retry against
// this registry for this key.
var ErrNotFound = errors.New("curseforge: project not found")

// Config configures the registry client.
type Config struct {
	// BaseURL is the single-slug lookup root; the slug is appended as a
	// path segment.
	// Default: "https://api.cfwidget.com/minecraft/mc-mods"
	BaseURL string

	// APIKey, when set, is sent in the x-api-key header.
	APIKey string

	// HTTPClient is the HTTP client to use for requests.
	// If nil, a default client with 15s timeout is used.
	HTTPClient *http.Client

	// UserAgent identifies the caller to the registry.
	UserAgent string

	// Limiter paces outgoing calls. Nil disables pacing.
	Limiter *pace.Limiter
}

// Metadata is the normalized lookup result.
type Metadata struct {
	// IconURL is the project icon, empty when the registry has none.
	IconURL string

	// DocURL is the best documentation link the registry offers.
	DocURL string
}

// Client talks to the single-lookup registry.
type Client struct {
	config Config
}

// NewClient creates a registry client, applying defaults for zero fields.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.cfwidget.com/minecraft/mc-mods"
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{config: config}
}

// project is the registry's wire representation, reduced to the fields
// the engine consumes. The icon appears either as a flat thumbnail URL or
// nested under logo.url depending on the project's age.
type project struct {
	Thumbnail string `json:"thumbnail"`
	Logo      struct {
		URL string `json:"url"`
	} `json:"logo"`
	URLs struct {
		Wiki       string `json:"wiki"`
		Source     string `json:"source"`
		CurseForge string `json:"curseforge"`
	} `json:"urls"`
}

// Lookup fetches a single project by slug.
//
// Outcomes: (metadata, nil) on success; (zero, ErrNotFound) when the
// registry definitively has nothing; (zero, other error) on transport
// failure. Callers fall back on both error classes but must only cache
// successes.
func (c *Client) Lookup(ctx context.Context, slug string) (Metadata, error) {
	if slug == "" {
		return Metadata{}, fmt.Errorf("curseforge: slug is required")
	}
	if err := c.config.Limiter.Wait(ctx); err != nil {
		return Metadata{}, err
	}

	endpoint := c.config.BaseURL + "/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("curseforge: create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if c.config.APIKey != "" {
		req.Header.Set("x-api-key", c.config.APIKey)
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("curseforge: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusForbidden, http.StatusTooManyRequests:
		return Metadata{}, ErrNotFound
	default:
		return Metadata{}, fmt.Errorf("curseforge: unexpected status: %d", resp.StatusCode)
	}

	var p project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Metadata{}, fmt.Errorf("curseforge: decode response: %w", err)
	}
	return normalize(p), nil
}

// normalize reduces a wire project to engine metadata. The doc link
// prefers the wiki, then the source repository, then the project page.
func normalize(p project) Metadata {
	icon := p.Thumbnail
	if icon == "" {
		icon = p.Logo.URL
	}
	doc := p.URLs.Wiki
	if doc == "" {
		doc = p.URLs.Source
	}
	if doc == "" {
		doc = p.URLs.CurseForge
	}
	return Metadata{IconURL: icon, DocURL: doc}
}
