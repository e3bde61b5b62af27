package modrinth

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

// MaxBatchSize is the registry's bulk endpoint limit.
const MaxBatchSize = 10

// ErrBatchTooLarge is returned when more than MaxBatchSize ids are passed
// to a single Projects call.
var ErrBatchTooLarge = errors.New("modrinth: batch exceeds max size")

// Config configures the registry client.
type Config struct {
	// BaseURL is the API root.
	// Default: "https://api.modrinth.com/v2"
	BaseURL string

	// SiteURL is the public site root, used to construct profile links
	// when a project carries no wiki or source URL.
	// Default: "https://modrinth.com"
	SiteURL string

	// HTTPClient is the HTTP client to use for requests.
	// If nil, a default client with 15s timeout is used.
	HTTPClient *http.Client

	// UserAgent identifies the caller to the registry.
	UserAgent string

	// Limiter paces outgoing calls. Nil disables pacing.
	Limiter *pace.Limiter
}

// Metadata is the normalized per-project result.
type Metadata struct {
	// IconURL is the project icon, empty when the registry has none.
	IconURL string

	// DocURL is the best documentation link: wiki, then source, then the
	// project's profile page.
	DocURL string
}

// Candidate is a search hit.
type Candidate struct {
	Slug  string
	Title string
}

// Client talks to the bulk registry.
type Client struct {
	config Config
}

// NewClient creates a registry client, applying defaults for zero fields.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.modrinth.com/v2"
	}
	if config.SiteURL == "" {
		config.SiteURL = "https://modrinth.com"
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{config: config}
}

// project is the registry's wire representation, reduced to the fields
// the engine consumes.
type project struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	IconURL   string `json:"icon_url"`
	WikiURL   string `json:"wiki_url"`
	SourceURL string `json:"source_url"`
}

// Projects looks up at most MaxBatchSize projects in one call. The result
// maps both slug and project id to the normalized metadata; ids absent
// from the response are simply absent from the map.
func (c *Client) Projects(ctx context.Context, ids []string) (map[string]Metadata, error) {
	if len(ids) == 0 {
		return map[string]Metadata{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	if err := c.config.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// The bulk endpoint takes the ids as a JSON array in the query string.
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("modrinth: encode ids: %w", err)
	}
	q := url.Values{}
	q.Set("ids", string(encoded))

	var projects []project
	if err := c.get(ctx, "/projects?"+q.Encode(), &projects); err != nil {
		return nil, err
	}

	results := make(map[string]Metadata, len(projects)*2)
	for _, p := range projects {
		m := c.normalize(p)
		if p.Slug != "" {
			results[p.Slug] = m
		}
		if p.ID != "" {
			results[p.ID] = m
		}
	}
	return results, nil
}

// SearchOptions narrows a Search call.
type SearchOptions struct {
	// Facet restricts hits to a platform category, e.g. "fabric".
	// Empty means unfiltered.
	Facet string

	// Limit caps the number of hits.
	// Default: 5
	Limit int
}

// searchResponse is the search endpoint's wire shape.
type searchResponse struct {
	Hits []struct {
		ProjectID string `json:"project_id"`
		Slug      string `json:"slug"`
		Title     string `json:"title"`
	} `json:"hits"`
}

// Search runs a free-text query and returns the hits in registry order.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if err := c.config.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", fmt.Sprintf("%d", opts.Limit))
	if opts.Facet != "" {
		facets, err := json.Marshal([][]string{{"categories:" + opts.Facet}})
		if err != nil {
			return nil, fmt.Errorf("modrinth: encode facets: %w", err)
		}
		q.Set("facets", string(facets))
	}

	var resp searchResponse
	if err := c.get(ctx, "/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		slug := h.Slug
		if slug == "" {
			slug = h.ProjectID
		}
		if slug == "" {
			continue
		}
		candidates = append(candidates, Candidate{Slug: slug, Title: h.Title})
	}
	return candidates, nil
}

// get issues a GET against the API root and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("modrinth: create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("modrinth: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("modrinth: unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("modrinth: decode response: %w", err)
	}
	return nil
}

// normalize reduces a wire project to engine metadata. The doc link
// prefers the wiki, then the source repository, then the profile page.
func (c *Client) normalize(p project) Metadata {
	doc := p.WikiURL
	if doc == "" {
		doc = p.SourceURL
	}
	if doc == "" {
		slug := p.Slug
		if slug == "" {
			slug = p.ID
		}
		doc = c.config.SiteURL + "/mod/" + slug
	}
	return Metadata{IconURL: p.IconURL, DocURL: doc}
}
