package ogfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linkden/api/internal/urlnorm"
)

const maxResponseSize = 1 << 20 // 1 MB

// CrawlerClient fetches metadata through an external crawler service:
// POST {"url": ...} with bearer auth, JSON response
// {"success": bool, "data": {url, title, description, image, site_name}}.
type CrawlerClient struct {
	endpoint string
	client   *http.Client
}

// NewCrawlerClient creates a CrawlerClient for the given endpoint. If client
// is nil, a default instrumented client is used; timeouts are imposed by the
// caller's context, not the client.
func NewCrawlerClient(endpoint string, client *http.Client) *CrawlerClient {
	if client == nil {
		client = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &CrawlerClient{endpoint: endpoint, client: client}
}

// Upstream fields are untyped on purpose: the crawler is not trusted to
// return well-formed values, so everything is coerced.
type crawlerPayload struct {
	URL         any `json:"url"`
	Title       any `json:"title"`
	Description any `json:"description"`
	Image       any `json:"image"`
	SiteName    any `json:"site_name"`
}

type crawlerResponse struct {
	Success bool            `json:"success"`
	Data    *crawlerPayload `json:"data"`
}

func (c *CrawlerClient) Fetch(ctx context.Context, rawURL, token string) (*Metadata, error) {
	body, err := json.Marshal(map[string]string{"url": rawURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling crawler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	var parsed crawlerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&parsed); err != nil {
		return nil, ErrMalformedResponse
	}
	if !parsed.Success || parsed.Data == nil {
		return nil, ErrNoMetadata
	}

	md := &Metadata{
		URL:         rawURL,
		Title:       coerceText(parsed.Data.Title, maxTitleLen),
		Description: coerceText(parsed.Data.Description, maxDescriptionLen),
		ImageURL:    coerceHTTPURL(parsed.Data.Image),
	}

	// The upstream's url field is re-validated; on failure the originally
	// requested URL stands.
	if s, ok := parsed.Data.URL.(string); ok {
		if normalized, err := urlnorm.Normalize(s); err == nil {
			md.URL = normalized
		}
	}

	return md, nil
}
