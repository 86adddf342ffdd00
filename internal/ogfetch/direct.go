package ogfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	maxRedirects   = 3
	dialTimeout    = 5 * time.Second
	userAgentValue = "linkdenbot/1.0 (+https://github.com/linkden/api)"
)

// DirectClient fetches the target page itself and parses its Open Graph meta
// tags. Used when no external crawler service is configured. The auth token
// is not needed for direct fetches and is ignored.
type DirectClient struct {
	client *http.Client
}

// NewDirectClient creates a DirectClient. If client is nil, an SSRF-safe
// default is used: DNS results pointing at private or loopback ranges are
// refused before any connection is made.
func NewDirectClient(client *http.Client) *DirectClient {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				DialContext: safeDialContext,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return &DirectClient{client: client}
}

func (c *DirectClient) Fetch(ctx context.Context, rawURL, _ string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgentValue)
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, ErrNoMetadata
	}

	og := parseOG(io.LimitReader(resp.Body, maxResponseSize))
	if og.title == "" && og.description == "" && og.image == "" {
		return nil, ErrNoMetadata
	}

	return &Metadata{
		URL:         rawURL,
		Title:       coerceText(og.title, maxTitleLen),
		Description: coerceText(og.description, maxDescriptionLen),
		ImageURL:    coerceHTTPURL(og.image),
	}, nil
}

type ogTags struct {
	title       string
	description string
	image       string
}

// parseOG extracts og:* meta tags, falling back to <title> and
// <meta name="description">. Parsing stops at <body>.
func parseOG(r io.Reader) ogTags {
	tokenizer := html.NewTokenizer(r)
	var tags ogTags
	var fallbackTitle, fallbackDesc string

	apply := func() ogTags {
		if tags.title == "" {
			tags.title = fallbackTitle
		}
		if tags.description == "" {
			tags.description = fallbackDesc
		}
		return tags
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return apply()

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tag := string(tn)

			if tag == "body" {
				return apply()
			}

			if tag == "title" && fallbackTitle == "" {
				if tokenizer.Next() == html.TextToken {
					fallbackTitle = strings.TrimSpace(string(tokenizer.Text()))
				}
				continue
			}

			if tag == "meta" && hasAttr {
				attrs := readAttrs(tokenizer)
				switch attrs["property"] {
				case "og:title":
					tags.title = attrs["content"]
				case "og:description":
					tags.description = attrs["content"]
				case "og:image":
					tags.image = attrs["content"]
				}
				if attrs["name"] == "description" && fallbackDesc == "" {
					fallbackDesc = attrs["content"]
				}
			}
		}
	}
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		key, val, more := z.TagAttr()
		if k := string(key); k != "" {
			attrs[k] = string(val)
		}
		if !more {
			break
		}
	}
	return attrs
}

// privateRanges are CIDR blocks for private / loopback IPs.
var privateRanges []*net.IPNet

func init() {
	for _, cidr := range []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, block, _ := net.ParseCIDR(cidr)
		privateRanges = append(privateRanges, block)
	}
}

func isPrivateIP(ip net.IP) bool {
	for _, block := range privateRanges {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// safeDialContext resolves DNS then rejects private IPs before connecting.
func safeDialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	for _, ip := range ips {
		if isPrivateIP(ip.IP) {
			return nil, fmt.Errorf("connection to private IP %s is not allowed", ip.IP)
		}
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
}
