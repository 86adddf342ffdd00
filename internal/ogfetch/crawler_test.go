package ogfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func crawlerOK(t *testing.T, data map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}))
}

func TestCrawlerFetch_MapsResponseFields(t *testing.T) {
	var gotMethod, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotBody = req["url"]

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"url":         "https://example.com/",
				"title":       "Example",
				"description": "Hello",
				"image":       "https://cdn.example.com/image.png",
				"site_name":   "Example Site",
			},
		})
	}))
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	md, err := c.Fetch(context.Background(), "https://input.example/", "tok-123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody != "https://input.example/" {
		t.Errorf("posted url = %q", gotBody)
	}

	if md.URL != "https://example.com/" {
		t.Errorf("url = %q", md.URL)
	}
	if md.Title == nil || *md.Title != "Example" {
		t.Errorf("title = %v", md.Title)
	}
	if md.Description == nil || *md.Description != "Hello" {
		t.Errorf("description = %v", md.Description)
	}
	if md.ImageURL == nil || *md.ImageURL != "https://cdn.example.com/image.png" {
		t.Errorf("image = %v", md.ImageURL)
	}
}

func TestCrawlerFetch_Non2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	_, err := c.Fetch(context.Background(), "https://input.example/", "")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("got %v, want UpstreamError", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", upstream.Status)
	}
}

func TestCrawlerFetch_InvalidJSONIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	if _, err := c.Fetch(context.Background(), "https://input.example/", ""); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("got %v, want ErrMalformedResponse", err)
	}
}

func TestCrawlerFetch_UnsuccessfulBodyIsNoMetadata(t *testing.T) {
	for name, body := range map[string]string{
		"success false": `{"success": false}`,
		"missing data":  `{"success": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			c := NewCrawlerClient(srv.URL, srv.Client())
			if _, err := c.Fetch(context.Background(), "https://input.example/", ""); !errors.Is(err, ErrNoMetadata) {
				t.Errorf("got %v, want ErrNoMetadata", err)
			}
		})
	}
}

func TestCrawlerFetch_FallsBackToInputURLWhenResponseURLUnsafe(t *testing.T) {
	srv := crawlerOK(t, map[string]any{
		"url":   "javascript:alert(1)",
		"title": "X",
	})
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	md, err := c.Fetch(context.Background(), "https://input.example/", "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if md.URL != "https://input.example/" {
		t.Errorf("url = %q, want requested url", md.URL)
	}
}

func TestCrawlerFetch_TrimsAndTruncatesFields(t *testing.T) {
	srv := crawlerOK(t, map[string]any{
		"url":         "https://example.com/",
		"title":       " " + strings.Repeat("t", 300) + " ",
		"description": " " + strings.Repeat("d", 2500) + " ",
		"image":       "not a url",
	})
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	md, err := c.Fetch(context.Background(), "https://input.example/", "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if md.Title == nil || utf8.RuneCountInString(*md.Title) != 200 {
		t.Errorf("title length = %v, want 200", md.Title)
	}
	if md.Description == nil || utf8.RuneCountInString(*md.Description) != 2000 {
		t.Errorf("description length = %v, want 2000", md.Description)
	}
	if md.ImageURL != nil {
		t.Errorf("image = %v, want nil for invalid url", *md.ImageURL)
	}
}

func TestCrawlerFetch_NonStringFieldsBecomeNil(t *testing.T) {
	srv := crawlerOK(t, map[string]any{
		"url":   "https://example.com/",
		"title": 42,
		"image": true,
	})
	defer srv.Close()

	c := NewCrawlerClient(srv.URL, srv.Client())
	md, err := c.Fetch(context.Background(), "https://input.example/", "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if md.Title != nil {
		t.Errorf("title = %v, want nil", *md.Title)
	}
	if md.ImageURL != nil {
		t.Errorf("image = %v, want nil", *md.ImageURL)
	}
}

func TestCrawlerFetch_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewCrawlerClient(srv.URL, srv.Client())
	start := time.Now()
	_, err := c.Fetch(ctx, "https://input.example/", "")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch took %v, deadline not honored", elapsed)
	}
}
