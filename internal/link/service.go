package link

import (
	"context"
	"fmt"
	"time"

	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/ogfetch"
	"github.com/linkden/api/internal/telemetry"
	"github.com/linkden/api/internal/urlnorm"
)

// DefaultOGTimeout bounds how long link creation waits for metadata.
const DefaultOGTimeout = 3 * time.Second

// Service orchestrates link creation: URL normalization, category
// resolution, best-effort metadata fetch, persistence.
type Service struct {
	repo      *Repository
	resolver  *category.Resolver
	og        ogfetch.Client
	ogTimeout time.Duration
	sink      *telemetry.Sink
}

func NewService(repo *Repository, resolver *category.Resolver, og ogfetch.Client, ogTimeout time.Duration, sink *telemetry.Sink) *Service {
	if ogTimeout <= 0 {
		ogTimeout = DefaultOGTimeout
	}
	if sink == nil {
		sink = telemetry.NewSink(nil)
	}
	return &Service{
		repo:      repo,
		resolver:  resolver,
		og:        og,
		ogTimeout: ogTimeout,
		sink:      sink,
	}
}

type CreateInput struct {
	URL      string
	Category category.Selector
}

// ResolveCategory applies the category selector for the user without
// touching any link row. Used by link edits.
func (s *Service) ResolveCategory(ctx context.Context, userID string, sel category.Selector) (*string, error) {
	return s.resolver.Resolve(ctx, userID, sel)
}

type ogOutcome struct {
	metadata *ogfetch.Metadata
	err      error
}

// Create runs the link-creation pipeline for one request.
//
// Validation failures (bad URL, bad category input) return before any row is
// written. The metadata fetch runs concurrently with category resolution
// under its own deadline, and its failure is never a creation failure: the
// link row is persisted with null metadata and the fetch error goes to
// telemetry as a warning. Only persistence errors fail the operation.
func (s *Service) Create(ctx context.Context, userID, token string, in CreateInput) (*Link, error) {
	normalizedURL, err := urlnorm.Normalize(in.URL)
	if err != nil {
		return nil, err
	}

	ogCtx, cancel := context.WithTimeout(ctx, s.ogTimeout)
	defer cancel()

	ogCh := make(chan ogOutcome, 1)
	go func() {
		md, fetchErr := s.og.Fetch(ogCtx, normalizedURL, token)
		ogCh <- ogOutcome{metadata: md, err: fetchErr}
	}()

	categoryID, err := s.resolver.Resolve(ctx, userID, in.Category)
	if err != nil {
		return nil, err
	}

	outcome := <-ogCh
	if outcome.err != nil {
		s.sink.Warn(ctx, "links", "create.fetch-og", outcome.err, "url", normalizedURL)
	}

	params := CreateParams{
		UserID:     userID,
		URL:        normalizedURL,
		CategoryID: categoryID,
	}
	if outcome.err == nil && outcome.metadata != nil {
		params.URL = outcome.metadata.URL
		params.Title = outcome.metadata.Title
		params.Description = outcome.metadata.Description
		params.ImageURL = outcome.metadata.ImageURL
	}

	created, err := s.repo.Create(ctx, params)
	if err != nil {
		s.sink.Error(ctx, "links", "create", err, "url_length", len(normalizedURL))
		return nil, fmt.Errorf("creating link: %w", err)
	}
	return created, nil
}
