package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crumbsugar/storefront/internal/pkg/cache"
)

var (
	ErrNotFound   = errors.New("catalog: product not found")
	ErrEmptyQuery = errors.New("catalog: search query is empty")
)

// Source is the upstream the catalog is read from (the content API client).
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	FAQs(ctx context.Context) ([]FAQ, error)
}

// Service serves catalog reads through a redis cache. A cache failure is
// never fatal: the service falls through to the content API and logs.
type Service struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	log    *slog.Logger
}

func NewService(source Source, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{source: source, cache: c, ttl: ttl, log: log}
}

// Products returns every published product, served from cache when warm.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	key := s.cache.GenerateKey("catalog", "products")

	var cached []Product
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.WarnContext(ctx, "catalog cache read failed, hitting content API", "error", err)
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, products, s.ttl); err != nil {
		s.log.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
	return products, nil
}

// Product looks a single product up by name.
func (s *Service) Product(ctx context.Context, name string) (Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.Name == name {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ProductBySlug looks a single product up by its URL slug.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
}

// Search returns products whose name or slug contains the query,
// case-insensitively. An empty query is rejected before any fetch.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Slug), q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// FAQs returns the published FAQ entries, cached like products.
func (s *Service) FAQs(ctx context.Context) ([]FAQ, error) {
	key := s.cache.GenerateKey("catalog", "faqs")

	var cached []FAQ
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.WarnContext(ctx, "faq cache read failed, hitting content API", "error", err)
	}

	faqs, err := s.source.FAQs(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, faqs, s.ttl); err != nil {
		s.log.WarnContext(ctx, "faq cache write failed", "error", err)
	}
	return faqs, nil
}
