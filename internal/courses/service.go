// Package courses serves the catalog to the web handlers, caching the
// Firestore reads that every listing page would otherwise repeat.
package courses

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/madspace-uw/madspace/internal/listing"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	departmentsKey = "departments"
	statsKey       = "stats"
	candidatesKey  = "candidates:"
)

// Source is the backing store, implemented by *firebase.Firestore.
type Source interface {
	CourseCandidates(ctx context.Context, department string) ([]types.Course, error)
	GetCourse(ctx context.Context, code string) (*types.Course, error)
	Departments(ctx context.Context) ([]types.Department, error)
	SiteStats(ctx context.Context) (types.SiteStats, error)
}

type Service struct {
	source   Source
	catalog  *cache.Cache
	stats    *cache.Cache
	statsTTL time.Duration
	log      *zap.Logger

	mu        sync.Mutex
	lastStats types.SiteStats
}

func NewService(source Source, catalogTTL, statsTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		source:   source,
		catalog:  cache.New(catalogTTL, 2*catalogTTL),
		stats:    cache.New(statsTTL, 2*statsTTL),
		statsTTL: statsTTL,
		log:      log,
	}
}

// ListCourses returns one page of courses matching q.
func (s *Service) ListCourses(ctx context.Context, q listing.Query) (listing.Result, error) {
	candidates, err := s.candidates(ctx, q.Department)
	if err != nil {
		return listing.Result{}, err
	}
	return listing.Apply(candidates, q), nil
}

func (s *Service) candidates(ctx context.Context, department string) ([]types.Course, error) {
	key := candidatesKey + strings.ToUpper(department)
	if cached, found := s.catalog.Get(key); found {
		return cached.([]types.Course), nil
	}

	courses, err := s.source.CourseCandidates(ctx, department)
	if err != nil {
		return nil, err
	}

	s.catalog.Set(key, courses, cache.DefaultExpiration)
	return courses, nil
}

// GetCourse always reads through so that a fresh review shows immediately.
func (s *Service) GetCourse(ctx context.Context, code string) (*types.Course, error) {
	return s.source.GetCourse(ctx, code)
}

// Departments lists department filter options. When the collection is empty
// or unreadable the built-in list is offered instead.
func (s *Service) Departments(ctx context.Context) []types.Department {
	if cached, found := s.catalog.Get(departmentsKey); found {
		return cached.([]types.Department)
	}

	departments, err := s.source.Departments(ctx)
	if err != nil {
		s.log.Warn("failed to load departments, using defaults", zap.Error(err))
		return defaultDepartments()
	}
	if len(departments) == 0 {
		departments = defaultDepartments()
	}

	s.catalog.Set(departmentsKey, departments, cache.DefaultExpiration)
	return departments
}

func defaultDepartments() []types.Department {
	departments := make([]types.Department, len(listing.DefaultDepartments))
	for i, code := range listing.DefaultDepartments {
		departments[i] = types.Department{Code: code, Name: code}
	}
	return departments
}

// SiteStats returns the home page counters. On failure the last good value
// is served, or zeros if there has never been one.
func (s *Service) SiteStats(ctx context.Context) types.SiteStats {
	if cached, found := s.stats.Get(statsKey); found {
		return cached.(types.SiteStats)
	}

	stats, err := s.source.SiteStats(ctx)
	if err != nil {
		s.log.Warn("failed to load site stats", zap.Error(err))
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.lastStats
	}

	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()

	s.stats.Set(statsKey, stats, cache.DefaultExpiration)
	return stats
}

// Invalidate drops cached catalog reads, called after a review changes a
// course's aggregates.
func (s *Service) Invalidate() {
	s.catalog.Flush()
	s.stats.Delete(statsKey)
}
