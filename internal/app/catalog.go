package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"marzi/internal/domain"
)

// Sheet names on the upstream store. Packages may live on the default
// (unnamed) sheet depending on deployment, so its name is configured.
const (
	SheetItinerary    = "itinerary"
	SheetInclusions   = "inclusions"
	SheetExclusions   = "exclusions"
	SheetPolicies     = "policies"
	SheetDestinations = "destinations"
	SheetLeads        = "leads"
)

// CatalogService reads sheets through an optional cache and hands back
// normalized records. A non-positive TTL (or nil cache) means every read
// goes to the upstream.
type CatalogService struct {
	store         domain.SheetStore
	cache         domain.Cache
	cacheTTL      time.Duration
	packagesSheet string
}

func NewCatalogService(store domain.SheetStore, cache domain.Cache, ttl time.Duration, packagesSheet string) *CatalogService {
	return &CatalogService{store: store, cache: cache, cacheTTL: ttl, packagesSheet: packagesSheet}
}

// fetch is the shared cache-aside read: key by sheet, normalize on miss,
// cache the normalized value so hits skip coercion entirely.
func fetch[T any](ctx context.Context, s *CatalogService, sheet string, m func([]map[string]any) []T) ([]T, error) {
	key := "sheet:" + sheet
	if sheet == "" {
		key = "sheet:default"
	}
	if s.cache != nil && s.cacheTTL > 0 {
		var cached []T
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}
	rows, err := s.store.FetchSheet(ctx, sheet)
	if err != nil {
		return nil, err
	}
	out := m(rows)
	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *CatalogService) Packages(ctx context.Context) ([]domain.Package, error) {
	return fetch(ctx, s, s.packagesSheet, mapPackages)
}

func (s *CatalogService) Itinerary(ctx context.Context) ([]domain.ItineraryItem, error) {
	return fetch(ctx, s, SheetItinerary, mapItinerary)
}

func (s *CatalogService) Inclusions(ctx context.Context) ([]domain.InclusionItem, error) {
	return fetch(ctx, s, SheetInclusions, mapInclusions)
}

func (s *CatalogService) Exclusions(ctx context.Context) ([]domain.ExclusionItem, error) {
	return fetch(ctx, s, SheetExclusions, mapExclusions)
}

func (s *CatalogService) Policies(ctx context.Context) ([]domain.PolicyItem, error) {
	return fetch(ctx, s, SheetPolicies, mapPolicies)
}

func (s *CatalogService) Destinations(ctx context.Context) ([]domain.Destination, error) {
	return fetch(ctx, s, SheetDestinations, mapDestinations)
}

// PackageDetail assembles everything the package page needs. The five
// sheet reads are independent, so they run concurrently; the first
// failure cancels the rest.
func (s *CatalogService) PackageDetail(ctx context.Context, id string) (domain.PackageDetail, error) {
	var (
		pkgs []domain.Package
		itin []domain.ItineraryItem
		incl []domain.InclusionItem
		excl []domain.ExclusionItem
		plcy []domain.PolicyItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { pkgs, err = s.Packages(gctx); return })
	g.Go(func() (err error) { itin, err = s.Itinerary(gctx); return })
	g.Go(func() (err error) { incl, err = s.Inclusions(gctx); return })
	g.Go(func() (err error) { excl, err = s.Exclusions(gctx); return })
	g.Go(func() (err error) { plcy, err = s.Policies(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.PackageDetail{}, err
	}

	var found *domain.Package
	for i := range pkgs {
		if pkgs[i].ID == id {
			found = &pkgs[i]
			break
		}
	}
	if found == nil {
		return domain.PackageDetail{}, fmt.Errorf("package %q: %w", id, domain.ErrNotFound)
	}

	d := domain.PackageDetail{Package: *found}
	for _, it := range itin {
		if it.PackageID == id {
			d.Itinerary = append(d.Itinerary, it)
		}
	}
	// day order; equal days keep sheet order so multi-bullet days read top-down
	sort.SliceStable(d.Itinerary, func(i, j int) bool { return d.Itinerary[i].Day < d.Itinerary[j].Day })
	for _, it := range incl {
		if it.PackageID == id {
			d.Inclusions = append(d.Inclusions, it)
		}
	}
	for _, it := range excl {
		if it.PackageID == id {
			d.Exclusions = append(d.Exclusions, it)
		}
	}
	for _, it := range plcy {
		if it.PackageID == id {
			d.Policies = append(d.Policies, it)
		}
	}
	return d, nil
}

// DestinationPage assembles a destination and its packages.
func (s *CatalogService) DestinationPage(ctx context.Context, slug string) (domain.DestinationPage, error) {
	var (
		dests []domain.Destination
		pkgs  []domain.Package
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { dests, err = s.Destinations(gctx); return })
	g.Go(func() (err error) { pkgs, err = s.Packages(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.DestinationPage{}, err
	}

	var found *domain.Destination
	for i := range dests {
		if dests[i].Slug == slug {
			found = &dests[i]
			break
		}
	}
	if found == nil {
		return domain.DestinationPage{}, fmt.Errorf("destination %q: %w", slug, domain.ErrNotFound)
	}

	page := domain.DestinationPage{Destination: *found}
	for _, p := range pkgs {
		if p.Destination == slug {
			page.Packages = append(page.Packages, p)
		}
	}
	return page, nil
}
