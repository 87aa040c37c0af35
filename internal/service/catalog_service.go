package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/appcatalog/internal/domain"
)

//go:generate mockgen -source=catalog_service.go -destination=mocks_test.go -package=service

// appFinder is the subset of store.AppStore that CatalogService requires.
type appFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.App, error)
	List(ctx context.Context) ([]*domain.App, error)
}

// storeFinder is the subset of store.StoreStore that CatalogService requires.
type storeFinder interface {
	ListByAppID(ctx context.Context, appID int64) ([]*domain.Store, error)
}

// reviewFinder is the subset of store.ReviewStore that CatalogService requires.
type reviewFinder interface {
	ListByAppID(ctx context.Context, appID int64) ([]*domain.Review, error)
}

// certificateFinder is the subset of store.CertificateStore that CatalogService requires.
type certificateFinder interface {
	GetByAppID(ctx context.Context, appID int64) (*domain.Certificate, error)
}

// CatalogService serves the public, read-only side of the catalog.
type CatalogService struct {
	apps         appFinder
	stores       storeFinder
	reviews      reviewFinder
	certificates certificateFinder
	logger       *slog.Logger
}

func NewCatalogService(
	apps appFinder,
	stores storeFinder,
	reviews reviewFinder,
	certificates certificateFinder,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		apps:         apps,
		stores:       stores,
		reviews:      reviews,
		certificates: certificates,
		logger:       logger,
	}
}

func (s *CatalogService) ListApps(ctx context.Context) ([]*domain.App, error) {
	return s.apps.List(ctx)
}

// AppDetail bundles an app with everything its detail page shows.
type AppDetail struct {
	*domain.App
	Reviews     []*domain.Review
	Stores      []*domain.Store
	Certificate *domain.Certificate
}

// GetAppDetail returns nil, nil when no app has the given id.
func (s *CatalogService) GetAppDetail(ctx context.Context, appID int64) (*AppDetail, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return nil, nil
	}

	reviews, err := s.reviews.ListByAppID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	stores, err := s.stores.ListByAppID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	cert, err := s.certificates.GetByAppID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	return &AppDetail{App: app, Reviews: reviews, Stores: stores, Certificate: cert}, nil
}

// LookupStores returns every store that carries the app. An app no store
// carries yields an empty, non-nil slice. ErrAppNotFound is returned if the
// app itself does not exist.
func (s *CatalogService) LookupStores(ctx context.Context, appID int64) ([]*domain.Store, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return nil, ErrAppNotFound
	}

	stores, err := s.stores.ListByAppID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stores for app %d: %w", appID, err)
	}
	if stores == nil {
		stores = []*domain.Store{}
	}

	s.logger.Debug("store lookup", "app_id", appID, "stores", len(stores))
	return stores, nil
}
