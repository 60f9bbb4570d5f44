package products

import (
	"context"
	"log/slog"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/cache"
	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/pkg/errors"
)

// Service wraps the product endpoints. Product names are cached because the
// order list enriches every line item with them.
type Service struct {
	api     backend.Caller
	cache   cache.BytesCache
	nameTTL time.Duration
}

func New(api backend.Caller, c cache.BytesCache, nameTTL time.Duration) *Service {
	return &Service{api: api, cache: c, nameTTL: nameTTL}
}

func (s *Service) GetAll(ctx context.Context) ([]models.Product, error) {
	var res []models.ProductResource
	if err := s.api.Get(ctx, "/products", nil, &res); err != nil {
		slog.Error("fetch products", "err", err)
		return nil, err
	}
	out := make([]models.Product, 0, len(res))
	for _, r := range res {
		out = append(out, models.NewProduct(r))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, productID string) (models.Product, error) {
	if productID == "" {
		return models.Product{}, &models.ValidationError{Field: "productId", Reason: "required"}
	}
	var res models.ProductResource
	if err := s.api.Get(ctx, "/products/"+productID, nil, &res); err != nil {
		slog.Error("fetch product", "productId", productID, "err", err)
		return models.Product{}, err
	}
	return models.NewProduct(res), nil
}

// Names resolves display names for a set of product IDs, cache first. A miss
// is fetched and cached; a fetch failure fails the whole batch so callers can
// decide whether to degrade.
func (s *Service) Names(ctx context.Context, productIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(productIDs))
	var miss []string

	for _, id := range productIDs {
		if _, ok := out[id]; ok {
			continue
		}
		if s.cache != nil && s.nameTTL > 0 {
			b, ok, err := s.cache.Get(ctx, nameKey(id))
			if err == nil && ok {
				out[id] = string(b)
				continue
			}
		}
		miss = append(miss, id)
	}

	for _, id := range miss {
		p, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve product name %s", id)
		}
		out[id] = p.Name
		if s.cache != nil && s.nameTTL > 0 {
			_ = s.cache.Set(ctx, nameKey(id), []byte(p.Name), s.nameTTL)
		}
	}
	return out, nil
}

func nameKey(productID string) string {
	return "product:" + productID + ":name"
}
