package service

import (
	"context"

	"bakery-system/internal/domain"
)

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	if req.Name == "" {
		return domain.Product{}, invalidf("product name is required")
	}
	if req.Price <= 0 {
		return domain.Product{}, invalidf("price must be a positive number of cents")
	}
	p, err := s.products.Save(ctx, domain.Product{Name: req.Name, Price: req.Price})
	if err != nil {
		return domain.Product{}, err
	}
	s.lg.Info("product_created", map[string]any{"product_id": p.ID, "name": p.Name})
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("product_deleted", map[string]any{"product_id": id})
	return nil
}

func (s *Service) ListPickupLocations(ctx context.Context) ([]domain.PickupLocation, error) {
	return s.locations.List(ctx)
}
