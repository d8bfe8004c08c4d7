package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/product_api/internal/es"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/mykafka"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/transport"
	"github.com/Skotchmaster/product_api/internal/util"
	"github.com/Skotchmaster/product_api/internal/validation"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
	Index  es.Indexer
}

type ProductPage struct {
	Items    []models.Product
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

// productAttrs holds validated values; nil members were not supplied.
type productAttrs struct {
	name        *string
	descSet     bool
	description *string
	quantity    *int64
	price       *float64
}

func (s *CatalogService) index() es.Indexer {
	if s.Index == nil {
		return es.Nop{}
	}
	return s.Index
}

func (s *CatalogService) List(ctx context.Context, f transport.ProductFilter, page int) (*ProductPage, error) {
	page = util.ClampPage(page, util.PageSize)
	offset, limit := util.Calculate(page, util.PageSize)

	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ProductPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  limit,
		LastPage: util.LastPage(total, limit),
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return prod, nil
}

func (s *CatalogService) Create(ctx context.Context, in transport.ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	attrs, vs := parseProduct(in, false)
	if attrs.name != nil && !vs.Has("name") {
		taken, err := s.Repo.ProductNameExists(ctx, *attrs.name)
		if err != nil {
			return nil, fmt.Errorf("check name: %w", err)
		}
		if taken {
			if len(vs) == 0 {
				l.Warn("product_create_error", "reason", "name already taken", "name", *attrs.name)
				return nil, newConflict("name")
			}
			vs.Unique("name", true)
		}
	}
	if err := vs.Err(); err != nil {
		l.Warn("product_create_error", "reason", "validation failed", "error", err)
		return nil, err
	}

	prod := &models.Product{
		Name:        *attrs.name,
		Description: attrs.description,
		Quantity:    *attrs.quantity,
		Price:       *attrs.price,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("product_create_error", "reason", "name already taken", "name", prod.Name)
			return nil, newConflict("name")
		}
		l.Error("product_create_error", "reason", "cannot add product to db", "error", err)
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, "product_created", prod)
	l.Info("create_product_success", "product_id", prod.ID)
	return prod, nil
}

// Update applies only the supplied members. Name uniqueness is not
// re-checked here; a clash surfaces from the database as a conflict.
func (s *CatalogService) Update(ctx context.Context, id uint, in transport.ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	attrs, vs := parseProduct(in, true)
	if err := vs.Err(); err != nil {
		l.Warn("product_update_error", "reason", "validation failed", "error", err)
		return nil, err
	}

	fields := make(map[string]any, 4)
	if attrs.name != nil {
		fields["name"] = *attrs.name
	}
	if attrs.descSet {
		if attrs.description == nil {
			fields["description"] = nil
		} else {
			fields["description"] = *attrs.description
		}
	}
	if attrs.quantity != nil {
		fields["quantity"] = *attrs.quantity
	}
	if attrs.price != nil {
		fields["price"] = *attrs.price
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		case errors.Is(err, repo.ErrDuplicate):
			l.Warn("product_update_error", "reason", "name already taken")
			return nil, newConflict("name")
		}
		l.Error("product_update_error", "reason", "cannot update product", "error", err)
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.afterWrite(ctx, "product_updated", prod)
	l.Info("update_product_success")
	return prod, nil
}

// Delete returns the product as it was immediately before removal.
func (s *CatalogService) Delete(ctx context.Context, id uint) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	prod, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		l.Error("product_delete_error", "reason", "cannot delete product from db", "error", err)
		return nil, fmt.Errorf("delete product: %w", err)
	}

	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	if err := s.index().DeleteProduct(ictx, id); err != nil {
		l.Error("search_index_failed", "op", "delete", "error", err)
	}
	cancel()

	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, map[string]any{
		"type":      "product_deleted",
		"productID": prod.ID,
	})
	l.Info("delete_product_success")
	return prod, nil
}

func (s *CatalogService) Search(ctx context.Context, q string, page int) (*es.SearchResult, error) {
	offset, limit := util.Calculate(page, util.PageSize)
	res, err := s.index().Search(ctx, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return res, nil
}

func (s *CatalogService) SearchEnabled() bool {
	return s.index().Enabled()
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, prod *models.Product) {
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	if err := s.index().IndexProduct(ictx, prod); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "op", "index", "product_id", prod.ID, "error", err)
	}
	cancel()

	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, map[string]any{
		"type":      eventType,
		"productID": prod.ID,
		"name":      prod.Name,
	})
}

// parseProduct checks every supplied member and, unless partial, that the
// required ones are present. All violations are collected.
func parseProduct(in transport.ProductInput, partial bool) (productAttrs, validation.Violations) {
	var (
		attrs productAttrs
		vs    validation.Violations
	)

	if in.Name.Set || !partial {
		if s, ok := in.Name.Text(); !in.Name.Set || in.Name.IsNull() {
			vs.Required("name", false)
		} else if vs.String("name", ok) {
			name := strings.TrimSpace(*s)
			if vs.Required("name", name != "") && vs.MaxLen("name", name, maxNameLen) {
				attrs.name = &name
			}
		}
	}

	if in.Description.Set {
		s, ok := in.Description.Text()
		if vs.String("description", ok) {
			attrs.descSet = true
			if s != nil {
				if d := strings.TrimSpace(*s); d != "" {
					attrs.description = &d
				}
			}
		}
	}

	if in.Quantity.Set || !partial {
		if !in.Quantity.Set || in.Quantity.IsNull() {
			vs.Required("quantity", false)
		} else {
			q, ok := in.Quantity.Int()
			if vs.Integer("quantity", ok) && vs.MinValue("quantity", float64(q), 0) {
				attrs.quantity = &q
			}
		}
	}

	if in.Price.Set || !partial {
		if !in.Price.Set || in.Price.IsNull() {
			vs.Required("price", false)
		} else {
			p, ok := in.Price.Float()
			if vs.Numeric("price", ok) && vs.MinValue("price", p, 0) {
				attrs.price = &p
			}
		}
	}

	return attrs, vs
}
