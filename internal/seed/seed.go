package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
)

const (
	DefaultCount = 50
	nameAttempts = 5
)

type Creator interface {
	Create(ctx context.Context, in transport.ProductInput) (*models.Product, error)
}

// Products inserts n random products through c. Generated names that are
// already taken get a numeric suffix.
func Products(ctx context.Context, c Creator, faker *gofakeit.Faker, n int) ([]*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "seed.products")

	out := make([]*models.Product, 0, n)
	for i := 0; i < n; i++ {
		base := faker.ProductName()
		in := transport.ProductInput{
			Name:        transport.StringField(base),
			Description: transport.StringField(faker.ProductDescription()),
			Quantity:    transport.NumberField(float64(faker.Number(1, 100))),
			Price:       transport.NumberField(float64(faker.Number(10, 100) * 100)),
		}

		var (
			prod *models.Product
			err  error
		)
		for attempt := 0; attempt < nameAttempts; attempt++ {
			prod, err = c.Create(ctx, in)
			if !errors.Is(err, service.ErrConflict) {
				break
			}
			in.Name = transport.StringField(fmt.Sprintf("%s %d", base, faker.Number(2, 99999)))
		}
		if err != nil {
			return out, fmt.Errorf("seed product %d: %w", i+1, err)
		}
		out = append(out, prod)
	}

	l.Info("seed_products_done", "count", len(out))
	return out, nil
}
