package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type Options struct {
	URL       string
	User      string
	Password  string
	Index     string
	Transport http.RoundTripper
}

func NewClient(ctx context.Context, opts Options) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.User,
		Password:  opts.Password,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type SearchResult struct {
	Total int64
	Hits  []transport.SearchHit
}

type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (*SearchResult, error)
	Enabled() bool
}

type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
}

type productDoc struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

func docID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (x *ProductIndex) Enabled() bool { return true }

func (x *ProductIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Price:       p.Price,
	})
	if err != nil {
		return fmt.Errorf("encode product %d: %w", p.ID, err)
	}

	res, err := x.Client.Index(x.Index, bytes.NewReader(body),
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(docID(p.ID)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

// DeleteProduct treats a missing document as already deleted.
func (x *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(x.Index, docID(id), x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product %d: %s", id, res.Status())
	}
	return nil
}

func (x *ProductIndex) Search(ctx context.Context, query string, from, size int) (*SearchResult, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Index),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64    `json:"_score"`
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	out := &SearchResult{
		Total: r.Hits.Total.Value,
		Hits:  make([]transport.SearchHit, 0, len(r.Hits.Hits)),
	}
	for _, h := range r.Hits.Hits {
		out.Hits = append(out.Hits, transport.SearchHit{
			ID:          h.Source.ID,
			Name:        h.Source.Name,
			Description: h.Source.Description,
			Quantity:    h.Source.Quantity,
			Price:       h.Source.Price,
			Score:       h.Score,
		})
	}
	return out, nil
}

// Nop is used when no search cluster is configured.
type Nop struct{}

func (Nop) IndexProduct(context.Context, *models.Product) error { return nil }
func (Nop) DeleteProduct(context.Context, uint) error           { return nil }
func (Nop) Enabled() bool                                        { return false }

func (Nop) Search(context.Context, string, int, int) (*SearchResult, error) {
	return &SearchResult{Hits: []transport.SearchHit{}}, nil
}
