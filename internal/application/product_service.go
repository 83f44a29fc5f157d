package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

// ProductService is the read side of the catalog. The relational store is
// authoritative; Elasticsearch only backs the supplementary name
// suggestions and is optional.
type ProductService struct {
	Store   repository.Factory
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewProductService(store repository.Factory, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ProductService {
	return &ProductService{Store: store, Logger: logger, ES: es, ESIndex: esIndex}
}

// GetAllProducts returns the full catalog with options eagerly loaded.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, operationFailed("products could not be retrieved right now", err)
	}
	defer st.Release()

	products, err := st.Products().GetAll(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("product catalog load failed")
		return nil, operationFailed("products could not be retrieved right now", err)
	}
	return products, nil
}

// Search filters the catalog by substring name match (case-insensitive)
// and/or exact active flag; both filters are AND-combined when present.
// The result order is stable for unchanged store state.
func (s *ProductService) Search(ctx context.Context, namePattern *string, isActive *bool) ([]entity.Product, error) {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, operationFailed("product search could not be completed", err)
	}
	defer st.Release()

	products, err := st.Products().Search(ctx, namePattern, isActive)
	if err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"name":   strValue(namePattern),
			"active": boolValue(isActive),
		}).Error("product search failed")
		return nil, operationFailed("product search could not be completed", err)
	}
	return products, nil
}

func strValue(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func boolValue(p *bool) string {
	if p == nil {
		return "<nil>"
	}
	return strconv.FormatBool(*p)
}

// IndexProduct pushes the product name into the suggestion index. No-op
// when Elasticsearch is not configured.
func (s *ProductService) IndexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"active":   p.Active,
		"supplier": p.SupplierName,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

// SuggestNames returns product name suggestions for a partial query.
// Purely advisory; the store search above stays authoritative.
func (s *ProductService) SuggestNames(ctx context.Context, q string, size int) ([]string, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []string{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"match_phrase_prefix": map[string]any{
				"name": q,
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Name string `json:"name"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.Name)
	}
	return out, nil
}
