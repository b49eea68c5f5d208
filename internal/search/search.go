package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer keeps a full-text copy of the active catalog. Search returns book
// ids in relevance order; callers hydrate them from the database.
type Indexer interface {
	Index(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (int64, []uint, error)
	Reindex(ctx context.Context, books []models.Book) error
	Enabled() bool
}

type Document struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	ISBN      string `json:"isbn"`
	Synopsis  string `json:"synopsis"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
}

func DocumentFrom(b *models.Book) Document {
	d := Document{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		ISBN:      b.ISBN,
		Synopsis:  b.Synopsis,
		Price:     b.Price,
	}
	if b.Category != nil {
		d.Category = b.Category.Name
	}
	return d
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}
	return client, nil
}

func NewElastic(client *elasticsearch.Client, index string) *Elastic {
	return &Elastic{es: client, index: index}
}

func (e *Elastic) Enabled() bool { return true }

func responseError(op string, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, status, bytes.TrimSpace(msg))
}

func (e *Elastic) Index(ctx context.Context, b *models.Book) error {
	if !b.Active() {
		return e.Delete(ctx, b.ID)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocumentFrom(b)); err != nil {
		return err
	}

	res, err := e.es.Index(e.index, &buf,
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.FormatUint(uint64(b.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (e *Elastic) Delete(ctx context.Context, id uint) error {
	res, err := e.es.Delete(e.index, strconv.FormatUint(uint64(id), 10),
		e.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, q string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "author^2", "publisher", "synopsis"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return r.Hits.Total.Value, ids, nil
}

// Reindex writes every book through the bulk API.
func (e *Elastic) Reindex(ctx context.Context, books []models.Book) error {
	if len(books) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range books {
		meta := map[string]any{"index": map[string]any{"_id": strconv.FormatUint(uint64(books[i].ID), 10)}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(DocumentFrom(&books[i])); err != nil {
			return err
		}
	}

	res, err := e.es.Bulk(&buf,
		e.es.Bulk.WithContext(ctx),
		e.es.Bulk.WithIndex(e.index),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk", res.Status(), res.Body)
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return err
	}
	if r.Errors {
		return fmt.Errorf("elasticsearch bulk: some documents failed")
	}
	return nil
}

// Nop is used when no Elasticsearch URL is configured.
type Nop struct{}

func (Nop) Index(context.Context, *models.Book) error                       { return nil }
func (Nop) Delete(context.Context, uint) error                              { return nil }
func (Nop) Search(context.Context, string, int, int) (int64, []uint, error) { return 0, nil, nil }
func (Nop) Reindex(context.Context, []models.Book) error                    { return nil }
func (Nop) Enabled() bool                                                   { return false }
