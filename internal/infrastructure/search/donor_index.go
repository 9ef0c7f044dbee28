package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

const (
	defaultSize = 20
	maxSize     = 100
	timeout     = 3 * time.Second
)

// DonorIndex stores donor views in Elasticsearch for filtered lookup.
type DonorIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewDonorIndex(es *elasticsearch.Client, index string) *DonorIndex {
	return &DonorIndex{es: es, index: index}
}

type donorDoc struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name"`
	Phone      string    `json:"phone"`
	City       string    `json:"city"`
	Age        int       `json:"age"`
	BloodGroup string    `json:"blood_group"`
	Hospital   string    `json:"hospital"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDoc(d *entity.DonorView) donorDoc {
	return donorDoc{
		ID:         d.ID,
		UserID:     d.UserID,
		UserName:   d.UserName,
		Phone:      d.Phone,
		City:       d.City,
		Age:        d.Age,
		BloodGroup: string(d.BloodGroup),
		Hospital:   d.Hospital,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
	}
}

func (d donorDoc) view() entity.DonorView {
	return entity.DonorView{
		Donor: entity.Donor{
			ID:         d.ID,
			UserID:     d.UserID,
			Phone:      d.Phone,
			City:       d.City,
			Age:        d.Age,
			BloodGroup: entity.BloodGroup(d.BloodGroup),
			Hospital:   d.Hospital,
			Status:     entity.DonorStatus(d.Status),
			CreatedAt:  d.CreatedAt,
		},
		UserName: d.UserName,
	}
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "user_id":     {"type": "long"},
      "user_name":   {"type": "text"},
      "phone":       {"type": "keyword", "index": false},
      "city":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "age":         {"type": "integer"},
      "blood_group": {"type": "keyword"},
      "hospital":    {"type": "text"},
      "status":      {"type": "keyword"},
      "created_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with keyword mappings for the filter fields.
// An existing index is left untouched.
func (x *DonorIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(strings.NewReader(indexMapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *DonorIndex) Index(ctx context.Context, d *entity.DonorView) error {
	b, err := json.Marshal(toDoc(d))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(d.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index donor %d: %s", d.ID, res.Status())
	}
	return nil
}

// Remove deletes a donor document. A missing document is not an error.
func (x *DonorIndex) Remove(ctx context.Context, donorID int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(donorID, 10)}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete donor %d: %s", donorID, res.Status())
	}
	return nil
}

func buildQuery(q entity.DonorSearchQuery) map[string]any {
	size := q.Size
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	var filter []map[string]any
	if q.BloodGroup != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"blood_group": string(q.BloodGroup)}})
	}
	if q.Status != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"status": string(q.Status)}})
	}
	var must []map[string]any
	if city := strings.TrimSpace(q.City); city != "" {
		must = append(must, map[string]any{"match": map[string]any{"city": city}})
	}
	boolQ := map[string]any{}
	if len(filter) > 0 {
		boolQ["filter"] = filter
	}
	if len(must) > 0 {
		boolQ["must"] = must
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQ},
		"sort":  []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
		"size":  size,
	}
}

func (x *DonorIndex) Search(ctx context.Context, q entity.DonorSearchQuery) ([]entity.DonorView, error) {
	b, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("search donors: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source donorDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.DonorView, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.view())
	}
	return out, nil
}

var _ repository.DonorIndex = (*DonorIndex)(nil)
