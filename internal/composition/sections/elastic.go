package sections

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"brand-content-engine/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticFinder searches a keyword-mapped section index.
type ElasticFinder struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticFinder(es *elasticsearch.Client, index string) *ElasticFinder {
	return &ElasticFinder{es: es, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Section `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (f *ElasticFinder) FindSections(ctx context.Context, q SectionQuery) ([]models.Section, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode section query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{f.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, f.es)
	if err != nil {
		return nil, fmt.Errorf("search sections %s: %w", q.Category, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search sections %s: %s", q.Category, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode section hits: %w", err)
	}

	out := make([]models.Section, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

// buildSearchBody mirrors the SQL filters as a bool query of term and terms
// clauses, sorted by id.
func buildSearchBody(q SectionQuery) map[string]interface{} {
	filters := []interface{}{}

	term := func(field, value string) {
		if value != "" {
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	terms := func(field string, values []string) {
		if len(values) > 0 {
			filters = append(filters, map[string]interface{}{
				"terms": map[string]interface{}{field: values},
			})
		}
	}

	term("category", normalize(q.Category))
	term("contentType", normalize(q.ContentType))
	term("conversionGoal", normalize(q.ConversionGoal))
	terms("intentKeywords", normalizeList(q.IntentKeywords))
	terms("platformOptimized", normalizeList(q.Platforms))

	return map[string]interface{}{
		"size": q.limit(),
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
}
