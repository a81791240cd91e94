// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"

	"brand-content-engine/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// sectionsMapping keeps every list field a keyword so terms queries match
// exact values.
const sectionsMapping = `{
  "mappings": {
    "properties": {
      "id":                  {"type": "keyword"},
      "category":            {"type": "keyword"},
      "contentType":         {"type": "keyword"},
      "height":              {"type": "integer"},
      "intentKeywords":      {"type": "keyword"},
      "brandArchetypeMatch": {"type": "keyword"},
      "industryFit":         {"type": "keyword"},
      "platformOptimized":   {"type": "keyword"},
      "emotionalTone":       {"type": "keyword"},
      "conversionGoal":      {"type": "keyword"}
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureSectionsIndex creates the section index with its mapping when absent.
func (c *ElasticsearchClient) EnsureSectionsIndex(ctx context.Context, index string) error {
	exists, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch index check failed: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := c.Client.Indices.Create(index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(sectionsMapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index create failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index create error: %s", res.Status())
	}
	return nil
}
