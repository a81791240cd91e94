package database

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-content-engine/internal/common/config"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range schemaStatements {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	pg := &PostgresClient{DB: db}
	require.NoError(t, pg.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_StopsOnFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(schemaStatements[0]).WillReturnError(errors.New("permission denied"))

	pg := &PostgresClient{DB: db}
	err = pg.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Address: mr.Addr(), PoolSize: 4, DialTimeout: 500, ReadTimeout: 500}

	rdb := NewRedis(cfg)
	defer rdb.Close()

	require.NoError(t, rdb.Ping(context.Background()))
	stats := rdb.PoolStats()
	assert.Contains(t, stats, "total_conns")
	assert.Contains(t, stats, "hits")

	addr := mr.Addr()
	mr.Close()
	err := rdb.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestEnsureSectionsIndex(t *testing.T) {
	tests := []struct {
		name        string
		existsCode  int
		wantCreated bool
	}{
		{"creates missing index", http.StatusNotFound, true},
		{"keeps existing index", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				assert.Equal(t, "/layout_sections", r.URL.Path)
				switch r.Method {
				case http.MethodHead:
					w.WriteHeader(tt.existsCode)
				case http.MethodPut:
					body, _ := io.ReadAll(r.Body)
					created = string(body)
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(`{"acknowledged":true}`))
				default:
					t.Errorf("unexpected %s", r.Method)
				}
			}))
			defer srv.Close()

			es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
			require.NoError(t, err)
			require.NoError(t, es.EnsureSectionsIndex(context.Background(), "layout_sections"))

			if tt.wantCreated {
				assert.JSONEq(t, sectionsMapping, created)
			} else {
				assert.Empty(t, created)
			}
		})
	}
}
