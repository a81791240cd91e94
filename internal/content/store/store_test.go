package store

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"brand-content-engine/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() *models.ContentMatrix {
	return &models.ContentMatrix{
		Headlines:   []string{"Brew Better Mornings"},
		CTAs:        []string{"Order Now"},
		VisualStyle: "warm minimal",
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "brand-1")
	assert.ErrorIs(t, err, ErrMatrixNotFound)

	require.NoError(t, s.Put(ctx, "brand-1", sampleMatrix()))
	assert.True(t, mr.Exists("content:matrix:brand-1"))
	assert.Equal(t, time.Hour, mr.TTL("content:matrix:brand-1"))

	got, err := s.Get(ctx, "brand-1")
	require.NoError(t, err)
	assert.Equal(t, sampleMatrix(), got)
}

func TestRedisStore_PutOverwrites(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "brand-1", sampleMatrix()))
	replacement := &models.ContentMatrix{Headlines: []string{"Second"}}
	require.NoError(t, s.Put(ctx, "brand-1", replacement))

	got, err := s.Get(ctx, "brand-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Second"}, got.Headlines)
	assert.Nil(t, got.CTAs)
	assert.Equal(t, time.Duration(0), mr.TTL("content:matrix:brand-1"))
}

func TestRedisStore_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, 0)
	ctx := context.Background()

	mock.ExpectGet("content:matrix:brand-1").SetErr(errors.New("connection reset"))
	_, err := s.Get(ctx, "brand-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMatrixNotFound)

	mock.ExpectGet("content:matrix:brand-2").SetVal("{not json")
	_, err = s.Get(ctx, "brand-2")
	assert.ErrorContains(t, err, "decode stored matrix")

	data, _ := json.Marshal(sampleMatrix())
	mock.ExpectSet("content:matrix:brand-3", data, 0).SetErr(errors.New("READONLY"))
	assert.ErrorContains(t, s.Put(ctx, "brand-3", sampleMatrix()), "READONLY")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore(db)

	data, _ := json.Marshal(sampleMatrix())
	mock.ExpectQuery(regexp.QuoteMeta(selectMatrixSQL)).
		WithArgs("brand-1").
		WillReturnRows(sqlmock.NewRows([]string{"matrix"}).AddRow(data))

	got, err := s.Get(context.Background(), "brand-1")
	require.NoError(t, err)
	assert.Equal(t, sampleMatrix(), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectMatrixSQL)).
		WithArgs("brand-x").
		WillReturnRows(sqlmock.NewRows([]string{"matrix"}))

	_, err = NewPostgresStore(db).Get(context.Background(), "brand-x")
	assert.ErrorIs(t, err, ErrMatrixNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	data, _ := json.Marshal(sampleMatrix())
	mock.ExpectExec(regexp.QuoteMeta(upsertMatrixSQL)).
		WithArgs("brand-1", data).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresStore(db).Put(context.Background(), "brand-1", sampleMatrix()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(upsertMatrixSQL)).
		WillReturnError(errors.New("connection refused"))

	err = NewPostgresStore(db).Put(context.Background(), "brand-1", sampleMatrix())
	assert.ErrorContains(t, err, "connection refused")
}
