package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorage_CRUD(t *testing.T) {
	cases := []struct {
		desc string
		run  func(t *testing.T, s storage.Storage)
	}{
		{
			desc: "create and get",
			run: func(t *testing.T, s storage.Storage) {
				require.NoError(t, s.Create(context.Background(), "k1", "v1"))
				v, err := s.Get(context.Background(), "k1")
				require.NoError(t, err)
				assert.Equal(t, "v1", v)
			},
		},
		{
			desc: "create duplicate key",
			run: func(t *testing.T, s storage.Storage) {
				require.NoError(t, s.Create(context.Background(), "k1", "v1"))
				assert.ErrorIs(t, s.Create(context.Background(), "k1", "v2"), errors.ErrEntityExists)
			},
		},
		{
			desc: "create empty key",
			run: func(t *testing.T, s storage.Storage) {
				assert.ErrorIs(t, s.Create(context.Background(), "", "v"), errors.ErrEmptyKey)
			},
		},
		{
			desc: "get missing key",
			run: func(t *testing.T, s storage.Storage) {
				_, err := s.Get(context.Background(), "absent")
				assert.ErrorIs(t, err, errors.ErrNotFound)
			},
		},
		{
			desc: "update existing key",
			run: func(t *testing.T, s storage.Storage) {
				require.NoError(t, s.Create(context.Background(), "k1", "v1"))
				require.NoError(t, s.Update(context.Background(), "k1", "v2"))
				v, err := s.Get(context.Background(), "k1")
				require.NoError(t, err)
				assert.Equal(t, "v2", v)
			},
		},
		{
			desc: "update missing key",
			run: func(t *testing.T, s storage.Storage) {
				assert.ErrorIs(t, s.Update(context.Background(), "absent", "v"), errors.ErrNotFound)
			},
		},
		{
			desc: "delete is idempotent",
			run: func(t *testing.T, s storage.Storage) {
				require.NoError(t, s.Create(context.Background(), "k1", "v1"))
				require.NoError(t, s.Delete(context.Background(), "k1"))
				require.NoError(t, s.Delete(context.Background(), "k1"))
				_, err := s.Get(context.Background(), "k1")
				assert.ErrorIs(t, err, errors.ErrNotFound)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tc.run(t, storage.NewInMemoryStorage())
		})
	}
}

func TestInMemoryStorage_ListPagination(t *testing.T) {
	s := storage.NewInMemoryStorage()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(context.Background(), fmt.Sprintf("k%d", i), i))
	}

	page, total, err := s.List(context.Background(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, []interface{}{0, 1, 2}, page)

	page, total, err = s.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, []interface{}{3, 4}, page)

	page, total, err = s.List(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	assert.Empty(t, page)
}
