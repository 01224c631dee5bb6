package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/testutil"
)

func TestProfileRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteProfileRepo(testutil.NewTestDB(t))
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_Upsert_InsertThenUpdate(t *testing.T) {
	repo := NewSQLiteProfileRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.UserProfile{
		UserID:     "u1",
		FullName:   "山田 太郎",
		Department: "経理部",
		Email:      "taro@example.com",
	}))
	first, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", first.FullName)
	assert.False(t, first.CreatedAt.IsZero())

	require.NoError(t, repo.Upsert(ctx, &domain.UserProfile{
		UserID:     "u1",
		FullName:   "山田 太郎",
		Department: "営業部",
		Email:      "taro@example.com",
	}))
	second, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "営業部", second.Department)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}
