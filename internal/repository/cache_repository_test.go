package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "dominest:calendar:2024-03", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "dominest:calendar:2024-03", []string{"x"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "dominest:calendar:2024-03"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "dominest:calendar:*"))
}
