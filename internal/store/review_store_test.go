package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/appcatalog/internal/domain"
)

func TestUserStoreCreateAndList(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	_, err := users.Create(ctx, "roadrunner")
	require.NoError(t, err)
	wile, err := users.Create(ctx, "coyote")
	require.NoError(t, err)
	assert.NotZero(t, wile.ID)
	assert.False(t, wile.DateJoined.IsZero())

	_, err = users.Create(ctx, "coyote")
	assert.ErrorIs(t, err, ErrDuplicate, "usernames are unique")

	got, err := users.GetByUsername(ctx, "coyote")
	require.NoError(t, err)
	assert.Equal(t, wile.ID, got.ID)

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "coyote", all[0].Username)
}

func TestReviewStoreListByAppID(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	apps := NewAppStore(d)
	users := NewUserStore(d)
	reviews := NewReviewStore(d)

	acme := createApp(t, apps, "Acme", domain.AppTypeCommercial)
	other := createApp(t, apps, "Other", domain.AppTypeOther)
	user, err := users.Create(ctx, "wile")
	require.NoError(t, err)

	now := time.Now()
	_, err = reviews.Create(ctx, acme.ID, user.ID, 2, "exploded", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = reviews.Create(ctx, acme.ID, user.ID, 4, "fixed", now)
	require.NoError(t, err)
	_, err = reviews.Create(ctx, other.ID, user.ID, 3, "meh", now)
	require.NoError(t, err)

	got, err := reviews.ListByAppID(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fixed", got[0].Comment)
	assert.Equal(t, 4, got[0].Rating)
	assert.Equal(t, "wile", got[0].Username)
	assert.Equal(t, "exploded", got[1].Comment)
}

func TestReviewStoreRequiresLiveAppAndUser(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	apps := NewAppStore(d)
	users := NewUserStore(d)
	reviews := NewReviewStore(d)

	acme := createApp(t, apps, "Acme", domain.AppTypeCommercial)
	user, err := users.Create(ctx, "wile")
	require.NoError(t, err)

	_, err = reviews.Create(ctx, 999, user.ID, 1, "no app", time.Now())
	assert.Error(t, err)
	_, err = reviews.Create(ctx, acme.ID, 999, 1, "no user", time.Now())
	assert.Error(t, err)
}

func TestUserDeleteCascadesReviews(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	apps := NewAppStore(d)
	users := NewUserStore(d)
	reviews := NewReviewStore(d)

	acme := createApp(t, apps, "Acme", domain.AppTypeCommercial)
	user, err := users.Create(ctx, "wile")
	require.NoError(t, err)
	review, err := reviews.Create(ctx, acme.ID, user.ID, 5, "great", time.Now())
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, user.ID))

	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, reviews.Delete(ctx, review.ID), ErrNotFound)
}
