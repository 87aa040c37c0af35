package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/appcatalog/internal/db"
	"github.com/vbonduro/appcatalog/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createApp(t *testing.T, s *AppStore, name string, appType domain.AppType) *domain.App {
	t.Helper()
	app, err := s.Create(context.Background(), &domain.App{
		Name:      name,
		Type:      appType,
		DateAdded: time.Now(),
	})
	require.NoError(t, err)
	return app
}

func TestAppStoreCreate(t *testing.T) {
	store := NewAppStore(openTestDB(t))
	added := time.Date(2025, 4, 13, 9, 30, 0, 0, time.UTC)

	app, err := store.Create(context.Background(), &domain.App{
		Name:        "Acme",
		Image:       "images/acme.png",
		DateAdded:   added,
		Type:        domain.AppTypeEnterprise,
		Description: "Everything for the coyote",
	})
	require.NoError(t, err)
	assert.NotZero(t, app.ID)
	assert.Equal(t, "Acme", app.Name)
	assert.Equal(t, "images/acme.png", app.Image)
	assert.Equal(t, domain.AppTypeEnterprise, app.Type)
	assert.Equal(t, "Everything for the coyote", app.Description)
	assert.True(t, added.Equal(app.DateAdded), "date_added = %v", app.DateAdded)
}

func TestAppStoreCreateRejectsUnknownType(t *testing.T) {
	store := NewAppStore(openTestDB(t))

	_, err := store.Create(context.Background(), &domain.App{Name: "Bad", Type: "Z", DateAdded: time.Now()})
	assert.Error(t, err)
}

func TestAppStoreGetByIDMissing(t *testing.T) {
	store := NewAppStore(openTestDB(t))

	app, err := store.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestAppStoreList(t *testing.T) {
	store := NewAppStore(openTestDB(t))
	createApp(t, store, "beta", domain.AppTypePersonal)
	createApp(t, store, "Acme", domain.AppTypeCommercial)

	apps, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "Acme", apps[0].Name)
	assert.Equal(t, "beta", apps[1].Name)
}

func TestAppStoreListEmptyIsNotNil(t *testing.T) {
	store := NewAppStore(openTestDB(t))

	apps, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestAppStoreSearch(t *testing.T) {
	store := NewAppStore(openTestDB(t))
	ctx := context.Background()

	old, err := store.Create(ctx, &domain.App{
		Name:        "Ledger",
		Type:        domain.AppTypeBusiness,
		Description: "Double-entry bookkeeping",
		DateAdded:   time.Now().AddDate(-2, 0, 0),
	})
	require.NoError(t, err)
	createApp(t, store, "Notes", domain.AppTypePersonal)
	createApp(t, store, "Books", domain.AppTypeBusiness)

	byText, err := store.Search(ctx, AppFilter{Query: "BOOK"})
	require.NoError(t, err)
	require.Len(t, byText, 2)
	assert.Equal(t, "Books", byText[0].Name)
	assert.Equal(t, "Ledger", byText[1].Name)

	byType, err := store.Search(ctx, AppFilter{Type: domain.AppTypePersonal})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Notes", byType[0].Name)

	recent, err := store.Search(ctx, AppFilter{
		Type:  domain.AppTypeBusiness,
		Added: TimeRange{From: time.Now().AddDate(0, 0, -7), To: time.Now().Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Books", recent[0].Name)
	assert.NotEqual(t, old.ID, recent[0].ID)
}

func TestAppStoreUpdate(t *testing.T) {
	store := NewAppStore(openTestDB(t))
	ctx := context.Background()
	app := createApp(t, store, "Acme", domain.AppTypeCommercial)

	app.Name = "Acme Pro"
	app.Type = domain.AppTypeStartup
	app.Description = "now with rockets"
	require.NoError(t, store.Update(ctx, app))

	got, err := store.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Pro", got.Name)
	assert.Equal(t, domain.AppTypeStartup, got.Type)
	assert.Equal(t, "now with rockets", got.Description)
}

func TestAppStoreUpdateMissing(t *testing.T) {
	store := NewAppStore(openTestDB(t))

	err := store.Update(context.Background(), &domain.App{ID: 9, Name: "x", Type: domain.AppTypeOther})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAppStoreDelete(t *testing.T) {
	store := NewAppStore(openTestDB(t))
	ctx := context.Background()
	app := createApp(t, store, "Temp", domain.AppTypeOther)

	require.NoError(t, store.Delete(ctx, app.ID))

	got, err := store.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.Delete(ctx, app.ID), ErrNotFound)
}

func TestAppStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	apps := NewAppStore(d)
	stores := NewStoreStore(d)
	users := NewUserStore(d)
	reviews := NewReviewStore(d)
	certs := NewCertificateStore(d)

	app := createApp(t, apps, "Acme", domain.AppTypeCommercial)
	st, err := stores.Create(ctx, "Main St", "Springfield", []int64{app.ID})
	require.NoError(t, err)
	user, err := users.Create(ctx, "wile")
	require.NoError(t, err)
	review, err := reviews.Create(ctx, app.ID, user.ID, 5, "beep beep", time.Now())
	require.NoError(t, err)
	cert, err := certs.Create(ctx, app.ID, "CERT-1", time.Now(), time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)

	require.NoError(t, apps.Delete(ctx, app.ID))

	gotReview, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, gotReview)

	gotCert, err := certs.GetByID(ctx, cert.ID)
	require.NoError(t, err)
	assert.Nil(t, gotCert)

	ids, err := stores.AppIDs(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// The store itself survives; only membership goes.
	gotStore, err := stores.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotStore)
}
