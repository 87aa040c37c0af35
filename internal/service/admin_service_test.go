package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/appcatalog/internal/db"
	"github.com/vbonduro/appcatalog/internal/domain"
	"github.com/vbonduro/appcatalog/internal/imagestore"
	"github.com/vbonduro/appcatalog/internal/imagestore/local"
	"github.com/vbonduro/appcatalog/internal/store"
	"github.com/vbonduro/appcatalog/internal/vision"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type stubDescriber struct {
	text  string
	err   error
	calls int
}

func (d *stubDescriber) Describe(_ context.Context, r io.Reader, _ string) (*vision.Description, error) {
	d.calls++
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	if d.err != nil {
		return nil, d.err
	}
	return &vision.Description{Text: d.text, RawResponse: d.text}, nil
}

type adminFixture struct {
	svc    *AdminService
	images imagestore.ImageStore
}

func newAdminFixture(t *testing.T, describer vision.Describer) adminFixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	images, err := local.NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	svc := NewAdminService(
		store.NewAppStore(d),
		store.NewStoreStore(d),
		store.NewReviewStore(d),
		store.NewUserStore(d),
		store.NewCertificateStore(d),
		images,
		describer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	svc.now = func() time.Time { return fixedNow }
	return adminFixture{svc: svc, images: images}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, ve.Fields, field)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func TestAdminCreateAppDefaults(t *testing.T) {
	f := newAdminFixture(t, nil)

	app, err := f.svc.CreateApp(context.Background(), AppInput{Name: "  Acme  "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", app.Name)
	assert.Equal(t, domain.AppTypeCommercial, app.Type)
	assert.Empty(t, app.Image)
	assert.True(t, fixedNow.Equal(app.DateAdded))
}

func TestAdminCreateAppValidation(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateApp(ctx, AppInput{Name: " "})
	requireFieldError(t, err, "name")

	long := make([]rune, maxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.CreateApp(ctx, AppInput{Name: string(long)})
	requireFieldError(t, err, "name")

	_, err = f.svc.CreateApp(ctx, AppInput{Name: "Acme", Type: "Z"})
	requireFieldError(t, err, "type")

	apps, err := f.svc.AllApps(ctx)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestAdminCreateAppWithImageDraftsDescription(t *testing.T) {
	describer := &stubDescriber{text: "A to-do list with reminders."}
	f := newAdminFixture(t, describer)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{
		Name:  "Tasks",
		Image: &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, describer.calls)
	assert.Equal(t, "A to-do list with reminders.", app.Description)
	require.NotEmpty(t, app.Image)

	rc, mimeType, err := f.images.Get(ctx, app.Image)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	assert.Equal(t, "image/png", mimeType)
}

func TestAdminCreateAppKeepsGivenDescription(t *testing.T) {
	describer := &stubDescriber{text: "drafted"}
	f := newAdminFixture(t, describer)

	app, err := f.svc.CreateApp(context.Background(), AppInput{
		Name:        "Tasks",
		Description: "Handwritten",
		Image:       &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, describer.calls)
	assert.Equal(t, "Handwritten", app.Description)
}

func TestAdminCreateAppDescriberFailureIsNotFatal(t *testing.T) {
	describer := &stubDescriber{err: errors.New("model offline")}
	f := newAdminFixture(t, describer)

	app, err := f.svc.CreateApp(context.Background(), AppInput{
		Name:  "Tasks",
		Image: &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, describer.calls)
	assert.Empty(t, app.Description)
	assert.NotEmpty(t, app.Image)
}

func TestAdminUpdateAppReplacesImage(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{
		Name:  "Acme",
		Image: &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)
	oldImage := app.Image

	updated, err := f.svc.UpdateApp(ctx, app.ID, AppInput{
		Name:        "Acme Pro",
		Type:        domain.AppTypeEnterprise,
		Description: "Now with more anvils",
		Image:       &ImageUpload{Data: pngBytes, MimeType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Pro", updated.Name)
	assert.Equal(t, domain.AppTypeEnterprise, updated.Type)
	assert.NotEqual(t, oldImage, updated.Image)

	_, _, err = f.images.Get(ctx, oldImage)
	assert.ErrorIs(t, err, imagestore.ErrNotFound)
}

func TestAdminUpdateAppKeepsImageWhenNoneUploaded(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{
		Name:  "Acme",
		Image: &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateApp(ctx, app.ID, AppInput{Name: "Acme", Type: domain.AppTypeOther})
	require.NoError(t, err)
	assert.Equal(t, app.Image, updated.Image)
}

func TestAdminUpdateAppMissing(t *testing.T) {
	f := newAdminFixture(t, nil)

	_, err := f.svc.UpdateApp(context.Background(), 99, AppInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrAppNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminDeleteAppRemovesImage(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{
		Name:  "Acme",
		Image: &ImageUpload{Data: pngBytes, MimeType: "image/png"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteApp(ctx, app.ID))

	view, err := f.svc.GetApp(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, view)

	_, _, err = f.images.Get(ctx, app.Image)
	assert.ErrorIs(t, err, imagestore.ErrNotFound)

	assert.ErrorIs(t, f.svc.DeleteApp(ctx, app.ID), ErrAppNotFound)
}

func TestAdminListAppsFilters(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme", Type: domain.AppTypeEnterprise, Description: "anvils"})
	require.NoError(t, err)
	_, err = f.svc.CreateApp(ctx, AppInput{Name: "Beta", Type: domain.AppTypeStartup})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return fixedNow.AddDate(0, 2, 0) }
	_, err = f.svc.CreateApp(ctx, AppInput{Name: "Gamma", Type: domain.AppTypeStartup})
	require.NoError(t, err)

	all, err := f.svc.ListApps(ctx, AppQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	startups, err := f.svc.ListApps(ctx, AppQuery{Type: domain.AppTypeStartup})
	require.NoError(t, err)
	require.Len(t, startups, 2)
	assert.Equal(t, "Beta", startups[0].Name)

	byDescription, err := f.svc.ListApps(ctx, AppQuery{Search: "ANVIL"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Acme", byDescription[0].Name)

	thisMonth, err := f.svc.ListApps(ctx, AppQuery{Added: WindowMonth})
	require.NoError(t, err)
	require.Len(t, thisMonth, 1)
	assert.Equal(t, "Gamma", thisMonth[0].Name)
}

func TestAdminReviews(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)
	user, err := f.svc.CreateUser(ctx, "wile")
	require.NoError(t, err)

	review, err := f.svc.AddReview(ctx, app.ID, ReviewInput{UserID: user.ID, Rating: 4, Comment: " Works great "})
	require.NoError(t, err)
	assert.Equal(t, "Works great", review.Comment)
	assert.Equal(t, 4, review.Rating)

	view, err := f.svc.GetApp(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "wile", view.Reviews[0].Username)
	assert.Len(t, view.Users, 1)

	require.NoError(t, f.svc.DeleteReview(ctx, review.ID))
	assert.ErrorIs(t, f.svc.DeleteReview(ctx, review.ID), store.ErrNotFound)
}

func TestAdminAddReviewValidation(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	app, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.AddReview(ctx, app.ID, ReviewInput{Rating: 5, Comment: "ok"})
	requireFieldError(t, err, "user")

	_, err = f.svc.AddReview(ctx, app.ID, ReviewInput{UserID: 42, Rating: 5, Comment: "ok"})
	requireFieldError(t, err, "user")

	user, err := f.svc.CreateUser(ctx, "wile")
	require.NoError(t, err)
	_, err = f.svc.AddReview(ctx, app.ID, ReviewInput{UserID: user.ID, Rating: 5})
	requireFieldError(t, err, "comment")

	_, err = f.svc.AddReview(ctx, app.ID+1, ReviewInput{UserID: user.ID, Comment: "ok"})
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestAdminUsers(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateUser(ctx, "")
	requireFieldError(t, err, "username")

	user, err := f.svc.CreateUser(ctx, "roadrunner")
	require.NoError(t, err)

	_, err = f.svc.CreateUser(ctx, " roadrunner ")
	requireFieldError(t, err, "username")

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, f.svc.DeleteUser(ctx, user.ID))
	users, err = f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAdminStores(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	acme, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)
	beta, err := f.svc.CreateApp(ctx, AppInput{Name: "Beta"})
	require.NoError(t, err)

	mainSt, err := f.svc.CreateStore(ctx, StoreInput{Name: "Main St", Location: "Springfield", AppIDs: []int64{acme.ID}})
	require.NoError(t, err)
	_, err = f.svc.CreateStore(ctx, StoreInput{Name: "5th Ave", Location: "New York", AppIDs: []int64{acme.ID}})
	require.NoError(t, err)

	carrying, err := f.svc.ListStores(ctx, StoreQuery{AppID: acme.ID})
	require.NoError(t, err)
	require.Len(t, carrying, 2)
	assert.Equal(t, "5th Ave", carrying[0].Name)

	byLocation, err := f.svc.ListStores(ctx, StoreQuery{Search: "spring"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)

	require.NoError(t, f.svc.UpdateStore(ctx, mainSt.ID, StoreInput{Name: "Main St", Location: "Shelbyville", AppIDs: []int64{beta.ID}}))

	view, err := f.svc.GetStore(ctx, mainSt.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Shelbyville", view.Location)
	assert.Equal(t, []int64{beta.ID}, view.AppIDs)
	assert.True(t, view.Carries(beta.ID))
	assert.False(t, view.Carries(acme.ID))
	require.Len(t, view.Apps, 1)
	assert.Equal(t, "Beta", view.Apps[0].Name)

	require.NoError(t, f.svc.DeleteStore(ctx, mainSt.ID))
	view, err = f.svc.GetStore(ctx, mainSt.ID)
	require.NoError(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, f.svc.DeleteStore(ctx, mainSt.ID), ErrNotFound)
}

func TestAdminStoreValidation(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateStore(ctx, StoreInput{})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "location")

	_, err = f.svc.CreateStore(ctx, StoreInput{Name: "Main St", Location: "Springfield", AppIDs: []int64{7}})
	requireFieldError(t, err, "apps")
}

func TestAdminCertificates(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	acme, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)

	validUntil := fixedNow.AddDate(1, 0, 0)
	cert, err := f.svc.CreateCertificate(ctx, CertificateInput{AppID: acme.ID, ValidUntil: validUntil})
	require.NoError(t, err)
	assert.Len(t, cert.CertificateNumber, 36, "blank number becomes a UUID")
	assert.Equal(t, "2025-06-15", cert.IssueDate.Format("2006-01-02"))
	assert.True(t, validUntil.Equal(cert.ValidUntil))

	_, err = f.svc.CreateCertificate(ctx, CertificateInput{AppID: acme.ID, Number: "X-1", ValidUntil: validUntil})
	requireFieldError(t, err, "app")

	certs, err := f.svc.ListCertificates(ctx, CertificateQuery{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "Acme", certs[0].AppName)

	issuedToday, err := f.svc.ListCertificates(ctx, CertificateQuery{Issued: WindowToday})
	require.NoError(t, err)
	assert.Len(t, issuedToday, 1)

	expiringThisYear, err := f.svc.ListCertificates(ctx, CertificateQuery{ValidUntil: WindowYear})
	require.NoError(t, err)
	assert.Empty(t, expiringThisYear)

	require.NoError(t, f.svc.DeleteCertificate(ctx, cert.ID))
	certs, err = f.svc.ListCertificates(ctx, CertificateQuery{})
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestAdminCertificateValidation(t *testing.T) {
	f := newAdminFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CreateCertificate(ctx, CertificateInput{AppID: 12, ValidUntil: fixedNow})
	requireFieldError(t, err, "app")

	acme, err := f.svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.CreateCertificate(ctx, CertificateInput{AppID: acme.ID})
	requireFieldError(t, err, "valid_until")

	cert, err := f.svc.CreateCertificate(ctx, CertificateInput{
		AppID:      acme.ID,
		Number:     "CERT-001",
		IssueDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		ValidUntil: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "CERT-001", cert.CertificateNumber)
	assert.Equal(t, "2024-01-02", cert.IssueDate.Format("2006-01-02"))
}

// staleCertificates reports no existing certificate, as a concurrent request
// sees before another one inserts.
type staleCertificates struct {
	*store.CertificateStore
}

func (staleCertificates) GetByAppID(context.Context, int64) (*domain.Certificate, error) {
	return nil, nil
}

// staleUsers reports every username as free.
type staleUsers struct {
	*store.UserStore
}

func (staleUsers) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func TestAdminDuplicateInsertAfterCheckIsValidationError(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	images, err := local.NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	svc := NewAdminService(
		store.NewAppStore(d),
		store.NewStoreStore(d),
		store.NewReviewStore(d),
		staleUsers{store.NewUserStore(d)},
		staleCertificates{store.NewCertificateStore(d)},
		images,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	ctx := context.Background()

	acme, err := svc.CreateApp(ctx, AppInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.CreateCertificate(ctx, CertificateInput{AppID: acme.ID, ValidUntil: fixedNow})
	require.NoError(t, err)
	_, err = svc.CreateCertificate(ctx, CertificateInput{AppID: acme.ID, ValidUntil: fixedNow})
	requireFieldError(t, err, "app")

	_, err = svc.CreateUser(ctx, "wile")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "wile")
	requireFieldError(t, err, "username")
}
