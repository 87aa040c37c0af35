package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vbonduro/appcatalog/internal/domain"
	"github.com/vbonduro/appcatalog/internal/imagestore"
	"github.com/vbonduro/appcatalog/internal/store"
	"github.com/vbonduro/appcatalog/internal/vision"
)

const (
	maxNameLen     = 100
	maxUsernameLen = 150

	msgDuplicateUsername    = "A user with that username already exists."
	msgDuplicateCertificate = "Certificate with this app already exists."
)

// appRepository is the subset of store.AppStore that AdminService requires.
type appRepository interface {
	Create(ctx context.Context, app *domain.App) (*domain.App, error)
	GetByID(ctx context.Context, id int64) (*domain.App, error)
	List(ctx context.Context) ([]*domain.App, error)
	Search(ctx context.Context, f store.AppFilter) ([]*domain.App, error)
	ListByStoreID(ctx context.Context, storeID int64) ([]*domain.App, error)
	Update(ctx context.Context, app *domain.App) error
	Delete(ctx context.Context, id int64) error
}

// storeRepository is the subset of store.StoreStore that AdminService requires.
type storeRepository interface {
	Create(ctx context.Context, name, location string, appIDs []int64) (*domain.Store, error)
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	Search(ctx context.Context, f store.StoreFilter) ([]*domain.Store, error)
	AppIDs(ctx context.Context, storeID int64) ([]int64, error)
	Update(ctx context.Context, id int64, name, location string, appIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// reviewRepository is the subset of store.ReviewStore that AdminService requires.
type reviewRepository interface {
	Create(ctx context.Context, appID, userID int64, rating int, comment string, dateAdded time.Time) (*domain.Review, error)
	ListByAppID(ctx context.Context, appID int64) ([]*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

// userRepository is the subset of store.UserStore that AdminService requires.
type userRepository interface {
	Create(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// certificateRepository is the subset of store.CertificateStore that AdminService requires.
type certificateRepository interface {
	Create(ctx context.Context, appID int64, number string, issueDate, validUntil time.Time) (*domain.Certificate, error)
	GetByAppID(ctx context.Context, appID int64) (*domain.Certificate, error)
	Search(ctx context.Context, f store.CertificateFilter) ([]*domain.Certificate, error)
	Delete(ctx context.Context, id int64) error
}

// AdminService backs the management pages: CRUD over every catalog entity.
type AdminService struct {
	apps         appRepository
	stores       storeRepository
	reviews      reviewRepository
	users        userRepository
	certificates certificateRepository
	images       imagestore.ImageStore
	describer    vision.Describer // nil disables description drafting
	logger       *slog.Logger
	now          func() time.Time
}

func NewAdminService(
	apps appRepository,
	stores storeRepository,
	reviews reviewRepository,
	users userRepository,
	certificates certificateRepository,
	images imagestore.ImageStore,
	describer vision.Describer,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		apps:         apps,
		stores:       stores,
		reviews:      reviews,
		users:        users,
		certificates: certificates,
		images:       images,
		describer:    describer,
		logger:       logger,
		now:          time.Now,
	}
}

// ---- Apps

type AppQuery struct {
	Search string
	Type   domain.AppType
	Added  DateWindow
}

type ImageUpload struct {
	Data     []byte
	MimeType string
}

type AppInput struct {
	Name        string
	Type        domain.AppType
	Description string
	Image       *ImageUpload // nil keeps the current image
}

func (s *AdminService) ListApps(ctx context.Context, q AppQuery) ([]*domain.App, error) {
	return s.apps.Search(ctx, store.AppFilter{
		Query: q.Search,
		Type:  q.Type,
		Added: q.Added.Range(s.now()),
	})
}

// AllApps lists every app for selection controls.
func (s *AdminService) AllApps(ctx context.Context) ([]*domain.App, error) {
	return s.apps.List(ctx)
}

func validateApp(in *AppInput) error {
	errs := fieldErrors{}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs.add("name", "This field is required.")
	} else if utf8.RuneCountInString(in.Name) > maxNameLen {
		errs.add("name", fmt.Sprintf("Ensure this value has at most %d characters.", maxNameLen))
	}
	if in.Type == "" {
		in.Type = domain.AppTypeCommercial
	}
	if !in.Type.Valid() {
		errs.add("type", "Select a valid choice.")
	}
	return errs.err()
}

func (s *AdminService) CreateApp(ctx context.Context, in AppInput) (*domain.App, error) {
	if err := validateApp(&in); err != nil {
		return nil, err
	}

	app := &domain.App{
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		DateAdded:   s.now(),
	}

	if in.Image != nil {
		key, err := s.saveImage(ctx, app.Name, in.Image)
		if err != nil {
			return nil, err
		}
		app.Image = key
		if strings.TrimSpace(app.Description) == "" {
			app.Description = s.draftDescription(ctx, in.Image)
		}
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		s.discardImage(ctx, app.Image)
		return nil, err
	}

	s.logger.Info("app created", "app_id", created.ID, "type", created.Type, "has_image", created.Image != "")
	return created, nil
}

func (s *AdminService) UpdateApp(ctx context.Context, appID int64, in AppInput) (*domain.App, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return nil, ErrAppNotFound
	}
	if err := validateApp(&in); err != nil {
		return nil, err
	}

	oldImage := app.Image
	app.Name = in.Name
	app.Type = in.Type
	app.Description = in.Description

	if in.Image != nil {
		key, err := s.saveImage(ctx, app.Name, in.Image)
		if err != nil {
			return nil, err
		}
		app.Image = key
	}

	if err := s.apps.Update(ctx, app); err != nil {
		if app.Image != oldImage {
			s.discardImage(ctx, app.Image)
		}
		return nil, err
	}

	if app.Image != oldImage {
		s.discardImage(ctx, oldImage)
	}
	return s.apps.GetByID(ctx, appID)
}

func (s *AdminService) DeleteApp(ctx context.Context, appID int64) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return ErrAppNotFound
	}

	if err := s.apps.Delete(ctx, appID); err != nil {
		return err
	}

	s.discardImage(ctx, app.Image)
	s.logger.Info("app deleted", "app_id", appID)
	return nil
}

// AdminAppView is the admin edit page for one app with its inline reviews.
type AdminAppView struct {
	*domain.App
	Reviews []*domain.Review
	Users   []*domain.User
}

// GetApp returns nil, nil when no app has the given id.
func (s *AdminService) GetApp(ctx context.Context, appID int64) (*AdminAppView, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return nil, nil
	}

	reviews, err := s.reviews.ListByAppID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &AdminAppView{App: app, Reviews: reviews, Users: users}, nil
}

func (s *AdminService) saveImage(ctx context.Context, prefix string, img *ImageUpload) (string, error) {
	key, err := s.images.Save(ctx, prefix, img.MimeType, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	s.logger.Debug("image saved", "storage_key", key, "bytes", len(img.Data))
	return key, nil
}

func (s *AdminService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, imagestore.ErrNotFound) {
		s.logger.Error("failed to delete image", "storage_key", key, "error", err)
	}
}

// draftDescription asks the describer for a description. Failures are logged
// and yield "", leaving the description empty.
func (s *AdminService) draftDescription(ctx context.Context, img *ImageUpload) string {
	if s.describer == nil {
		return ""
	}

	desc, err := s.describer.Describe(ctx, bytes.NewReader(img.Data), img.MimeType)
	if err != nil {
		s.logger.Warn("description draft failed", "error", err)
		return ""
	}

	s.logger.Info("description drafted", "chars", len(desc.Text))
	return desc.Text
}

// ---- Reviews

type ReviewInput struct {
	UserID  int64
	Rating  int
	Comment string
}

func (s *AdminService) AddReview(ctx context.Context, appID int64, in ReviewInput) (*domain.Review, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	if app == nil {
		return nil, ErrAppNotFound
	}

	errs := fieldErrors{}
	if in.UserID == 0 {
		errs.add("user", "This field is required.")
	} else {
		user, err := s.users.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			errs.add("user", "Select a valid choice. That choice is not one of the available choices.")
		}
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Comment == "" {
		errs.add("comment", "This field is required.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	return s.reviews.Create(ctx, appID, in.UserID, in.Rating, in.Comment, s.now())
}

func (s *AdminService) DeleteReview(ctx context.Context, reviewID int64) error {
	return s.reviews.Delete(ctx, reviewID)
}

// ---- Users

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	errs := fieldErrors{}
	switch {
	case username == "":
		errs.add("username", "This field is required.")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		errs.add("username", fmt.Sprintf("Ensure this value has at most %d characters.", maxUsernameLen))
	default:
		existing, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			errs.add("username", msgDuplicateUsername)
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, &ValidationError{Fields: map[string]string{"username": msgDuplicateUsername}}
	}
	return user, err
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

// ---- Stores

type StoreQuery struct {
	Search string
	AppID  int64
}

type StoreInput struct {
	Name     string
	Location string
	AppIDs   []int64
}

// StoreView is a store together with the apps it carries.
type StoreView struct {
	*domain.Store
	AppIDs []int64
	Apps   []*domain.App
}

// Carries reports whether the store's membership includes appID.
func (v *StoreView) Carries(appID int64) bool {
	for _, id := range v.AppIDs {
		if id == appID {
			return true
		}
	}
	return false
}

func (s *AdminService) ListStores(ctx context.Context, q StoreQuery) ([]*domain.Store, error) {
	return s.stores.Search(ctx, store.StoreFilter{Query: q.Search, AppID: q.AppID})
}

// GetStore returns nil, nil when no store has the given id.
func (s *AdminService) GetStore(ctx context.Context, storeID int64) (*StoreView, error) {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	if st == nil {
		return nil, nil
	}

	ids, err := s.stores.AppIDs(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store apps: %w", err)
	}

	apps, err := s.apps.ListByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store apps: %w", err)
	}

	return &StoreView{Store: st, AppIDs: ids, Apps: apps}, nil
}

func (s *AdminService) validateStore(ctx context.Context, in *StoreInput) error {
	errs := fieldErrors{}
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)

	for field, val := range map[string]string{"name": in.Name, "location": in.Location} {
		if val == "" {
			errs.add(field, "This field is required.")
		} else if utf8.RuneCountInString(val) > maxNameLen {
			errs.add(field, fmt.Sprintf("Ensure this value has at most %d characters.", maxNameLen))
		}
	}

	for _, appID := range in.AppIDs {
		app, err := s.apps.GetByID(ctx, appID)
		if err != nil {
			return fmt.Errorf("failed to get app: %w", err)
		}
		if app == nil {
			errs.add("apps", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", appID))
		}
	}

	return errs.err()
}

func (s *AdminService) CreateStore(ctx context.Context, in StoreInput) (*domain.Store, error) {
	if err := s.validateStore(ctx, &in); err != nil {
		return nil, err
	}

	st, err := s.stores.Create(ctx, in.Name, in.Location, in.AppIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("store created", "store_id", st.ID, "apps", len(in.AppIDs))
	return st, nil
}

func (s *AdminService) UpdateStore(ctx context.Context, storeID int64, in StoreInput) error {
	if err := s.validateStore(ctx, &in); err != nil {
		return err
	}
	return s.stores.Update(ctx, storeID, in.Name, in.Location, in.AppIDs)
}

func (s *AdminService) DeleteStore(ctx context.Context, storeID int64) error {
	return s.stores.Delete(ctx, storeID)
}

// ---- Certificates

type CertificateQuery struct {
	Search     string
	Issued     DateWindow
	ValidUntil DateWindow
}

type CertificateInput struct {
	AppID      int64
	Number     string    // blank generates a UUID
	IssueDate  time.Time // zero means today
	ValidUntil time.Time
}

func (s *AdminService) ListCertificates(ctx context.Context, q CertificateQuery) ([]*domain.Certificate, error) {
	now := s.now()
	return s.certificates.Search(ctx, store.CertificateFilter{
		Query:      q.Search,
		Issued:     q.Issued.Range(now),
		ValidUntil: q.ValidUntil.Range(now),
	})
}

func (s *AdminService) CreateCertificate(ctx context.Context, in CertificateInput) (*domain.Certificate, error) {
	errs := fieldErrors{}

	if in.AppID == 0 {
		errs.add("app", "This field is required.")
	} else {
		app, err := s.apps.GetByID(ctx, in.AppID)
		if err != nil {
			return nil, fmt.Errorf("failed to get app: %w", err)
		}
		if app == nil {
			errs.add("app", fmt.Sprintf("App with id %d does not exist.", in.AppID))
		} else {
			existing, err := s.certificates.GetByAppID(ctx, in.AppID)
			if err != nil {
				return nil, fmt.Errorf("failed to check certificate: %w", err)
			}
			if existing != nil {
				errs.add("app", msgDuplicateCertificate)
			}
		}
	}

	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		in.Number = uuid.NewString()
	} else if utf8.RuneCountInString(in.Number) > maxNameLen {
		errs.add("certificate_number", fmt.Sprintf("Ensure this value has at most %d characters.", maxNameLen))
	}

	if in.ValidUntil.IsZero() {
		errs.add("valid_until", "This field is required.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if in.IssueDate.IsZero() {
		in.IssueDate = s.now()
	}

	cert, err := s.certificates.Create(ctx, in.AppID, in.Number, in.IssueDate, in.ValidUntil)
	if errors.Is(err, store.ErrDuplicate) {
		// another request issued one after the check above
		return nil, &ValidationError{Fields: map[string]string{"app": msgDuplicateCertificate}}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("certificate issued", "certificate_id", cert.ID, "app_id", cert.AppID)
	return cert, nil
}

func (s *AdminService) DeleteCertificate(ctx context.Context, certificateID int64) error {
	return s.certificates.Delete(ctx, certificateID)
}
