package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/writethrough"
	"github.com/google/uuid"
)

// Reauthenticator is the slice of the auth service the profile store needs
// to change the sign-in email.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, ownerID uuid.UUID, password string) error
	ChangeEmail(ctx context.Context, ownerID uuid.UUID, email string) error
}

// UserStore holds the signed-in user's profile for one session. Mutations
// apply locally first and are persisted through the write-through queue.
type UserStore struct {
	mu        sync.Mutex
	ownerID   uuid.UUID
	authEmail string
	profile   *models.Profile
	lastSync  *writethrough.PendingSync

	// onEmailChanged is told about a new sign-in email after the change is stored.
	onEmailChanged func(ownerID uuid.UUID, email string)

	repo  repository.ProfileRepository
	queue writethrough.Enqueuer
	auth  Reauthenticator
}

func NewUserStore(repo repository.ProfileRepository, queue writethrough.Enqueuer, auth Reauthenticator) *UserStore {
	return &UserStore{repo: repo, queue: queue, auth: auth}
}

// LoadOrInitialize reads users/{ownerId}. A missing document is initialised
// from the account without writing it back.
func (s *UserStore) LoadOrInitialize(ctx context.Context, account *models.Account) (*models.ProfileResponse, error) {

	s.mu.Lock()
	if s.profile != nil && s.ownerID == account.ID {
		defer s.mu.Unlock()
		return s.snapshotLocked(), nil
	}
	s.mu.Unlock()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("ownerId", account.ID.String()))

	profile, found, err := s.repo.GetProfile(ctx, account.ID)
	if err != nil {
		logger.Error("Failed to load profile", slog.String("error", err.Error()))
		return nil, errors.DatabaseError("Failed to load profile").WithError(err)
	}

	if !found {
		logger.Info("No stored profile, initialising from account")
		profile = &models.Profile{
			OwnerID:   account.ID,
			Name:      account.DisplayName,
			Email:     account.Email,
			Phone:     account.Phone,
			Addresses: []models.Address{},
		}
	}

	if profile.Addresses == nil {
		profile.Addresses = []models.Address{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ownerID = account.ID
	s.authEmail = account.Email
	s.profile = profile
	s.lastSync = nil

	return s.snapshotLocked(), nil
}

// SelectedAddress returns a copy of the current shipping address, if any.
func (s *UserStore) SelectedAddress() *models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil || s.profile.SelectedAddress == nil {
		return nil
	}

	addr := *s.profile.SelectedAddress

	return &addr
}

// AddAddress appends a new address and makes it the selected one.
func (s *UserStore) AddAddress(ctx context.Context, req *models.AddAddressRequest) (*models.Address, *writethrough.PendingSync, error) {

	label := utils.SanitizeText(req.Label)
	details := utils.SanitizeText(req.Details)

	if label == "" {
		return nil, nil, errors.AddValidationError("label", "must not be empty")
	}

	if details == "" {
		return nil, nil, errors.AddValidationError("details", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, nil, errors.NotAuthenticatedError("Sign in to manage addresses")
	}

	addr := models.Address{ID: uuid.NewString(), Label: label, Details: details}

	s.profile.Addresses = append(s.profile.Addresses, addr)
	selected := addr
	s.profile.SelectedAddress = &selected

	pending := s.scheduleLocked(ctx, "profile.add_address")

	return &addr, pending, nil
}

// SelectAddress selects a saved address. Unknown ids leave the store untouched.
func (s *UserStore) SelectAddress(ctx context.Context, id string) (*models.Address, *writethrough.PendingSync, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, nil, errors.NotAuthenticatedError("Sign in to manage addresses")
	}

	for _, addr := range s.profile.Addresses {
		if addr.ID == id {
			selected := addr
			s.profile.SelectedAddress = &selected

			pending := s.scheduleLocked(ctx, "profile.select_address")

			return &addr, pending, nil
		}
	}

	return nil, nil, errors.AddressNotFoundError(id)
}

// UpdateProfile merges the fields present in req. Changing the email to one
// other than the signed-in identity requires the current password.
func (s *UserStore) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.ProfileResponse, *writethrough.PendingSync, error) {

	if req.Name == nil && req.Phone == nil && req.Email == nil && req.PhotoRef == nil {
		return nil, nil, errors.ValidationError("No profile fields to update")
	}

	var name, phone string

	if req.Name != nil {
		if name = utils.SanitizeText(*req.Name); name == "" {
			return nil, nil, errors.AddValidationError("name", "must not be empty")
		}
	}

	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}

	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return nil, nil, errors.NotAuthenticatedError("Sign in to update your profile")
	}
	ownerID, authEmail := s.ownerID, s.authEmail
	s.mu.Unlock()

	var newEmail string

	if req.Email != nil {

		newEmail = normalizeEmail(*req.Email)

		if newEmail != authEmail {

			if req.CurrentPassword == "" {
				return nil, nil, errors.ReauthenticationRequiredError("Current password is required to change email")
			}

			if err := s.auth.Reauthenticate(ctx, ownerID, req.CurrentPassword); err != nil {
				return nil, nil, err
			}

			if err := s.auth.ChangeEmail(ctx, ownerID, newEmail); err != nil {
				return nil, nil, err
			}

			middleware.LoggerFromContext(ctx).Info("Sign-in email changed", slog.String("ownerId", ownerID.String()))
		}
	}

	s.mu.Lock()

	// the session may have been signed out while the auth call was in flight
	if s.profile == nil || s.ownerID != ownerID {
		s.mu.Unlock()
		return nil, nil, errors.NotAuthenticatedError("Sign in to update your profile")
	}

	if req.Name != nil {
		s.profile.Name = name
	}

	if req.Phone != nil {
		s.profile.Phone = phone
	}

	if req.Email != nil {
		s.profile.Email = newEmail
		s.authEmail = newEmail
	}

	if req.PhotoRef != nil {
		s.profile.PhotoRef = *req.PhotoRef
	}

	pending := s.scheduleLocked(ctx, "profile.update")
	resp := s.snapshotLocked()
	notify := s.onEmailChanged
	s.mu.Unlock()

	if req.Email != nil && notify != nil {
		notify(ownerID, newEmail)
	}

	return resp, pending, nil
}

// Snapshot returns a copy of the profile and the state of its latest write.
func (s *UserStore) Snapshot() (*models.ProfileResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, errors.NotAuthenticatedError("Sign in to view your profile")
	}

	return s.snapshotLocked(), nil
}

func (s *UserStore) snapshotLocked() *models.ProfileResponse {
	return &models.ProfileResponse{
		Profile: cloneProfile(s.profile),
		Sync:    SyncStateOf(s.lastSync),
	}
}

// scheduleLocked persists a copy of the current profile. Writes for the same
// owner are applied in order, so the stored document converges on the latest state.
func (s *UserStore) scheduleLocked(ctx context.Context, name string) *writethrough.PendingSync {

	doc := cloneProfile(s.profile)
	ownerID := s.ownerID

	pending := s.queue.Enqueue(ctx, ownerID.String(), name, func(ctx context.Context) error {
		middleware.LoggerFromContext(ctx).Debug("Saving profile", slog.String("ownerId", ownerID.String()), slog.String("task", name))
		return s.repo.SaveProfile(ctx, doc)
	})

	s.lastSync = pending

	return pending
}

// SyncStateOf reports the state of a write-through handle; nil means no write yet.
func SyncStateOf(p *writethrough.PendingSync) models.SyncState {

	if p == nil {
		return models.SyncState{Status: models.SyncStatusIdle}
	}

	state := models.SyncState{Status: p.Status(), Task: p.Name()}
	if err := p.Err(); err != nil {
		state.Error = err.Error()
	}

	return state
}

func cloneProfile(p *models.Profile) *models.Profile {

	if p == nil {
		return nil
	}

	c := *p
	c.Addresses = append([]models.Address{}, p.Addresses...)

	if p.SelectedAddress != nil {
		addr := *p.SelectedAddress
		c.SelectedAddress = &addr
	}

	return &c
}
