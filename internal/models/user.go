package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Address struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Details string `json:"details"`
}

// Profile is the users/{ownerId} document.
type Profile struct {
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	PhotoRef        string    `json:"photo_ref,omitempty"`
	Addresses       []Address `json:"addresses"`
	SelectedAddress *Address  `json:"selected_address,omitempty"`
}

// Account holds the credentials owned by the auth service.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSession is returned on sign-in and delivered to auth-state listeners.
type AuthSession struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateProfileRequest merges only the fields that are present.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=1,max=32"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	PhotoRef        *string `json:"photo_ref,omitempty" validate:"omitempty,url"`
	CurrentPassword string  `json:"current_password,omitempty"`
}

type AddAddressRequest struct {
	Label   string `json:"label" validate:"required,notblank,max=80"`
	Details string `json:"details" validate:"required,notblank,max=500"`
}

type LocateAddressRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type SelectAddressRequest struct {
	ID string `json:"id" validate:"required"`
}

type SyncState struct {
	Status SyncStatus `json:"status"`
	Task   string     `json:"task,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type ProfileResponse struct {
	Profile *Profile  `json:"profile"`
	Sync    SyncState `json:"sync"`
}

type ReverseGeocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address Address `json:"address"`
}

// JWT claims structure
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

type AddressResponse struct {
	Address *Address  `json:"address"`
	Sync    SyncState `json:"sync"`
}

type SignUpResponse struct {
	Account *Account     `json:"account"`
	Session *AuthSession `json:"session,omitempty"`
}
