package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/models"
)

// VerifiedIdentity wraps a user that has passed a credential check. The
// user field is unexported so nothing outside this package can construct
// one: the only paths to a VerifiedIdentity are SignUp and Authenticate,
// which keeps "this identity was actually checked" a meaningful property.
// Share one through the session store, not by stashing copies.
type VerifiedIdentity struct {
	user models.User
}

func (v VerifiedIdentity) UserID() uint     { return v.user.ID }
func (v VerifiedIdentity) Username() string { return v.user.Username }
func (v VerifiedIdentity) User() models.User {
	return v.user
}

// UserService owns account rows. Password hashing and comparison are
// delegated to Postgres pgcrypto, so plaintext secrets only ever appear as
// bind parameters and digests never leave the database.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type userRow struct {
	ID       uint
	Username string
}

// SignUp creates an account and returns its verified identity, the user
// having just proven knowledge of the password by choosing it.
func (s *UserService) SignUp(ctx context.Context, username, password string) (VerifiedIdentity, error) {
	var row userRow
	res := s.DB.WithContext(ctx).Raw(
		`INSERT INTO users (username, password_digest, created_at, updated_at)
		 VALUES (?, crypt(?, gen_salt('bf')), now(), now())
		 RETURNING id, username`,
		username, password,
	).Scan(&row)
	if res.Error != nil {
		return VerifiedIdentity{}, fmt.Errorf("create user: %w", res.Error)
	}
	return VerifiedIdentity{user: models.User{ID: row.ID, Username: row.Username}}, nil
}

// Authenticate checks a username/password pair against the stored digest.
// The comparison happens inside Postgres via crypt(); a missing user and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (VerifiedIdentity, error) {
	var row userRow
	res := s.DB.WithContext(ctx).Raw(
		`SELECT id, username FROM users
		 WHERE username = ? AND password_digest = crypt(?, password_digest)`,
		username, password,
	).Scan(&row)
	if res.Error != nil {
		return VerifiedIdentity{}, fmt.Errorf("authenticate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return VerifiedIdentity{}, ErrInvalidCredentials
	}
	return VerifiedIdentity{user: models.User{ID: row.ID, Username: row.Username}}, nil
}

// ByID is the ref.Loader for users.
func (s *UserService) ByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return user, nil
}
