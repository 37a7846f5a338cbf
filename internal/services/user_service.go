package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	users UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		return nil, fmt.Errorf("missing required user fields: %w", apperrors.ErrInvalidArgument)
	}
	if !emailRegex.MatchString(user.Email) {
		return nil, fmt.Errorf("invalid email format: %w", apperrors.ErrInvalidArgument)
	}

	if existing, _ := s.users.GetUserByEmail(ctx, user.Email); existing != nil {
		return nil, fmt.Errorf("email already in use: %w", apperrors.ErrConflict)
	}
	if existing, _ := s.users.GetUserByUsername(ctx, user.Username); existing != nil {
		return nil, fmt.Errorf("username already taken: %w", apperrors.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hashed)

	if user.Role == "" {
		user.Role = "user"
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered")
	return created, nil
}

// AuthenticateUser verifies credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}
	return user, nil
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}
