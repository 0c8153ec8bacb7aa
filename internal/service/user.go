package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/StrayFurther/TimeTrack/internal/crypto"
	"github.com/StrayFurther/TimeTrack/internal/model"
	"github.com/StrayFurther/TimeTrack/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("admin role required")
	ErrInvalidRole        = errors.New("unknown role")
	ErrNoProfilePic       = errors.New("no profile picture set")
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
}

// PicStore stores profile picture files by name.
type PicStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Path(name string) string
	Delete(name string) error
	IsSaved(name string) bool
}

// UserService handles account business logic.
type UserService struct {
	users     UserStore
	pics      PicStore
	jwtSecret string
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, pics PicStore, jwtSecret string) *UserService {
	return &UserService{users: users, pics: pics, jwtSecret: jwtSecret}
}

// Register creates a new account. Emails are stored lowercased so the
// uniqueness check is case-insensitive.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) error {
	email := normalizeEmail(req.Email)

	user := &model.User{
		UserName: req.UserName,
		Email:    email,
		Role:     model.RoleUser,
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Login verifies credentials and issues a session token bound to the
// requesting client's User-Agent.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest, userAgent string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return crypto.GenerateToken(user.Email, userAgent, s.jwtSecret)
}

// EmailExists reports whether an account with the given email exists.
func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.users.ExistsByEmail(ctx, normalizeEmail(email))
}

// GetDetails returns the profile of the user identified by email.
func (s *UserService) GetDetails(ctx context.Context, email string) (model.UserDetail, error) {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return model.UserDetail{}, err
	}
	return detailOf(user), nil
}

// UpdateDetails changes the user's own name and, when given, password.
func (s *UserService) UpdateDetails(ctx context.Context, email string, req model.UpdateUserRequest) (model.UserDetail, error) {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return model.UserDetail{}, err
	}

	user.UserName = req.UserName
	if req.Password != "" {
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return model.UserDetail{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.UserDetail{}, err
	}
	return detailOf(user), nil
}

// AdminUpdateUser lets an admin change any user's name, role, and password.
func (s *UserService) AdminUpdateUser(ctx context.Context, actorEmail string, id int64, req model.AdminUpdateUserRequest) (model.UserDetail, error) {
	actor, err := s.getUser(ctx, actorEmail)
	if err != nil {
		return model.UserDetail{}, err
	}
	if actor.Role != model.RoleAdmin {
		return model.UserDetail{}, ErrForbidden
	}
	if !req.Role.Valid() {
		return model.UserDetail{}, ErrInvalidRole
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserDetail{}, ErrUserNotFound
		}
		return model.UserDetail{}, err
	}

	user.UserName = req.UserName
	user.Role = req.Role
	if req.Password != "" {
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return model.UserDetail{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.UserDetail{}, err
	}
	return detailOf(user), nil
}

// ProfilePicPath returns the stored file path of the user's picture.
func (s *UserService) ProfilePicPath(ctx context.Context, email string) (string, error) {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return "", err
	}
	if user.ProfilePic == "" || !s.pics.IsSaved(user.ProfilePic) {
		return "", ErrNoProfilePic
	}
	return s.pics.Path(user.ProfilePic), nil
}

// UploadProfilePic stores a new picture for the user, replacing any previous
// one, and returns the stored file name.
func (s *UserService) UploadProfilePic(ctx context.Context, email string, r io.Reader, originalName string) (string, error) {
	user, err := s.getUser(ctx, email)
	if err != nil {
		return "", err
	}

	if user.ProfilePic != "" && s.pics.IsSaved(user.ProfilePic) {
		if err := s.pics.Delete(user.ProfilePic); err != nil {
			return "", fmt.Errorf("deleting old profile picture: %w", err)
		}
	}

	name, err := s.pics.Save(r, originalName)
	if err != nil {
		return "", err
	}

	user.ProfilePic = name
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	return name, nil
}

func (s *UserService) getUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func detailOf(user *model.User) model.UserDetail {
	return model.UserDetail{
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
