package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mainstreet/internal/models"
	"mainstreet/internal/repositories"
	"mainstreet/internal/validation"
	"mainstreet/pkg/logger"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// SessionDuration is the lifetime of a session token and its cookie.
const SessionDuration = 7 * 24 * time.Hour

const bcryptCost = 10

// Claims is the session carried by a valid token.
type Claims struct {
	UserID   string
	Email    string
	Username string
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Email           string `validate:"required,simple_email"`
	Username        string `validate:"required"`
	Password        string `validate:"required,min=8"`
	SubscribeEmails bool
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
	validate      *validator.Validate
}

// NewAuthService creates a new AuthService. userRepo may be nil when no store
// is configured; tokens can still be validated.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: SessionDuration,
		validate:      validation.New(),
	}
}

// Register validates the input, hashes the password and stores the user.
// Nothing is written when validation fails.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validate.Struct(in); err != nil {
		tags := validation.FailedTags(err)
		switch {
		case tags["required"]:
			return nil, validationErrorf("Email, username, and password are required")
		case tags["simple_email"]:
			return nil, validationErrorf("Invalid email format")
		case tags["min"]:
			return nil, validationErrorf("Password must be at least 8 characters")
		default:
			return nil, validationErrorf("Invalid registration")
		}
	}
	if s.userRepo == nil {
		return nil, ErrStoreUnavailable
	}

	if err := s.checkTaken(ctx, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:           in.Email,
		Username:        in.Username,
		PasswordHash:    string(hash),
		SubscribeEmails: in.SubscribeEmails,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost a race with a concurrent sign-up; report which key collided.
			if taken := s.checkTaken(ctx, in.Email, in.Username); taken != nil {
				return nil, taken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// checkTaken returns ErrEmailTaken or ErrUsernameTaken, email first.
func (s *AuthService) checkTaken(ctx context.Context, email, username string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

// Login authenticates by email (input containing "@") or username.
func (s *AuthService) Login(ctx context.Context, emailOrUsername, password string) (*models.User, error) {
	input := strings.TrimSpace(emailOrUsername)
	if input == "" || password == "" {
		return nil, validationErrorf("Email/username and password are required")
	}
	if s.userRepo == nil {
		return nil, ErrStoreUnavailable
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(input, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(input))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, input)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenDuration).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	id, _ := mc["id"].(string)
	if id == "" {
		return nil, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	username, _ := mc["username"].(string)
	return &Claims{UserID: id, Email: email, Username: username}, nil
}

// TokenDuration is how long issued tokens stay valid.
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokenDuration
}

// Me loads the session's user from the store.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, ErrStoreUnavailable
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// IsAdmin reads the admin flag from the store. A deleted user is not an admin.
func (s *AuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// SetAdmin grants or revokes admin rights. Only the CLI calls it.
func (s *AuthService) SetAdmin(ctx context.Context, username string, isAdmin bool) error {
	if s.userRepo == nil {
		return ErrStoreUnavailable
	}
	if err := s.userRepo.SetAdmin(ctx, strings.TrimSpace(username), isAdmin); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return err
	}
	logger.Info().Str("username", username).Bool("is_admin", isAdmin).Msg("Admin flag updated")
	return nil
}
