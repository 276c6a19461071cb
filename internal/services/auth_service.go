package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"exportease/internal/config"
	"exportease/internal/models"
	"exportease/internal/repositories"
	"exportease/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailExists is returned by SignUp when the email is already registered.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email and for
	// a wrong password alike, so callers cannot tell which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles business logic for authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	mqClient   *rabbitmq.Client // optional, nil skips event publication
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	dummyHash  []byte // verified against when the email is unknown
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, mqClient *rabbitmq.Client, cfg *config.Config) *AuthService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	// A hash of a throwaway password; Login verifies against it when no
	// record exists so the miss costs about as much as a real comparison.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), cost)
	if err != nil {
		log.Printf("Failed to generate dummy hash: %v", err)
	}

	return &AuthService{
		userRepo:   userRepo,
		mqClient:   mqClient,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   ttl,
		bcryptCost: cost,
		dummyHash:  dummyHash,
	}
}

// SignUp registers a new user, hashes the password, and persists the record.
// The email uniqueness check is left entirely to the repository's constraint;
// there is no lookup before the insert.
func (s *AuthService) SignUp(user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.DefaultRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Best-effort event for downstream consumers (welcome mail, analytics).
	// The row is already committed; a publish failure is only logged.
	if s.mqClient != nil {
		event := map[string]interface{}{
			"event":   "user.signed_up",
			"user_id": user.ID,
			"email":   user.Email,
			"role":    user.Role,
		}
		if err := s.mqClient.PublishUserEvent(event); err != nil {
			log.Printf("Warning: failed to publish signup event for user %s: %v", user.ID, err)
		}
	}

	return user, nil
}

// Login authenticates a user by email and password and returns a signed JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Burn a comparison so an unknown email takes about as long
			// as a wrong password.
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to verify password: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   now.Add(s.tokenTTL).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
