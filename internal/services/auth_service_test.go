package services_test

import (
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"exportease/internal/config"
	"exportease/internal/models"
	"exportease/internal/repositories"
	"exportease/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test_jwt_secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost, // keep hashing cheap in tests
	}
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_SignUp(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	var persisted models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(0).(*models.User)
		u.ID = "user-123"
		persisted = *u
	}).Return(nil).Once()

	created, err := authService.SignUp(&models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "user-123", created.ID)

	// Never the plaintext, and the hash must verify against it.
	assert.NotEqual(t, "password123", persisted.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(persisted.Password), []byte("password123")))

	// Role defaults when unspecified.
	assert.Equal(t, models.DefaultRole, persisted.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignUpKeepsExplicitRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	created, err := authService.SignUp(&models.User{
		Name:     "Big Corp",
		Email:    "corp@example.com",
		Password: "password123",
		Role:     "Big Organization",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Big Organization", created.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicateEmail).Once()

	_, err := authService.SignUp(&models.User{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, services.ErrEmailExists)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignUpStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(fmt.Errorf("connection reset")).Once()

	_, err := authService.SignUp(&models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrEmailExists)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.DefaultRole,
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	issuedAt := time.Now()
	token, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test_jwt_secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	assert.Equal(t, user.Email, claims["email"])

	// Expiry is about one hour out.
	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, issuedAt.Add(time.Hour), exp, 10*time.Second)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = authService.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "known@example.com",
		Password: string(hashedPassword),
	}

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrUserNotFound).Once()
	_, errUnknown := authService.Login("nobody@example.com", "password123")

	mockRepo.On("GetByEmail", "known@example.com").Return(user, nil).Once()
	_, errWrongPassword := authService.Login("known@example.com", "wrongpassword")

	// The two failures must be the same error kind.
	assert.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPassword.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	mockRepo.On("GetByEmail", "test@example.com").Return(nil, fmt.Errorf("connection reset")).Once()

	_, err := authService.Login("test@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testConfig())

	validToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-123",
		"email": "test@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := validToken.SignedString([]byte("test_jwt_secret"))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["id"])
	assert.Equal(t, "test@example.com", claims["email"])

	// Garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	// Expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-123",
		"email": "test@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte("test_jwt_secret"))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	// Wrong secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignTokenString, _ := foreignToken.SignedString([]byte("some_other_secret"))
	_, err = authService.ValidateToken(foreignTokenString)
	assert.Error(t, err)
}

// Concurrent signups with the same email race at the store's uniqueness
// check; exactly one must win and the rest must see the duplicate error.
func TestAuthService_ConcurrentSignupsSameEmail(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, nil, testConfig())

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = authService.SignUp(&models.User{
				Name:     fmt.Sprintf("Racer %d", i),
				Email:    "race@example.com",
				Password: "password123",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, services.ErrEmailExists)
		}
	}
	assert.Equal(t, 1, successes)

	// Exactly one record persisted for the contested email.
	user, err := userRepo.GetByEmail("race@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}
