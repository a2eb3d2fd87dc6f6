package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the identity carried by a validated token.
type Claims struct {
	UserID   string
	Username string
	Role     string
}

func (c Claims) IsAdmin() bool { return c.Role == models.RoleAdmin }

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// exists reports whether a lookup found a user. A repository miss is not an
// error here.
func exists(user *models.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user != nil, nil
}

// RegisterUser registers a new customer, hashing the password before it is
// stored.
func (s *AuthService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	return s.register(ctx, req, models.RoleCustomer)
}

func (s *AuthService) register(ctx context.Context, req dto.RegisterRequest, role string) (*models.User, error) {
	taken, err := exists(s.userRepo.GetByUsername(ctx, req.Username))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation("username '%s' already taken", req.Username)
	}
	taken, err = exists(s.userRepo.GetByEmail(ctx, req.Email))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation("email '%s' already registered", req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicate(err, "username or email already registered")
	}
	return user, nil
}

// EnsureAdmin creates the admin account when no user with that username
// exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	found, err := exists(s.userRepo.GetByUsername(ctx, username))
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	if _, err := s.register(ctx, dto.RegisterRequest{Username: username, Email: email, Password: password}, models.RoleAdmin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logging.FromContext(ctx).Info("admin user created", "username", username)
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return "", apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperror.Unauthorized("invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := mc["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("invalid token: missing user_id")
	}
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	if role == "" {
		role = models.RoleCustomer
	}
	return &Claims{UserID: userID, Username: username, Role: role}, nil
}
