package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blink_server/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Profiles  *UserProfileService
	jwtSecret []byte
}

func NewAuthService(profiles *UserProfileService, jwtSecret string) *AuthService {
	return &AuthService{Profiles: profiles, jwtSecret: []byte(jwtSecret)}
}

// Register creates a new profile with a hashed password and returns a token.
func (as *AuthService) Register(ctx context.Context, email, password, displayName string, age int, gender string) (string, *models.UserProfile, error) {
	if email == "" || password == "" || displayName == "" || gender == "" {
		return "", nil, errors.New("missing required fields")
	}
	if age < 18 {
		return "", nil, errors.New("must be at least 18 years old")
	}

	existing, err := as.Profiles.GetUserProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := models.UserProfile{
		UserID:       uuid.NewString(),
		EmailID:      email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Age:          age,
		Gender:       gender,
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := as.Profiles.AddUserProfile(ctx, profile); err != nil {
		return "", nil, err
	}

	token, err := as.GenerateToken(profile.UserID)
	if err != nil {
		return "", nil, err
	}
	return token, &profile, nil
}

// Login verifies credentials and returns a token with the profile.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserProfile, error) {
	profile, err := as.Profiles.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := as.GenerateToken(profile.UserID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// GenerateToken issues a signed 24h token for userID.
func (as *AuthService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecret)
}

// ResolveToken validates a token and returns the user id it carries.
func (as *AuthService) ResolveToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid token claims")
	}
	return userID, nil
}
