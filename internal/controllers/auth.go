package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/amaumene/movielib/internal/models"
)

var (
	// ErrEmailExists is returned when registering an email that is taken
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidInput is returned when registration input fails validation
	ErrInvalidInput = errors.New("name should be longer than 2 symbols, email longer than 4, password longer than 5")
	// ErrInvalidCredentials is returned on a failed login attempt
	ErrInvalidCredentials = errors.New("wrong email or password")
)

// AuthController handles account registration and login
type AuthController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *models.Database, logger *logrus.Logger) *AuthController {
	return &AuthController{
		db:     db,
		logger: logger,
	}
}

// Register creates a new account with a hashed password
func (c *AuthController) Register(username, email, password string) (*models.User, error) {
	if len(username) <= 2 || len(email) <= 4 || !strings.Contains(email, "@") || len(password) < 6 {
		return nil, ErrInvalidInput
	}

	if _, err := c.db.GetUserByEmail(email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := c.db.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": username,
	}).Info("User registered")

	return user, nil
}

// Authenticate verifies an email/password pair
func (c *AuthController) Authenticate(email, password string) (*models.User, error) {
	user, err := c.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
