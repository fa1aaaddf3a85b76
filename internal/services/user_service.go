package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"miniblog/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for registration and authentication.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password. Registering an email
// that already exists fails with ErrUserExists.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	var exists int
	row := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email)
	if err := row.Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		PostIDs:      []string{},
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash, post_ids_json) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash, "[]")
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email fails with
// ErrUserNotFound, a wrong password with ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, email, password_hash, post_ids_json, created_at FROM users WHERE id = ?", id))
}

// getUserByEmail retrieves a single user by email, including the password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, email, password_hash, post_ids_json, created_at FROM users WHERE email = ?", email))
}

func (s *UserService) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var postIDsJSON string
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &postIDsJSON, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if err := json.Unmarshal([]byte(postIDsJSON), &user.PostIDs); err != nil {
		return models.User{}, fmt.Errorf("decode post references for user %s: %w", user.ID, err)
	}
	return user, nil
}
