package service

import (
	"crypto/rand"
	"math/big"

	"teamspend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and credential checks.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates the auth service.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// Register creates an unapproved user with role "user".
func (s *AuthService) Register(in RegisterInput) error {
	var existing models.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	return s.db.Create(&user).Error
}

// Authenticate verifies the password grant and returns the user.
// Unknown user is not-found, a wrong password is unauthorized.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, NotFound("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, Unauthorized("Incorrect password")
	}
	return &user, nil
}

// UserByEmail loads a user by email for token introspection and refresh.
func (s *AuthService) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, NotFound("User not found")
	}
	return &user, nil
}

// ResetPassword replaces the user's password with a random one and returns it.
func (s *AuthService) ResetPassword(email string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", NotFound("User not found")
	}

	password, err := generatePassword(12)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return "", err
	}
	return password, nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
