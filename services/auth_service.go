package services

import (
	"errors"

	"backend/entity"
	"backend/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	Users *repository.UserRepository
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{Users: users}
}

func (s *AuthService) Register(email, password, name string) (*entity.User, error) {
	if _, err := s.Users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     "user",
	}
	if err := s.Users.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(email, password string) (*entity.User, error) {
	user, err := s.Users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Profile(userID uint) (*entity.User, error) {
	return s.Users.FindByID(userID)
}

type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

func (s *AuthService) UpdateProfile(userID uint, in UpdateProfileInput) (*entity.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
