package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(user *entity.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) List(search string, role string, limit, offset int) ([]entity.User, int64, error) {
	q := r.DB.Model(&entity.User{})
	if search != "" {
		q = q.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) UpdateRole(id uint, role string) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.User{}).Count(&n).Error
	return n, err
}
