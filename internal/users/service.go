package users

import (
	"gorm.io/gorm"
)

type UserServicePort interface {
	GetUserByID(userID uint) (User, error)
	GetUserRole(userID uint) (string, error)
	FindByUsernameOrEmail(usernameOrEmail string) (User, error)
}

type UserService struct {
	DB *gorm.DB
}

func (us *UserService) GetUserByID(userID uint) (User, error) {
	var user User
	if err := us.DB.First(&user, userID).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

func (us *UserService) GetUserRole(userID uint) (string, error) {
	var user User
	if err := us.DB.First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (us *UserService) FindByUsernameOrEmail(usernameOrEmail string) (User, error) {
	var user User
	if err := us.DB.
		Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// IsStaff reports whether the role string marks a staff account.
func IsStaff(role string) bool {
	return role == "Admin"
}
