package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 是唯一的站点所有者账号
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureOwner 保证配置中的所有者账号存在，且密码与配置一致。
// 用户名或密码为空时视为未启用登录，直接返回。
func EnsureOwner(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	err := gdb.Where("username = ?", trimmedUser).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil && bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(trimmedPassword)) == nil {
		return nil
	}

	hashed, hashErr := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		return hashErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gdb.Create(&User{Username: trimmedUser, Password: string(hashed)}).Error
	}

	return gdb.Model(&existing).Update("password", string(hashed)).Error
}

// VerifyOwner 校验用户名与密码，成功时返回账号
func VerifyOwner(gdb *gorm.DB, username, password string) (*User, error) {
	var user User
	if err := gdb.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}
