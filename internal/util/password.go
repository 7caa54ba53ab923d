package util

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// 使用 bcrypt cost=12 做密码哈希
const bcryptCost = 12

// HashPassword 对明文密码做 bcrypt 哈希（自带随机 salt）。
// 只在拿到明文密码时调用一次，已存在的哈希不允许再进来。
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword 验证明文密码与存储的 bcrypt 哈希是否匹配。
func CheckPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsValidPassword 检查密码强度：6-12 位，包含大写、小写字母和数字。
// 在哈希之前校验，不满足直接按参数错误处理。
func IsValidPassword(pwd string) bool {
	if len(pwd) < 6 || len(pwd) > 12 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// IsHashedValue 判断一个值是不是 bcrypt 哈希。
// 更新用户时防止把已有哈希再哈希一遍。
func IsHashedValue(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}
