package util

import (
	"strings"
	"testing"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "Abc123"

	// 测试正常哈希
	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("哈希格式错误，应为 bcrypt: %q", hashed)
	}

	// 测试空密码
	if _, err := HashPassword(""); err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希（随机 salt）
	hashed2, _ := HashPassword(password)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}

	// 两个哈希都要能验证通过
	if !CheckPassword(password, hashed) || !CheckPassword(password, hashed2) {
		t.Error("两个哈希都应验证通过")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "Pass456x"
	hashed, _ := HashPassword(password)

	// 测试正确密码
	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}

	// 测试错误密码
	if CheckPassword("WrongPass1", hashed) {
		t.Error("错误密码不应通过验证")
	}

	// 测试空输入
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}

	// 测试无效格式
	if CheckPassword(password, "invalid-format") {
		t.Error("无效格式不应通过验证")
	}
}

// ============ 密码强度测试 ============

// TestIsValidPassword_Valid 6-12 位且三类字符齐全
func TestIsValidPassword_Valid(t *testing.T) {
	testCases := []string{"Abc123", "Passw0rd", "A1b2C3d4E5f6", "zzzzZ9"}

	for _, pwd := range testCases {
		if !IsValidPassword(pwd) {
			t.Errorf("IsValidPassword(%q) = false, want true", pwd)
		}
	}
}

// TestIsValidPassword_Invalid 长度越界或缺字符类
func TestIsValidPassword_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"Ab1",            // 太短（5 位以下）
		"Abc12",          // 5 位，差一位
		"A1b2C3d4E5f6g",  // 13 位，超一位
		"abcdef1",        // 没有大写
		"ABCDEF1",        // 没有小写
		"Abcdefg",        // 没有数字
		"12345678",       // 只有数字
	}

	for _, pwd := range testCases {
		if IsValidPassword(pwd) {
			t.Errorf("IsValidPassword(%q) = true, want false", pwd)
		}
	}
}

// ============ 哈希识别测试 ============

// TestIsHashedValue 防止把 bcrypt 哈希再当明文哈希一遍
func TestIsHashedValue(t *testing.T) {
	hashed, _ := HashPassword("Abc123")
	if !IsHashedValue(hashed) {
		t.Errorf("IsHashedValue(%q) = false, want true", hashed)
	}

	testCases := []string{"", "Abc123", "plain$text", "$1$legacy"}
	for _, s := range testCases {
		if IsHashedValue(s) {
			t.Errorf("IsHashedValue(%q) = true, want false", s)
		}
	}
}
