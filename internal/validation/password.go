package validation

import (
	"fmt"
	"unicode"
)

// MaxPasswordLength — bcrypt учитывает только первые 72 байта.
const MaxPasswordLength = 72

// ValidatePassword проверяет пароль: от 8 символов, минимум одна буква и одна цифра.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не менее 8 символов")
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть не длиннее %d байт", MaxPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("пароль должен содержать хотя бы одну букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	return nil
}
