package auth

import (
	"fmt"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password with bcrypt. Passwords longer than
// 72 bytes are rejected by bcrypt itself, which surfaces as INTERNAL here
// because length is validated before any caller reaches this point.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: fmt.Sprintf("failed to hash password: %v", err),
		}
	}
	return string(hashedPassword), nil
}

func ComparePasswords(hashedPwd string, plainPwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	return err == nil
}
