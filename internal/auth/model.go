package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/aydinemil/finance-tracker/errors"
)

const (
	MAX_LENGTH_FULLNAME = 255
	MAX_LENGTH_EMAIL    = 255
	MAX_PASSWORD_LENGTH = 72
	MIN_PASSWORD_LENGTH = 8
)

type User struct {
	ID             string
	FullName       string
	Email          string
	PasswordHashed string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NewUser struct {
	FullName      string
	Email         string
	PasswordPlain string
}

// Identity is the caller resolved from a verified access token. It is
// produced once per request and passed explicitly to every handler.
type Identity struct {
	ID       string
	Email    string
	FullName string
}

type Credentials struct {
	Email         string
	PasswordPlain string
}

type UpdateProfile struct {
	FullName string
	Email    string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ResetToken is a persisted, single-use password reset credential.
// UsedAt is nil until the token is consumed.
type ResetToken struct {
	Token     string
	Email     string
	OTP       int
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) error {
	if email == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Email cannot be empty!",
		}
	}
	if !emailRegex.MatchString(email) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid email format, example valid email: john.doe@gmail.com",
		}
	}
	if len(email) > MAX_LENGTH_EMAIL {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Email so long, maximum length is %d", MAX_LENGTH_EMAIL),
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Password cannot be empty!",
		}
	}
	if len(password) < MIN_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so short, minimum length is %d", MIN_PASSWORD_LENGTH),
		}
	}
	if len(password) > MAX_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so long, maximum length is %d", MAX_PASSWORD_LENGTH),
		}
	}
	return nil
}

func (newUser NewUser) ValidateUserFields() error {
	if newUser.FullName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Full name cannot be empty!",
		}
	}
	if len(newUser.FullName) > MAX_LENGTH_FULLNAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Full name so long, maximum length is %d", MAX_LENGTH_FULLNAME),
		}
	}
	if err := ValidateEmail(newUser.Email); err != nil {
		return err
	}
	if err := ValidatePassword(newUser.PasswordPlain); err != nil {
		return err
	}
	return nil
}
