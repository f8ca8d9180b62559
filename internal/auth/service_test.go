package auth

import (
	"strings"
	"testing"

	appErrors "github.com/aydinemil/finance-tracker/errors"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	plain := "messi10secure"

	hash, err := HashPassword(plain)
	require.NoError(t, err)

	require.True(t, ComparePasswords(hash, plain))
	require.False(t, ComparePasswords(hash, "wrong-password"))
}

func TestHashPasswordFailureIsInternal(t *testing.T) {
	// bcrypt refuses input over 72 bytes; validation blocks this upstream,
	// so the raw failure surfaces as INTERNAL.
	_, err := HashPassword(strings.Repeat("a", 100))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInternal, appErrors.CodeOf(err))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedMsg string
	}{
		{
			name:        "Fail - Empty password",
			input:       "",
			expectedMsg: "Password cannot be empty!",
		},
		{
			name:        "Fail - Too short",
			input:       "short1",
			expectedMsg: "Password so short, minimum length is 8",
		},
		{
			name:  "Success - Valid password",
			input: "secure123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.input)

			if tt.expectedMsg == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil || err.Error() == "" {
				t.Fatalf("Expected error %q, got nil", tt.expectedMsg)
			}
			require.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Fail - Empty email", input: "", wantErr: true},
		{name: "Fail - No at sign", input: "john.doe.gmail.com", wantErr: true},
		{name: "Fail - No domain", input: "john@", wantErr: true},
		{name: "Success - Simple address", input: "john@example.com"},
		{name: "Success - Dotted local part", input: "john.doe@sub.example.co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q, got nil", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %q, got: %v", tt.input, err)
			}
		})
	}
}

func TestValidateUserFields(t *testing.T) {
	tests := []struct {
		name        string
		input       NewUser
		expectedMsg string
	}{
		{
			name:        "Fail - Empty full name",
			input:       NewUser{FullName: "", Email: "john@example.com", PasswordPlain: "secure123"},
			expectedMsg: "Full name cannot be empty!",
		},
		{
			name:        "Fail - Empty email",
			input:       NewUser{FullName: "John Doe", Email: "", PasswordPlain: "secure123"},
			expectedMsg: "Email cannot be empty!",
		},
		{
			name:        "Fail - Short password",
			input:       NewUser{FullName: "John Doe", Email: "john@example.com", PasswordPlain: "123"},
			expectedMsg: "Password so short, minimum length is 8",
		},
		{
			name:  "Success - Valid user",
			input: NewUser{FullName: "John Doe", Email: "john@example.com", PasswordPlain: "secure123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.ValidateUserFields()

			if tt.expectedMsg == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error %q, got nil", tt.expectedMsg)
			}
			require.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}
