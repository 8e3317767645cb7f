package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushihentaime/blogspot/internal/common"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{name: "valid", username: "alice123", valid: true},
		{name: "empty", username: "", valid: false},
		{name: "too short", username: "ab", valid: false},
		{name: "too long", username: "abcdefghijklmnopqrstuvwxyz", valid: false},
		{name: "symbols", username: "alice!", valid: false},
		{name: "spaces", username: "alice bob", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := common.NewValidator()
			validateUsername(v, tt.username)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "valid", email: "alice@example.com", valid: true},
		{name: "empty", email: "", valid: false},
		{name: "missing domain", email: "alice@", valid: false},
		{name: "missing at", email: "alice.example.com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tt.email)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "valid", password: "Password1!", valid: true},
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "Pw1!", valid: false},
		{name: "no uppercase", password: "password1!", valid: false},
		{name: "no number", password: "Password!", valid: false},
		{name: "no symbol", password: "Password1", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tt.password)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidateProfile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v := common.NewValidator()
		validateProfile(v, "Alice", "I write things.", "https://alice.dev", "Berlin")
		assert.True(t, v.Valid())
	})

	t.Run("bad website scheme", func(t *testing.T) {
		v := common.NewValidator()
		validateProfile(v, "Alice", "", "ftp://alice.dev", "")
		assert.False(t, v.Valid())
	})

	t.Run("empty website allowed", func(t *testing.T) {
		v := common.NewValidator()
		validateProfile(v, "Alice", "", "", "")
		assert.True(t, v.Valid())
	})
}
