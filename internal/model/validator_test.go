package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{UserName: "stray", Email: "a@b.co", Password: "Abcdef1!"}, false},
		{"missing userName", RegisterRequest{Email: "a@b.co", Password: "Abcdef1!"}, true},
		{"bad email", RegisterRequest{UserName: "stray", Email: "not-an-email", Password: "Abcdef1!"}, true},
		{"weak password", RegisterRequest{UserName: "stray", Email: "a@b.co", Password: "abcdefgh"}, true},
		{"short password", RegisterRequest{UserName: "stray", Email: "a@b.co", Password: "Ab1!"}, true},
		{"missing password", RegisterRequest{UserName: "stray", Email: "a@b.co"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUpdateRequestPasswordOptional(t *testing.T) {
	// No password means "keep the current one" and must validate.
	assert.NoError(t, Validate(UpdateUserRequest{UserName: "stray"}))
	assert.NoError(t, Validate(UpdateUserRequest{UserName: "stray", Password: "Abcdef1!"}))
	assert.Error(t, Validate(UpdateUserRequest{UserName: "stray", Password: "weak"}))
	assert.Error(t, Validate(UpdateUserRequest{Password: "Abcdef1!"}))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("OVERLORD").Valid())
	assert.False(t, Role("").Valid())
}
