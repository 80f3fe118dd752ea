package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Login(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)

	service := NewAdminService(newFileStore(t, nil, "42"), hash)
	ctx := context.Background()

	userID, err := service.Login(ctx, LoginInput{UserID: " 42 ", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "42", userID)

	_, err = service.Login(ctx, LoginInput{UserID: "42", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{UserID: "7", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminService_LoginDisabled(t *testing.T) {
	service := NewAdminService(newFileStore(t, nil, "42"), "")
	_, err := service.Login(context.Background(), LoginInput{UserID: "42", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrAdminLoginDisabled)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
