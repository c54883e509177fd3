package users_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/users"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Secret1!"))

	for _, password := range []string{"Ab1!", "secret1!", "SECRET1!", "Secrets!", "Secret12"} {
		t.Run(password, func(t *testing.T) {
			require.Error(t, users.ValidatePasswordStrength(password))
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Secret1!")
	require.NoError(t, err)

	user := &users.User{PasswordHash: hash, FirstName: "Ada", LastName: "Lovelace"}
	require.True(t, user.CheckPassword("Secret1!"))
	require.False(t, user.CheckPassword("secret1!"))
	require.Equal(t, "Ada Lovelace", user.FullName())
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	user := &users.User{Email: " Ada@X.com ", FirstName: "Ada"}
	require.NoError(t, repo.Create(user))
	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@x.com", user.Email)
	require.False(t, user.DateJoined.IsZero())

	err := repo.Create(&users.User{Email: "ada@x.com"})
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	got, err := repo.GetByEmail("ADA@x.com")
	require.NoError(t, err)
	require.Same(t, user, got)

	got, err = repo.GetByID(user.ID)
	require.NoError(t, err)
	require.Same(t, user, got)

	require.NoError(t, repo.SetLastLogin("ada@x.com"))
	require.False(t, user.LastLogin.IsZero())

	_, err = repo.GetByEmail("nobody@x.com")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.ErrorIs(t, repo.SetLastLogin("nobody@x.com"), apperrors.ErrUserNotFound)
}
