package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Parallel()

	email, err := NewEmail("  Ada@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email.String())
	assert.False(t, email.IsZero())

	other, err := NewEmail("ada@example.com")
	require.NoError(t, err)
	assert.True(t, email.Equal(other))

	invalid := []string{"", "   ", "plainaddress", "@example.com", "ada@", "ada example@x.com"}
	for _, raw := range invalid {
		_, err := NewEmail(raw)
		assert.ErrorIs(t, err, ErrValidation, "input %q", raw)
	}

	_, err = NewEmail(strings.Repeat("a", 250) + "@x.io")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser(" Ada Lovelace ", "ADA@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email.String())

	_, err = NewUser("Ada", "not-an-email")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewUser("", "ada@example.com")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()
	user, err := NewUser("Ada", "ada@example.com")
	require.NoError(t, err)

	invalid := *user
	invalid.ID = uuid.Nil
	assert.Equal(t, ErrEmptyUserID, invalid.Validate())

	invalid = *user
	invalid.Email = Email{}
	assert.Equal(t, ErrEmptyEmail, invalid.Validate())
}
