package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestPasswordRoundTrip(t *testing.T) {
	keyring.MockInit()

	password, err := LookupPassword("me@example.com")
	require.NoError(t, err)
	assert.Empty(t, password)

	require.NoError(t, SetPassword("me@example.com", "hunter2"))
	password, err = LookupPassword("me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)
}

func TestSetPasswordRequiresBoth(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetPassword("", "x"))
	assert.Error(t, SetPassword("me@example.com", ""))
}

func TestLookupPasswordNoEmail(t *testing.T) {
	password, err := LookupPassword("")
	assert.NoError(t, err)
	assert.Empty(t, password)
}
