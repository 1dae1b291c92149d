package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/config"
)

func TestCredentialRotator(t *testing.T) {
	creds := []config.Credential{
		{APIKey: "key-a", APIHost: "host", Enabled: true},
		{APIKey: "key-b", APIHost: "host", Enabled: true},
		{APIKey: "key-c", APIHost: "host", Enabled: true},
	}
	rotator := NewCredentialRotator(creds)

	cur, err := rotator.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", cur.APIKey)

	rotator.Advance()
	cur, err = rotator.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-b", cur.APIKey)

	// Wraps around
	rotator.Advance()
	rotator.Advance()
	cur, err = rotator.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", cur.APIKey)
}

func TestCredentialRotatorSkipsDisabled(t *testing.T) {
	creds := []config.Credential{
		{APIKey: "key-a", APIHost: "host", Enabled: true},
		{APIKey: "key-b", APIHost: "host", Enabled: false},
		{APIKey: "key-c", APIHost: "host", Enabled: true},
	}
	rotator := NewCredentialRotator(creds)
	assert.Equal(t, 2, rotator.Size())

	ordered := rotator.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "key-a", ordered[0].APIKey)
	assert.Equal(t, "key-c", ordered[1].APIKey)
}

func TestCredentialRotatorEmpty(t *testing.T) {
	rotator := NewCredentialRotator(nil)

	_, err := rotator.Current()
	assert.ErrorIs(t, err, apperrors.ErrNoCredentials)
	assert.Nil(t, rotator.Ordered())
}

func TestCredentialRotatorOrderedStartsAtCurrent(t *testing.T) {
	creds := []config.Credential{
		{APIKey: "key-a", APIHost: "host", Enabled: true},
		{APIKey: "key-b", APIHost: "host", Enabled: true},
	}
	rotator := NewCredentialRotator(creds)
	rotator.Advance()

	ordered := rotator.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "key-b", ordered[0].APIKey)
	assert.Equal(t, "key-a", ordered[1].APIKey)
}
