package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "maria", NormalizeUsername("  MaRiA "))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("juan"))
	assert.NoError(t, Username("juan_01"))
	assert.ErrorIs(t, Username(""), ErrUsernameRequired)
	assert.ErrorIs(t, Username("ju,an"), ErrUsernameFormat)
}

// A username or mobile containing a newline would split its persisted
// record in two, letting a registration write a second record for another
// user. Control characters must never survive validation.
func TestUsernameRejectsRecordDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"newline", "eve\nbob"},
		{"carriage return", "eve\rbob"},
		{"tab", "eve\tbob"},
		{"space", "eve bob"},
		{"uppercase", "Eve"},
		{"multibyte", "日ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Username(tt.username), ErrUsernameFormat)
		})
	}
}

func TestMobile(t *testing.T) {
	assert.NoError(t, Mobile("09171234567"))
	assert.NoError(t, Mobile("+63 917-123-4567"))
	assert.ErrorIs(t, Mobile("   "), ErrMobileRequired)
	assert.ErrorIs(t, Mobile("0917,123"), ErrMobileFormat)
	assert.ErrorIs(t, Mobile("0917\n123"), ErrMobileFormat)
}

func TestPIN(t *testing.T) {
	assert.NoError(t, PIN("1234"))
	assert.NoError(t, PIN("0000"))
	assert.ErrorIs(t, PIN("123"), ErrPINFormat)
	assert.ErrorIs(t, PIN("12345"), ErrPINFormat)
	assert.ErrorIs(t, PIN("12a4"), ErrPINFormat)
	assert.ErrorIs(t, PIN(""), ErrPINFormat)
}
