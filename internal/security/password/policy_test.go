package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateBounds(t *testing.T) {
	_, _, err := Validate("  short  ")
	require.ErrorIs(t, err, ErrTooShort)

	_, _, err = Validate(strings.Repeat("a", MaxLen+1))
	require.ErrorIs(t, err, ErrTooLong)

	// eight runes, more than eight bytes
	got, _, err := Validate(" żółwżółw ")
	require.NoError(t, err)
	require.Equal(t, "żółwżółw", got)
}

func TestValidateWarnsOnWeakPasswords(t *testing.T) {
	_, warn, err := Validate("password1")
	require.NoError(t, err)
	require.NotNil(t, warn)
	require.Equal(t, 1, warn.Score)

	_, warn, err = Validate("Correct-Horse-42")
	require.NoError(t, err)
	require.Nil(t, warn)
}

func TestScorePenalisesPersonalDetails(t *testing.T) {
	require.Equal(t, 4, Score("Aliceinwonder1"))
	require.Equal(t, 2, Score("Aliceinwonder1", "alice"))
	require.Equal(t, 2, Score("Aliceinwonder1", "", "ALICE@example.com"))
	require.Equal(t, 4, Score("Aliceinwonder1", "al"), "short details are ignored")
}

func TestScoreCountsUnicodeClasses(t *testing.T) {
	require.Equal(t, 3, classes("Żółw-żółw"))
	require.Equal(t, 1, classes("żółwżółw"))
}
