package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOTPCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, otpMin)
		require.LessOrEqual(t, n, otpMax)
	}
}
