package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(1))
	assert.NoError(t, ValidateAmount(1_000_000))
	assert.ErrorIs(t, ValidateAmount(0), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(-1), ErrInvalidAmount)
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.NoError(t, ValidateDescription(strings.Repeat("a", MaxDescriptionLength)))
	assert.ErrorIs(t, ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)), ErrInvalidDescription)
}

func TestValidateMetadata(t *testing.T) {
	assert.NoError(t, ValidateMetadata(nil))
	assert.NoError(t, ValidateMetadata(map[string]any{"order": "ord-1", "channel": "pos"}))

	big := map[string]any{"blob": strings.Repeat("x", MaxMetadataSize+1)}
	assert.ErrorIs(t, ValidateMetadata(big), ErrMetadataTooLarge)
}

func TestValidateEventType(t *testing.T) {
	et, err := ValidateEventType("  Earned ")
	require.NoError(t, err)
	assert.Equal(t, EventEarned, et)

	_, err = ValidateEventType("bonus")
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name               string
		limit, offset      int
		wantLimit, wantOff int
	}{
		{"defaults", 0, 0, 50, 0},
		{"negative clamped", -5, -3, 50, 0},
		{"capped at max", 1000, 10, 200, 10},
		{"passthrough", 25, 100, 25, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOff, offset)
		})
	}
}

func TestEventType_Credits(t *testing.T) {
	assert.True(t, EventEarned.Credits())
	assert.True(t, EventPayment.Credits())
	assert.False(t, EventRedeemed.Credits())
	assert.False(t, EventCharge.Credits())
	assert.False(t, EventFee.Credits())
}

func TestProgram_ValidateRedemption(t *testing.T) {
	var nilProgram *Program
	assert.NoError(t, nilProgram.ValidateRedemption(1))

	noMinimum := &Program{ID: "prog-1"}
	assert.NoError(t, noMinimum.ValidateRedemption(1))

	program := &Program{ID: "prog-1", MinimumRedemption: 100}
	assert.NoError(t, program.ValidateRedemption(100))

	err := program.ValidateRedemption(99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPolicyViolation)

	var policy *PolicyViolationError
	require.ErrorAs(t, err, &policy)
	assert.Equal(t, int64(100), policy.Minimum)
	assert.Equal(t, int64(99), policy.Requested)
}

func TestTransaction_Balanced(t *testing.T) {
	ok := Transaction{AmountChange: -50, BalanceBefore: 100, BalanceAfter: 50}
	assert.True(t, ok.Balanced())

	bad := Transaction{AmountChange: -50, BalanceBefore: 100, BalanceAfter: 60}
	assert.False(t, bad.Balanced())
}

func TestSentinelUnwrapping(t *testing.T) {
	err := error(&InsufficientBalanceError{Balance: 10, Requested: 20})
	assert.True(t, errors.Is(err, ErrInsufficientBalance))

	err = error(&PolicyViolationError{Minimum: 100, Requested: 10})
	assert.True(t, errors.Is(err, ErrPolicyViolation))
}
