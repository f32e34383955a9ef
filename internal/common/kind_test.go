package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsBusinessFailure(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindOK, false},
		{KindValidation, false},
		{KindSecurity, false},
		{KindDuplicateUsername, true},
		{KindDuplicateEmail, true},
		{KindNotFoundOrInactive, true},
		{KindWrongPassword, true},
		{KindInvalidCredentials, true},
		{KindThrottled, true},
		{KindRepositoryFault, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsBusinessFailure())
		})
	}
}

func TestDuplicateErrors_MatchAlreadyExists(t *testing.T) {
	assert.True(t, errors.Is(ErrorDuplicateUsername, ErrorAlreadyExists))
	assert.True(t, errors.Is(ErrorDuplicateEmail, ErrorAlreadyExists))
	assert.False(t, errors.Is(ErrorDuplicateUsername, ErrorDuplicateEmail))
}
