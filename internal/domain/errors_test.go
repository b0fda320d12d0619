package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		is     []error
		isNot  []error
	}{
		{401, []error{ErrNetwork, ErrUnauthorized}, []error{ErrNotFound}},
		{403, []error{ErrNetwork, ErrUnauthorized}, []error{ErrNotFound}},
		{404, []error{ErrNetwork, ErrNotFound}, []error{ErrUnauthorized}},
		{500, []error{ErrNetwork}, []error{ErrNotFound, ErrUnauthorized}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &StatusError{Op: "search events", StatusCode: tt.status})
			for _, target := range tt.is {
				assert.ErrorIs(t, err, target)
			}
			for _, target := range tt.isNot {
				assert.NotErrorIs(t, err, target)
			}
			var se *StatusError
			assert.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "join event: api returned status 409: full", (&StatusError{Op: "join event", StatusCode: 409, Message: "full"}).Error())
	assert.Equal(t, "join event: api returned status 502", (&StatusError{Op: "join event", StatusCode: 502}).Error())
}

func TestTooFarError(t *testing.T) {
	err := fmt.Errorf("photo: %w", &TooFarError{DistanceMeters: 1112.4, RadiusMeters: 100})
	assert.ErrorIs(t, err, ErrTooFar)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "1112m away")
}
