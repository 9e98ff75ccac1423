package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitBreakerTripsOnFailingRequests(t *testing.T) {
	cb := NewCircuitBreaker("test")
	assert.Equal(t, "test", cb.Name())

	failure := errors.New("endpoint unreachable")
	for i := 0; i <= MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, failure
		})
		require.Equal(t, failure, err)
	}

	_, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	assert.Equal(t, gobreaker.ErrOpenState, err)
}

func TestNewCircuitBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")

	for i := 0; i <= MaxNumOfFailingRequests; i++ {
		resp, err := cb.Execute(func() (interface{}, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
