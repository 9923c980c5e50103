package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	terminals := []Status{StatusConverted, StatusReleased, StatusExpired, StatusCancelled}

	for _, target := range terminals {
		t.Run("ativa_to_"+string(target), func(t *testing.T) {
			assert.True(t, StatusActive.CanTransitionTo(target))
		})
	}

	// Terminal statuses never move again.
	for _, from := range terminals {
		for _, to := range append(terminals, StatusActive) {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusActive.IsTerminal())
	for _, s := range []Status{StatusConverted, StatusReleased, StatusExpired, StatusCancelled} {
		assert.True(t, s.IsTerminal())
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusConverted, StatusReleased, StatusExpired, StatusCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("pendente").IsValid())
	assert.False(t, Status("").IsValid())
}
