package transport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumeno/lumeno-go/pkg/transport"
)

func TestExponentialBackoff_NextInterval(t *testing.T) {
	t.Parallel()

	b := transport.ExponentialBackoff{
		MinTimeout: 10 * time.Millisecond,
		Factor:     6,
	}

	assert.Equal(t, time.Duration(0), b.NextInterval(0))
	assert.Equal(t, 10*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 60*time.Millisecond, b.NextInterval(2))
	assert.Equal(t, 360*time.Millisecond, b.NextInterval(3))
	assert.Equal(t, 2160*time.Millisecond, b.NextInterval(4))
}

func TestExponentialBackoff_Defaults(t *testing.T) {
	t.Parallel()

	var b transport.ExponentialBackoff

	assert.Equal(t, 10*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 60*time.Millisecond, b.NextInterval(2))
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	t.Parallel()

	b := transport.ExponentialBackoff{
		MinTimeout: 10 * time.Millisecond,
		Factor:     6,
		Randomize:  true,
	}

	// Randomized delays land in [base, 2*base).
	for i := 0; i < 50; i++ {
		d := b.NextInterval(2)
		assert.GreaterOrEqual(t, d, 60*time.Millisecond)
		assert.Less(t, d, 120*time.Millisecond)
	}
}

func TestFixedBackoff_NextInterval(t *testing.T) {
	t.Parallel()

	b := transport.FixedBackoff{Interval: 25 * time.Millisecond}

	assert.Equal(t, time.Duration(0), b.NextInterval(0))
	assert.Equal(t, 25*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 25*time.Millisecond, b.NextInterval(7))
}
