package procon_test

import (
	"testing"
	"time"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
)

func TestCounterTicksAndWraps(t *testing.T) {
	c := procon.NewCounter()
	c.Start(time.Now())

	assert.EqualValues(t, 1, c.Tick())
	assert.EqualValues(t, 2, c.Tick())
	assert.EqualValues(t, 2, c.Value())
}

func TestCounterWrapsAtByteBoundary(t *testing.T) {
	c := procon.NewCounter()
	c.Start(time.Now())

	for i := 0; i < 255; i++ {
		c.Tick()
	}
	assert.EqualValues(t, 255, c.Value())
	assert.EqualValues(t, 0, c.Tick(), "uint8 wraps from 255 back to 0")
}

func TestCounterPeriodMatchesHardwareTimer(t *testing.T) {
	c := procon.NewCounter()
	assert.Equal(t, 4960*time.Microsecond, c.Period())
}
