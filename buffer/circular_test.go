package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularEmpty(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(4)
	assert.Equal(4, c.BufSize)
	assert.Equal(0, c.Count)
	assert.Equal(0.0, c.Mean())
}

func TestCircularPartial(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(4)
	c.Add(1.0)
	c.Add(3.0)

	assert.Equal(2, c.Count)
	assert.Equal(int64(2), c.TotalSeen)
	assert.InDelta(2.0, c.Mean(), 1e-12)
}

func TestCircularWrap(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(3)
	for i := 1; i <= 5; i++ {
		c.Add(float64(i))
	}

	// Holds 3, 4, 5 after wrapping
	assert.Equal(3, c.Count)
	assert.Equal(int64(5), c.TotalSeen)
	assert.InDelta(4.0, c.Mean(), 1e-12)
}

func TestCircularMinSize(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(0)
	c.Add(7.0)
	c.Add(9.0)
	assert.Equal(1, c.BufSize)
	assert.InDelta(9.0, c.Mean(), 1e-12)
}
