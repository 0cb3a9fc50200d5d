// Package buffer provides a small circular sample buffer used for progress
// reporting over the most recent window of a chain.
package buffer

import "gonum.org/v1/gonum/floats"

// CircularFloat is a circular buffer of float64 samples. Once full, each Add
// overwrites the oldest entry so the buffer always holds the most recent
// BufSize samples.
type CircularFloat struct {
	buffer    []float64 // actual storage
	pos       int       // Current position in buffer
	BufSize   int       // BufSize is the fixed number of samples maintained in memory
	Count     int       // Count is the number of samples in memory. Will always be <= BufSize
	TotalSeen int64     // TotalSeen is the total number of times Add has been called
}

// NewCircularFloat creates a new circular buffer holding totalSize samples.
func NewCircularFloat(totalSize int) *CircularFloat {
	if totalSize < 1 {
		totalSize = 1
	}

	return &CircularFloat{
		buffer:  make([]float64, totalSize),
		pos:     0,
		BufSize: totalSize,
		Count:   0,
	}
}

// Add appends the given sample to the buffer, overwriting the oldest entry.
func (c *CircularFloat) Add(v float64) {
	c.TotalSeen++

	c.buffer[c.pos] = v
	c.pos = (c.pos + 1) % c.BufSize

	c.Count++
	if c.Count > c.BufSize {
		c.Count = c.BufSize // max out
	}
}

// Mean returns the mean of the samples currently held. An empty buffer has
// mean zero.
func (c *CircularFloat) Mean() float64 {
	if c.Count < 1 {
		return 0.0
	}
	return floats.Sum(c.buffer[:c.Count]) / float64(c.Count)
}
