// Package profiler times repeated operations and logs the results.
package profiler

import (
	"fmt"
	"log"
	"strings"
	"time"
)

const separator = "-----------------------------------------------------"

// Counter accumulates timings of one kind of operation. It is not safe for concurrent use.
//
// Usage:
//
//	c := profiler.NewCounter("physics step")
//	c.Profile(world.Step)
type Counter struct {
	name string
	now  func() time.Time

	count  int
	latest time.Duration
	total  time.Duration
	max    time.Duration
	min    time.Duration

	// Verbose makes Profile call PrettyPrint after every operation.
	Verbose bool
}

// NewCounter creates an empty counter.
func NewCounter(name string) *Counter {
	return &Counter{name: name, now: time.Now}
}

// Name returns the counter's name.
func (c *Counter) Name() string {
	return c.name
}

// Profile runs op, records how long it took and returns that duration.
func (c *Counter) Profile(op func()) time.Duration {
	start := c.now()
	op()
	d := c.now().Sub(start)
	c.Record(d)
	if c.Verbose {
		c.PrettyPrint()
	}
	return d
}

// Record adds one timing measured elsewhere.
func (c *Counter) Record(d time.Duration) {
	if c.count == 0 || d > c.max {
		c.max = d
	}
	if c.count == 0 || d < c.min {
		c.min = d
	}
	c.count++
	c.latest = d
	c.total += d
}

// Count returns the number of recorded operations.
func (c *Counter) Count() int { return c.count }

// Latest returns the last recorded timing.
func (c *Counter) Latest() time.Duration { return c.latest }

// Max returns the longest recorded timing.
func (c *Counter) Max() time.Duration { return c.max }

// Min returns the shortest recorded timing.
func (c *Counter) Min() time.Duration { return c.min }

// Average returns the mean timing, or 0 before anything is recorded.
func (c *Counter) Average() time.Duration {
	if c.count == 0 {
		return 0
	}
	return c.total / time.Duration(c.count)
}

// Reset forgets every recorded timing.
func (c *Counter) Reset() {
	c.count = 0
	c.latest, c.total, c.max, c.min = 0, 0, 0, 0
}

// String formats the counter as the block PrettyPrint logs.
func (c *Counter) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", c.name, separator)
	fmt.Fprintf(&b, "[%s] Number of Calls: %d\n", c.name, c.count)
	fmt.Fprintf(&b, "[%s] Latest  OP Time: %v\n", c.name, c.latest)
	fmt.Fprintf(&b, "[%s] Average OP Time: %v\n", c.name, c.Average())
	fmt.Fprintf(&b, "[%s] Maximum OP Time: %v\n", c.name, c.max)
	fmt.Fprintf(&b, "[%s] Minimum OP Time: %v\n", c.name, c.min)
	fmt.Fprintf(&b, "[%s] %s", c.name, separator)
	return b.String()
}

// PrettyPrint logs the counter's statistics as one block.
func (c *Counter) PrettyPrint() {
	for _, line := range strings.Split(c.String(), "\n") {
		log.Print(line)
	}
}
