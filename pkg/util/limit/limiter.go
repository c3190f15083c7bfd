/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package limit

import (
	"sync"
	"time"

	"github.com/andres-erbsen/clock"
)

// Limiter throttles a byte stream. The writer calls TakeN with the size of
// every chunk before handing it on; TakeN blocks as long as needed to keep
// the average throughput at the configured rate.
type Limiter interface {
	TakeN(n int) time.Time
}

// Clock is the minimum necessary interface to instantiate a rate limiter with
// a clock or mock clock, compatible with clocks created using
// github.com/andres-erbsen/clock.
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type config struct {
	clock    Clock
	maxSlack time.Duration
	per      time.Duration
}

// Option configures a Limiter.
type Option interface {
	apply(*config)
}

type clockOption struct {
	clock Clock
}

func (o clockOption) apply(c *config) {
	c.clock = o.clock
}

// WithClock returns an option for New that provides an alternate Clock
// implementation, typically a mock Clock for testing.
func WithClock(clock Clock) Option {
	return clockOption{clock: clock}
}

type slackOption time.Duration

func (o slackOption) apply(c *config) {
	c.maxSlack = time.Duration(o)
}

// WithSlack bounds how much unused time a slow writer may save up and
// spend later as a burst.
func WithSlack(d time.Duration) Option {
	return slackOption(d)
}

// WithoutSlack is an Option for New that initializes the limiter without
// any tolerance for bursts.
var WithoutSlack Option = slackOption(0)

type perOption time.Duration

func (p perOption) apply(c *config) {
	c.per = time.Duration(p)
}

// Per allows configuring limits for different time windows.
// The default window is one second, so New(1024) allows 1KB per second.
func Per(per time.Duration) Option {
	return perOption(per)
}

type unlimited struct{}

// NewUnlimited returns a Limiter that never blocks.
func NewUnlimited() Limiter {
	return unlimited{}
}

func (unlimited) TakeN(int) time.Time {
	return time.Now()
}

func buildConfig(opts []Option) config {
	c := config{
		clock:    clock.New(),
		maxSlack: 100 * time.Millisecond,
		per:      time.Second,
	}

	for _, opt := range opts {
		opt.apply(&c)
	}
	return c
}

type byteLimiter struct {
	mu sync.Mutex

	last     time.Time
	sleepFor time.Duration
	perByte  float64
	maxSlack time.Duration
	clock    Clock
}

// New returns a Limiter allowing rate bytes per window. A non-positive rate
// yields an unlimited Limiter.
func New(rate float64, opts ...Option) Limiter {
	if rate <= 0 {
		return NewUnlimited()
	}
	c := buildConfig(opts)
	return &byteLimiter{
		perByte:  float64(c.per) / rate,
		maxSlack: -1 * c.maxSlack,
		clock:    c.clock,
	}
}

func (t *byteLimiter) TakeN(n int) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()

	// The first chunk passes right away, the ones after it pay for the time
	// their size is worth.
	if t.last.IsZero() {
		t.last = now
		return t.last
	}

	t.sleepFor += time.Duration(float64(n)*t.perByte) - now.Sub(t.last)

	// Do not let a long pause turn into an unbounded burst.
	if t.sleepFor < t.maxSlack {
		t.sleepFor = t.maxSlack
	}

	if t.sleepFor > 0 {
		t.clock.Sleep(t.sleepFor)
		t.last = now.Add(t.sleepFor)
		t.sleepFor = 0
	} else {
		t.last = now
	}

	return t.last
}
