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
	"testing"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/assert"
)

// sleepRecorder advances the mock clock instead of blocking on it.
type sleepRecorder struct {
	*clock.Mock
	slept []time.Duration
}

func (s *sleepRecorder) Sleep(d time.Duration) {
	s.slept = append(s.slept, d)
	s.Mock.Add(d)
}

func TestTakeNKeepsRate(t *testing.T) {
	c := &sleepRecorder{Mock: clock.NewMock()}
	c.Add(time.Hour)
	l := New(1000, WithClock(c), WithoutSlack)

	start := c.Now()
	for i := 0; i < 5; i++ {
		l.TakeN(500)
	}
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
	}, c.slept)
	assert.Equal(t, 2*time.Second, c.Now().Sub(start))
}

func TestTakeNAfterPause(t *testing.T) {
	c := &sleepRecorder{Mock: clock.NewMock()}
	c.Add(time.Hour)
	l := New(1000, WithClock(c), WithoutSlack)

	l.TakeN(1000)
	c.Add(3 * time.Second)
	l.TakeN(1000)
	assert.Empty(t, c.slept)

	l.TakeN(1000)
	assert.Equal(t, []time.Duration{time.Second}, c.slept)
}

func TestPer(t *testing.T) {
	c := &sleepRecorder{Mock: clock.NewMock()}
	c.Add(time.Hour)
	l := New(60, WithClock(c), WithoutSlack, Per(time.Minute))

	l.TakeN(1)
	l.TakeN(30)
	assert.Equal(t, []time.Duration{30 * time.Second}, c.slept)
}

func TestNonPositiveRateIsUnlimited(t *testing.T) {
	_, ok := New(0).(unlimited)
	assert.True(t, ok)
	_, ok = New(-1).(unlimited)
	assert.True(t, ok)
}
