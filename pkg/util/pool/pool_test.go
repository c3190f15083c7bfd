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

package pool

import (
	"bytes"
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequentialCyclesOnSingleBuffer(t *testing.T) {
	p := NewStringBuilderPool(1)
	for i := 0; i < 1000; i++ {
		buf := p.Get()
		buf.WriteString("some text")
		p.Put(buf)
	}
	assert.Equal(t, 1, p.Free())
	assert.Equal(t, int64(0), p.Waits())
}

func TestPutClearsBuffer(t *testing.T) {
	p := NewStringBuilderPool(1)
	buf := p.Get()
	buf.WriteString("dirty")
	p.Put(buf)

	again := p.Get()
	assert.Equal(t, 0, again.Len())
	p.Put(again)
}

func TestGetContextCanceled(t *testing.T) {
	p := NewStringBuilderPool(1)
	held := p.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	buf, ok := p.GetContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, buf)
	assert.Equal(t, int64(1), p.Waits())

	p.Put(held)
	assert.Equal(t, 1, p.Free())
}

func TestGetBlocksUntilPut(t *testing.T) {
	p := NewStringBuilderPool(1)
	held := p.Get()

	got := make(chan struct{})
	go func() {
		buf := p.Get()
		p.Put(buf)
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("Get returned while pool was exhausted")
	case <-time.After(20 * time.Millisecond):
	}

	p.Put(held)
	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("Get did not resume after Put")
	}
}

func TestParallelGetAndPut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	p := NewStringBuilderPool(3)

	wg := &sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, ok := p.GetContext(ctx)
			if !ok {
				t.Errorf("GetContext failed")
				return
			}
			buf.WriteString("x")
			time.Sleep(time.Millisecond)
			p.Put(buf)
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, p.Free())
}

func TestNoLostWakeupUnderContention(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(8))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	p := NewStringBuilderPool(1)

	wg := &sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				buf, ok := p.GetContext(ctx)
				if !ok {
					t.Errorf("GetContext stalled with a free buffer")
					return
				}
				p.Put(buf)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, p.Free())
	assert.Equal(t, 0, p.requestQueue.Len())
}

func TestPutOverCapacityPanics(t *testing.T) {
	p := NewStringBuilderPool(1)
	p.Put(p.Get())
	assert.Panics(t, func() {
		p.Put(&bytes.Buffer{})
	})
}
