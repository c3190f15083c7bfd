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
	"container/list"
	"context"
	"sync"

	"go.uber.org/atomic"
)

// StringBuilderPool is a fixed set of text buffers shared by the parsers of
// one service. A parser borrows one buffer per Parse call; when every buffer
// is borrowed, Get blocks until one is returned.
type StringBuilderPool struct {
	capacity     int
	free         int
	buffers      []*bytes.Buffer
	lock         *sync.Mutex
	requestQueue *list.List

	waits  *atomic.Int64
	onWait func()
}

func NewStringBuilderPool(capacity int) *StringBuilderPool {
	if capacity <= 0 {
		panic("string builder pool capacity must be positive")
	}
	p := &StringBuilderPool{
		capacity:     capacity,
		free:         capacity,
		buffers:      make([]*bytes.Buffer, capacity),
		lock:         &sync.Mutex{},
		requestQueue: list.New(),
		waits:        atomic.NewInt64(0),
	}
	for i := 0; i < capacity; i++ {
		p.buffers[i] = &bytes.Buffer{}
	}
	return p
}

func (p *StringBuilderPool) Capacity() int {
	return p.capacity
}

// Free returns the number of buffers not borrowed right now.
func (p *StringBuilderPool) Free() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.free
}

// ObserveWaits registers f to be called every time a Get has to wait. It
// must be set before the pool is shared.
func (p *StringBuilderPool) ObserveWaits(f func()) {
	p.onWait = f
}

// Waits returns how many Get calls had to wait for a buffer.
func (p *StringBuilderPool) Waits() int64 {
	return p.waits.Load()
}

// GetContext borrows a buffer, waiting until one is put back or ctx is done.
func (p *StringBuilderPool) GetContext(ctx context.Context) (*bytes.Buffer, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	p.lock.Lock()
	var notify chan struct{}
	var el *list.Element
	for {
		if p.free > 0 {
			if el != nil {
				p.requestQueue.Remove(el)
			}
			break
		}
		if notify == nil {
			// one pending wakeup survives until the waiter selects on it
			notify = make(chan struct{}, 1)
			el = p.requestQueue.PushBack(notify)
			p.waits.Inc()
			if p.onWait != nil {
				p.onWait()
			}
		}
		p.lock.Unlock()
		select {
		case <-ctx.Done():
			p.lock.Lock()
			p.requestQueue.Remove(el)
			p.lock.Unlock()
			return nil, false
		case <-notify:
		}
		p.lock.Lock()
	}
	p.free--
	buf := p.buffers[p.free]
	p.buffers[p.free] = nil
	p.notifyAndUnlock()
	return buf, true
}

func (p *StringBuilderPool) Get() *bytes.Buffer {
	buf, ok := p.GetContext(context.Background())
	if !ok {
		panic("unknown expected Get fail")
	}
	return buf
}

// Put resets buf and returns it to the pool.
func (p *StringBuilderPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	p.lock.Lock()
	if p.free+1 > p.capacity {
		p.lock.Unlock()
		panic("put more buffers than borrowed")
	}
	p.buffers[p.free] = buf
	p.free++
	p.notifyAndUnlock()
}

func (p *StringBuilderPool) notifyAndUnlock() {
	defer p.lock.Unlock()
	if p.free == 0 {
		return
	}
	for el := p.requestQueue.Front(); el != nil; el = el.Next() {
		select {
		case el.Value.(chan struct{}) <- struct{}{}:
		default:
		}
	}
}
