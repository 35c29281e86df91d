// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"context"
	"image"
	"sync"
)

// Task is a pending or completed tile computation. The cache stores
// tasks rather than images so in-flight work can be cancelled when a
// tile is evicted or invalidated.
type Task struct {
	ctx    context.Context
	cancel context.CancelFunc

	done chan struct{}
	once sync.Once
	img  image.Image
	err  error
}

func newTask() *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// complete resolves the task. Cancellation wins over a late result, so
// a cancelled task never surfaces a partial image.
func (t *Task) complete(img image.Image, err error) {
	t.once.Do(func() {
		if t.ctx.Err() != nil {
			t.err = t.ctx.Err()
		} else {
			t.img = img
			t.err = err
		}
		close(t.done)
	})
}

// Cancel interrupts the computation. Safe to call repeatedly and after
// completion.
func (t *Task) Cancel() {
	t.cancel()
	t.once.Do(func() {
		t.err = context.Canceled
		close(t.done)
	})
}

// Done is closed when the task has resolved, successfully or not.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Image blocks until the task resolves. Cancelled tasks report
// context.Canceled.
func (t *Task) Image() (image.Image, error) {
	<-t.done
	return t.img, t.err
}

// cancelled reports whether the task was interrupted, for render
// workers checking mid-computation.
func (t *Task) cancelled() bool {
	return t.ctx.Err() != nil
}

// completedTask wraps an already-available result.
func completedTask(img image.Image, err error) *Task {
	t := newTask()
	t.complete(img, err)
	return t
}
