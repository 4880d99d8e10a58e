package authflow

import (
	"context"
	"sync"
	"sync/atomic"
)

// notifyDispatcher decouples notification delivery from the flow: Emit
// never blocks longer than the buffer allows, a slow sink only delays
// the dispatcher goroutine.
type notifyDispatcher struct {
	cfg       NotificationConfig
	sink      Notifier
	ch        chan Notification
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newNotifyDispatcher(cfg NotificationConfig, sink Notifier) *notifyDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpNotifier{}
	}

	d := &notifyDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Notification, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *notifyDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.Notify(context.Background(), event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.sink.Notify(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit queues a notification. With DropIfFull set a full buffer drops
// the event and counts it; otherwise Emit blocks until there is room,
// ctx is done, or the dispatcher closes.
func (d *notifyDispatcher) Emit(ctx context.Context, event Notification) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close drains queued notifications and stops the dispatcher goroutine.
func (d *notifyDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns how many notifications were discarded under
// backpressure.
func (d *notifyDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
