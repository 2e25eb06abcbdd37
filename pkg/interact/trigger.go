package interact

import "time"

// notes are callbacks collected under the lock and run after it is released.
type notes []func()

func (n notes) run() {
	for _, fn := range n {
		fn()
	}
}

// trigger is one latency policy. With a zero delay, schedule runs the action
// inline; otherwise it runs on a timer and replaces any pending run.
//
// All methods must be called with the controller mutex held.
type trigger struct {
	delay time.Duration
	timer *time.Timer
	fn    func() notes
	gen   uint64
}

func (t *trigger) schedule(c *Controller, fn func() notes) notes {
	t.cancel()
	if t.delay <= 0 {
		return fn()
	}
	t.fn = fn
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() {
		c.mu.Lock()
		if c.closed || t.gen != gen {
			c.mu.Unlock()
			return
		}
		t.timer, t.fn = nil, nil
		n := fn()
		c.mu.Unlock()
		n.run()
	})
	return nil
}

// cancel drops the pending run. A timer that already fired and is waiting
// for the lock sees the generation change and does nothing.
func (t *trigger) cancel() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer, t.fn = nil, nil
	t.gen++
}

// flush runs the pending action now, if any.
func (t *trigger) flush() notes {
	fn := t.fn
	if fn == nil {
		return nil
	}
	t.cancel()
	return fn()
}

func (t *trigger) pending() bool { return t.timer != nil }
