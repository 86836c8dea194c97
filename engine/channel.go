package engine

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Channel pairs one producer output port with one consumer input port over
// exactly one buffer. It is a single-producer/single-consumer ring: the read
// cursor is advanced only by the consumer's worker, the write cursor only by
// the producer's. The two cursors are atomix.Uint64 fields with acquire/
// release pairing -- the producer publishes its write cursor with a release
// store, the consumer observes it with an acquire load, and vice versa --
// exactly as the scheduler's concurrency model (spec section 5) requires.
//
// Waiting past the lock-free fast path (buffer full / buffer empty) parks on
// a condition-variable pair, after a short backoff spin, mirroring the
// stream.RingBuffer cond/mutex pattern the teacher uses, generalized from
// whole "slots" to a sample-cursor ring so a consumer can take a partial batch
// without the producer being forced to produce whole slots at a time.
type Channel[T Sample] struct {
	buf *buffer[T]

	read  atomix.Uint64 // consumer-owned; advanced by the consumer worker
	write atomix.Uint64 // producer-owned; advanced by the producer worker

	lock     sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	closed bool
	err    error
}

// NewChannel allocates a Channel with the given capacity (rounded up to a
// power of two) and SIMD alignment.
func NewChannel[T Sample](capacity int, alignment int) *Channel[T] {
	c := &Channel[T]{buf: newBuffer[T](capacity, alignment)}
	c.notEmpty = sync.NewCond(&c.lock)
	c.notFull = sync.NewCond(&c.lock)
	return c
}

// Capacity returns the channel's ring capacity in samples.
func (c *Channel[T]) Capacity() int {
	return c.buf.capacity()
}

func (c *Channel[T]) mask() uint64 {
	return c.buf.mask
}

// readable returns the number of samples available to read, and the length
// of the longest *contiguous* run starting at the read cursor (the two
// differ only when the live region straddles the end of the backing array).
func (c *Channel[T]) readable() (total int, contiguous int) {
	w := c.write.LoadAcquire()
	r := c.read.LoadRelaxed()
	total = int(w - r)
	if total <= 0 {
		return 0, 0
	}
	idx := r & c.mask()
	toEnd := uint64(c.buf.capacity()) - idx
	if uint64(total) < toEnd {
		contiguous = total
	} else {
		contiguous = int(toEnd)
	}
	return total, contiguous
}

// writable mirrors readable for the free region at the write cursor.
func (c *Channel[T]) writable() (total int, contiguous int) {
	r := c.read.LoadAcquire()
	w := c.write.LoadRelaxed()
	free := int(uint64(c.buf.capacity()) - (w - r))
	if free <= 0 {
		return 0, 0
	}
	idx := w & c.mask()
	toEnd := uint64(c.buf.capacity()) - idx
	if uint64(free) < toEnd {
		contiguous = free
	} else {
		contiguous = int(toEnd)
	}
	return free, contiguous
}

// readSlice returns the contiguous readable region starting at the read
// cursor; the caller must not read past its length.
func (c *Channel[T]) readSlice(n int) []T {
	idx := c.read.LoadRelaxed() & c.mask()
	return c.buf.data[idx : idx+uint64(n)]
}

// writeSlice returns the contiguous writable region starting at the write
// cursor.
func (c *Channel[T]) writeSlice(n int) []T {
	idx := c.write.LoadRelaxed() & c.mask()
	return c.buf.data[idx : idx+uint64(n)]
}

// advanceRead commits n consumed samples and wakes any producer blocked on
// the channel being full.
func (c *Channel[T]) advanceRead(n int) {
	if n == 0 {
		return
	}
	r := c.read.LoadRelaxed()
	c.read.StoreRelease(r + uint64(n))
	c.lock.Lock()
	c.notFull.Broadcast()
	c.lock.Unlock()
}

// advanceWrite commits n produced samples and wakes any consumer blocked on
// the channel being empty.
func (c *Channel[T]) advanceWrite(n int) {
	if n == 0 {
		return
	}
	w := c.write.LoadRelaxed()
	c.write.StoreRelease(w + uint64(n))
	c.lock.Lock()
	c.notEmpty.Broadcast()
	c.lock.Unlock()
}

// waitReadable blocks (spinning briefly first, then parking) until at least
// min samples are readable, the channel is closed, or stop fires. It
// returns the number actually readable (>= min, unless closed/stopped).
func (c *Channel[T]) waitReadable(min int, stop *stopSignal) (int, error) {
	var b iox.Backoff
	for spins := 0; spins < spinBudget; spins++ {
		total, _ := c.readable()
		if total >= min {
			return total, nil
		}
		if stop.stopped() {
			return total, NewAbortedError("")
		}
		if err := c.getErr(); err != nil {
			return total, err
		}
		b.Wait()
	}
	b.Reset()

	c.lock.Lock()
	var total int
	for {
		total, _ = c.readable()
		if total >= min || stop.stopped() || c.closed {
			break
		}
		c.notEmpty.Wait()
	}
	c.lock.Unlock()

	if stop.stopped() {
		return total, NewAbortedError("")
	}
	if err := c.getErr(); err != nil {
		return total, err
	}
	return total, nil
}

// waitWritable is the producer-side mirror of waitReadable.
func (c *Channel[T]) waitWritable(min int, stop *stopSignal) (int, error) {
	var b iox.Backoff
	for spins := 0; spins < spinBudget; spins++ {
		free, _ := c.writable()
		if free >= min {
			return free, nil
		}
		if stop.stopped() {
			return free, NewAbortedError("")
		}
		if err := c.getErr(); err != nil {
			return free, err
		}
		b.Wait()
	}
	b.Reset()

	c.lock.Lock()
	var free int
	for {
		free, _ = c.writable()
		if free >= min || stop.stopped() || c.closed {
			break
		}
		c.notFull.Wait()
	}
	c.lock.Unlock()

	if stop.stopped() {
		return free, NewAbortedError("")
	}
	if err := c.getErr(); err != nil {
		return free, err
	}
	return free, nil
}

// spinBudget bounds how many backoff-spaced polls a worker makes before
// parking on the channel's condition variable, the same shape
// hayabusa-cloud-lfq's own documented pipeline-stage pattern uses around
// Enqueue/Dequeue, just with a hard ceiling so a permanently-blocked peer
// still results in a real park rather than a spin loop.
const spinBudget = 32

// closeWithError marks the channel as closed (an upstream EOF/error) so
// blocked peers wake instead of hanging forever.
func (c *Channel[T]) closeWithError(err error) {
	c.lock.Lock()
	c.closed = true
	c.err = err
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
	c.lock.Unlock()
}

func (c *Channel[T]) getErr() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.closed {
		return nil
	}
	return c.err
}

// wake unconditionally broadcasts both condition variables; used by
// Pipeline.Stop to release every worker blocked on this channel.
func (c *Channel[T]) wake() {
	c.lock.Lock()
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
	c.lock.Unlock()
}
