package store

import (
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Backoff computes and performs the bounded, jittered sleep applied between
// retries whenever the engine reports the file locked.
type Backoff struct {
	fixedDelay time.Duration
	maxJitter  time.Duration

	// maxResumes bounds how many times an under-slept delay is resumed
	// before giving up on the clock entirely.
	maxResumes int

	log logrus.FieldLogger

	// seed and sleep are swapped out by tests.
	seed  func() int64
	sleep func(time.Duration)
}

// NewBackoff returns a scheduler sleeping fixed plus a random duration in
// [0, jitter) per call. maxRetries is the caller's retry budget; it bounds
// the internal sleep-resume loop at twice that count.
func NewBackoff(fixed, jitter time.Duration, maxRetries int, log logrus.FieldLogger) *Backoff {
	if fixed < 0 {
		fixed = 0
	}
	if jitter < 0 {
		jitter = 0
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backoff{
		fixedDelay: fixed,
		maxJitter:  jitter,
		maxResumes: 2 * maxRetries,
		log:        log,
		seed:       defaultSeed,
		sleep:      time.Sleep,
	}
}

// defaultSeed mixes the wall clock with the process id. The store being
// locked usually means another logger process collided with this one; time
// alone would seed both processes identically, so both would then pick the
// same jitter and collide again.
func defaultSeed() int64 {
	return time.Now().UnixNano() ^ int64(os.Getpid())
}

// Delay computes the next sleep duration, reseeding the generator on every
// call.
func (b *Backoff) Delay() time.Duration {
	delay := b.fixedDelay
	if b.maxJitter > 0 {
		rng := rand.New(rand.NewSource(b.seed()))
		delay += time.Duration(rng.Int63n(int64(b.maxJitter)))
	}
	return delay
}

// Wait sleeps for the computed delay. An interrupted or short sleep is
// resumed with the remaining duration, at most maxResumes times; running
// out of resume attempts only under-delays, it never fails the caller.
// Gross deviation from the requested delay is logged and nothing more.
func (b *Backoff) Wait() {
	delay := b.Delay()
	b.log.Debugf("sleeping %v before retrying", delay)
	if delay == 0 {
		return
	}

	start := time.Now()
	deadline := start.Add(delay)
	for attempts := b.maxResumes; ; attempts-- {
		if attempts <= 0 {
			b.log.Warn("sleep resume budget exhausted; the monotonic clock may be unreliable " +
				"or the store is extremely busy with concurrent requests")
			break
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		b.sleep(remaining)
	}

	slept := time.Since(start)
	b.log.Debugf("slept %v", slept)
	if slept > 100*(delay+time.Millisecond) {
		b.log.Warnf("major clock problem detected: requested sleep of %v took %v to complete",
			delay, slept)
	}
}
