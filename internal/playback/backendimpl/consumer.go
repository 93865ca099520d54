package backendimpl

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// consumerPollInterval is the sleep-poll cadence runConsumer uses while
// waiting for the producer's first samples, matching spec.md §5's "sleep
// poll before start" suspension point for the output consumer worker.
const consumerPollInterval = 2 * time.Millisecond

// runConsumer implements spec.md §4.D step 3: wait for first-data-available
// before opening the output stream at all, so beep's mixer never calls
// Stream on an empty buffer and mistakes "not decoded yet" for
// end-of-stream. If the producer finishes having appended nothing (empty
// file, or an error on the very first read), there is nothing to play;
// treat that as an immediate end rather than opening a device for silence.
func (s *session) runConsumer(d *Decoder) {
	for {
		if s.cancel.Load() {
			return
		}
		if s.buf.frames() > 0 {
			break
		}
		if s.producerFinished.Load() {
			d.onStreamEnd(s)
			return
		}
		time.Sleep(consumerPollInterval)
	}

	d.mu.Lock()
	if d.session != s {
		d.mu.Unlock()
		return
	}
	// Pause() may have already flipped d.paused while the device was still
	// waiting on first-data-available (ctrl was nil then, so it could only
	// record the intent); open already paused in that case.
	s.ctrl = &beep.Ctrl{Streamer: &consumerStream{d: d, s: s}, Paused: d.paused}
	d.mu.Unlock()

	speaker.Play(beep.Seq(s.ctrl, beep.Callback(func() {
		d.onStreamEnd(s)
	})))
}

// consumerStream is the beep.Streamer registered with speaker.Play. beep's
// own mixing goroutine becomes "the audio callback" described in
// sympal.rs: it reads frames at s.posFrames (atomic), applies
// gain*volume (volume is already stored as v^3), and advances the
// position. Returning ok=false — whether because the source is truly
// exhausted or the producer hasn't kept up — ends the chain and fires
// decoder.onStreamEnd via beep.Seq+Callback.
type consumerStream struct {
	d *Decoder
	s *session
}

func (c *consumerStream) Stream(samples [][2]float64) (n int, ok bool) {
	pos := c.s.posFrames.Load()
	vol := math.Float32frombits(c.d.volumeBits.Load())
	gain := math.Float32frombits(c.d.gainBits.Load())
	mult := float64(gain) * float64(vol)

	for i := range samples {
		l, r, have := c.s.buf.frameAt(pos + int64(i))
		if !have {
			c.s.posFrames.Add(int64(i))
			return i, i > 0
		}
		samples[i][0] = float64(l) * mult
		samples[i][1] = float64(r) * mult
	}
	c.s.posFrames.Add(int64(len(samples)))
	return len(samples), true
}

func (c *consumerStream) Err() error { return nil }
