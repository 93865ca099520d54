// Package backendimpl is the mandatory playback.Backend implementation:
// beep-based decoding for mp3/flac/wav plus a hand-rolled Ogg Vorbis
// decoder, feeding a producer/consumer sample buffer whose consumer is
// registered with beep's speaker as a custom beep.Streamer. Grounded on
// the teacher's internal/player/player.go (device/speaker wiring) and
// original_source/src/library/player/sympal.rs (the producer/consumer,
// atomic-position architecture itself).
package backendimpl

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/waves/internal/playback"
	"github.com/llehouerou/waves/internal/track"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  int
)

// speakerBufferDuration mirrors the teacher's player.go device buffer size.
const speakerBufferDuration = 50 * time.Millisecond

func ensureSpeaker(sampleRate int) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized && speakerSampleRate == sampleRate {
		return nil
	}
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(speakerBufferDuration)); err != nil {
		return err
	}
	speakerInitialized = true
	speakerSampleRate = sampleRate
	return nil
}

// session holds everything specific to one Play()ed track.
type session struct {
	buf *sampleBuffer
	src source

	sig chan<- playback.Message

	posFrames        atomic.Int64
	cancel           atomic.Bool
	ended            atomic.Bool
	producerFinished atomic.Bool

	producerDone chan struct{}
	clockStop    chan struct{}

	sampleRate  int
	totalFrames int

	ctrl *beep.Ctrl
}

// Decoder is the concrete playback.Backend.
type Decoder struct {
	mu sync.Mutex

	sig chan<- playback.Message

	curTrack *track.Track
	session  *session

	volumeBits atomic.Uint32 // perceptual volume^3, clamped 0..1 (spec.md §4.D)
	gainBits   atomic.Uint32 // current track's ReplayGain multiplier

	playing bool
	paused  bool
}

var _ playback.Backend = (*Decoder)(nil)

// New returns a Decoder that publishes Messages to sig. sig should be
// buffered; sends are always non-blocking.
func New(sig chan<- playback.Message) playback.Backend {
	d := &Decoder{sig: sig}
	d.volumeBits.Store(math.Float32bits(1))
	d.gainBits.Store(math.Float32bits(1))
	return d
}

func errMessage(err error) playback.Message {
	return playback.Message{Kind: playback.Error, Err: err.Error()}
}

func (d *Decoder) Types() []string { return []string{"mp3", "flac", "ogg", "wav"} }

// Seekable never returns nil: this backend's output device can always seek
// in principle, so the tri-state's nil ("device cannot seek at all") case
// never applies here; it only ever reports Some(false)/Some(true).
func (d *Decoder) Seekable() *bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	ok := d.session != nil && d.session.totalFrames >= 0
	return &ok
}

func (d *Decoder) Times() (current, total time.Duration, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.session
	if s == nil || s.totalFrames < 0 || s.sampleRate <= 0 {
		return 0, 0, false
	}
	pos := s.posFrames.Load()
	cur := time.Duration(pos) * time.Second / time.Duration(s.sampleRate)
	tot := time.Duration(s.totalFrames) * time.Second / time.Duration(s.sampleRate)
	return cur, tot, true
}

// VolumeSet takes a linear 0..1 UI volume and stores its cube (spec.md
// §4.D: "internally store v^3 clamped to [0,1]").
func (d *Decoder) VolumeSet(v float32) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	d.volumeBits.Store(math.Float32bits(v * v * v))
}

// VolumeGet returns the cube root of the stored volume, so the UI sees a
// linear 0..1 value matching what VolumeSet was given.
func (d *Decoder) VolumeGet() float32 {
	return float32(math.Cbrt(float64(math.Float32frombits(d.volumeBits.Load()))))
}

// TrackSet stops any active session and sets the new decode target.
func (d *Decoder) TrackSet(t *track.Track) *track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	old := d.curTrack
	d.stopLocked()
	d.curTrack = t
	if t != nil {
		d.gainBits.Store(math.Float32bits(t.Gain))
	} else {
		d.gainBits.Store(math.Float32bits(1))
	}
	return old
}

func (d *Decoder) TrackGet() *track.Track {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.curTrack
}

// Play opens the track's source (if no session exists) and starts/resumes
// output. Starting fresh never calls speaker.Play directly: it hands off to
// session.runConsumer, which waits for the producer's first decoded samples
// before opening the device (spec.md §4.D step 3) so a slow producer is
// never mistaken for an already-exhausted track.
func (d *Decoder) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.playing {
		return
	}
	if d.curTrack == nil {
		return
	}

	// A session that already reached its end (onStreamEnd) is Loaded again:
	// tear it down so the track is decoded afresh.
	if d.session != nil && d.session.ended.Load() {
		d.stopLocked()
	}

	if d.session == nil {
		if !d.openSessionLocked() {
			return
		}
	}

	if err := ensureSpeaker(d.session.sampleRate); err != nil {
		d.emitErrorLocked(err)
		return
	}

	if d.paused {
		if d.session.ctrl != nil {
			speaker.Lock()
			d.session.ctrl.Paused = false
			speaker.Unlock()
		}
		// else: still waiting on first-data-available; runConsumer checks
		// d.paused itself once it opens the stream.
		d.playing, d.paused = true, false
		return
	}

	d.playing, d.paused = true, false
	go d.session.runConsumer(d)
}

// openSessionLocked opens the current track's source and installs a fresh
// session, launching its producer and clock goroutines immediately —
// decoding runs independently of device/output state, matching
// sympal.rs's producer thread, which starts as soon as a track is
// targeted rather than waiting on the consumer. Caller holds d.mu.
func (d *Decoder) openSessionLocked() bool {
	src, err := openSource(d.curTrack.Path)
	if err != nil {
		d.emitErrorLocked(err)
		return false
	}
	s := &session{
		buf:          newSampleBuffer(),
		src:          src,
		sig:          d.sig,
		producerDone: make(chan struct{}),
		clockStop:    make(chan struct{}),
		sampleRate:   src.sampleRate(),
		totalFrames:  src.lenFrames(),
	}
	d.session = s
	if s.totalFrames >= 0 {
		select {
		case d.sig <- (playback.Message{Kind: playback.Seekable}):
		default:
		}
	}
	go s.runProducer()
	go s.runClock(d)
	return true
}

func (d *Decoder) emitErrorLocked(err error) {
	select {
	case d.sig <- errMessage(err):
	default:
	}
}

// onStreamEnd runs on beep's mixing goroutine when the consumer Streamer
// signals completion (true end-of-stream or a buffer underrun — spec.md
// treats both identically: publish Request and return to Loaded).
func (d *Decoder) onStreamEnd(s *session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.ended.Swap(true) {
		return
	}
	close(s.clockStop)
	if d.session == s {
		d.playing, d.paused = false, false
	}
	select {
	case d.sig <- (playback.Message{Kind: playback.Request}):
	default:
	}
}

func (d *Decoder) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.playing || d.session == nil {
		return
	}
	if d.session.ctrl != nil {
		speaker.Lock()
		d.session.ctrl.Paused = true
		speaker.Unlock()
	}
	// else: the device hasn't opened yet (still waiting on first-data-
	// available); runConsumer checks d.paused itself once it gets there.
	d.playing, d.paused = false, true
}

func (d *Decoder) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// stopLocked cancels and tears down the active session, if any. Caller
// holds d.mu.
func (d *Decoder) stopLocked() {
	if d.session == nil {
		d.playing, d.paused = false, false
		return
	}
	s := d.session
	s.cancel.Store(true)
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Streamer = nil
		speaker.Unlock()
	}
	if !s.ended.Swap(true) {
		select {
		case <-s.clockStop:
		default:
			close(s.clockStop)
		}
	}
	<-s.producerDone
	d.session = nil
	d.playing, d.paused = false, false
}

func (d *Decoder) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *Decoder) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

func (d *Decoder) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.playing && !d.paused
}

// Seek repositions the read cursor within the decoded buffer. Silently
// ignored unless Seekable() is exactly true; stops playback if the target
// is at or past the known track end, matching the teacher's player.go
// Seek behavior.
func (d *Decoder) Seek(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.session
	if s == nil || s.totalFrames < 0 || s.sampleRate <= 0 {
		return
	}
	target := int64(dur.Seconds() * float64(s.sampleRate))
	if target < 0 {
		target = 0
	}
	if target >= int64(s.totalFrames) {
		d.stopLocked()
		return
	}
	s.posFrames.Store(target)
}

func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.curTrack = nil
}
