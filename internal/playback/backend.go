// Package playback defines the Backend contract (spec.md §4.D): an
// abstraction over an audio output device and its decode pipeline. The
// mandatory concrete implementation lives in internal/playback/backendimpl.
package playback

import (
	"time"

	"github.com/llehouerou/waves/internal/track"
)

// Kind tags the variant carried by a Message.
type Kind int

const (
	// Request signals end-of-stream or a buffer underrun with no pending
	// data: the backend has gone Playing -> Loaded and wants a new track.
	Request Kind = iota
	// Seekable signals that seekable() may now return true (format/duration
	// became known after buffering started).
	Seekable
	// Clock fires once per wall-clock second while playing.
	Clock
	// Error carries a non-fatal decode/device error message.
	Error
)

// Message is what a Backend publishes to its construction-time channel.
// Err is only meaningful when Kind == Error.
type Message struct {
	Kind Kind
	Err  string
}

// Backend is the playback trait from spec.md §4.D. One mandatory concrete
// variant (backendimpl.Decoder) drives a real output device; the interface
// exists so alternate backends can be swapped in without touching Library.
type Backend interface {
	// Types lists the file extensions (without leading dot, lowercase)
	// this backend can decode.
	Types() []string

	// Seekable reports the backend's tri-state seek capability: nil means
	// the device can never seek, false means not yet (still buffering or
	// format unknown), true means seek is safe to call now.
	Seekable() *bool

	// Times returns the current playback position and total track
	// duration, if known.
	Times() (current, total time.Duration, ok bool)

	// VolumeSet/VolumeGet operate on the perceptual (linear 0..1) scale;
	// the backend stores volume^3 internally and applies
	// stored*track.Gain at the output stage.
	VolumeSet(v float32)
	VolumeGet() float32

	// TrackSet replaces the target track, stopping playback and releasing
	// the device; it returns the previously set track (nil if none).
	TrackSet(t *track.Track) *track.Track
	// TrackGet returns the currently targeted track, if any.
	TrackGet() *track.Track

	// Play opens the device if needed and starts or resumes decoding the
	// current track.
	Play()
	// Pause halts output but retains decode state so Play resumes
	// in place.
	Pause()
	// Stop closes the device, drops decoded state, and cancels any
	// in-flight decode. Idempotent.
	Stop()

	Playing() bool
	Paused() bool
	Stopped() bool

	// Seek jumps to offset d from the start of the track. Silently
	// ignored if Seekable() is not exactly `true`.
	Seek(d time.Duration)

	// Close releases all resources. After Close the backend must not be
	// used again.
	Close()
}
