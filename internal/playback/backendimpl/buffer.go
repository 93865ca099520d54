package backendimpl

import "sync"

// sampleBuffer is an append-only, growable store of interleaved stereo
// float32 frames (L, R, L, R, ...) shared between one producer goroutine
// (decoding) and one consumer (the device callback reading at an atomic
// position). Grounded on original_source/src/library/player/sympal.rs's
// `Arc<RwLock<Vec<f32>>>` samples buffer.
type sampleBuffer struct {
	mu   sync.RWMutex
	data []float32
}

func newSampleBuffer() *sampleBuffer {
	return &sampleBuffer{data: make([]float32, 0, 1<<20)}
}

// append adds frames (len(frames) must be even) to the buffer.
func (b *sampleBuffer) append(frames []float32) {
	b.mu.Lock()
	b.data = append(b.data, frames...)
	b.mu.Unlock()
}

// frameAt reads the stereo frame at frame index i. ok is false if i is out
// of bounds.
func (b *sampleBuffer) frameAt(i int64) (l, r float32, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := i * 2
	if idx < 0 || idx+1 >= int64(len(b.data)) {
		return 0, 0, false
	}
	return b.data[idx], b.data[idx+1], true
}

func (b *sampleBuffer) frames() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.data)) / 2
}
