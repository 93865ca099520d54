package backendimpl

import (
	"errors"
	"io"
)

// producerChunkFrames is how many stereo frames the producer decodes per
// source.stream call.
const producerChunkFrames = 4096

// runProducer decodes src into s.buf until cancelled, exhausted, or a
// decode error occurs, then closes s.producerDone. Grounded on
// sympal.rs's producer thread, which decodes packets into the shared
// sample Vec and checks a `join` cancel flag between reads.
func (s *session) runProducer() {
	defer close(s.producerDone)
	defer s.src.close()

	scratch := make([]float32, producerChunkFrames*2)
	for {
		if s.cancel.Load() {
			return
		}
		n, err := s.src.stream(scratch)
		if n > 0 {
			s.buf.append(scratch[:n*2])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.emitError(err)
			}
			s.producerFinished.Store(true)
			return
		}
	}
}

func (s *session) emitError(err error) {
	select {
	case s.sig <- errMessage(err):
	default:
	}
}
