package backendimpl

import (
	"time"

	"github.com/llehouerou/waves/internal/playback"
)

// runClock publishes a Clock message once per wall-clock second, while d
// is actively playing, until s.clockStop is closed (on Stop, TrackSet, or
// natural end-of-stream).
func (s *session) runClock(d *Decoder) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-s.clockStop:
			return
		case <-t.C:
			if !d.Playing() {
				continue
			}
			select {
			case d.sig <- (playback.Message{Kind: playback.Clock}):
			default:
			}
		}
	}
}
