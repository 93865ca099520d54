package track

import (
	"sync"
	"sync/atomic"
	"time"
)

// LoadProgress reports how many tracks have had their metadata loaded so far.
type LoadProgress struct {
	Current int
	Total   int
}

const numWorkers = 8

// LoadAll populates Tags/Gain on every track in parallel, embarrassingly so
// since each file is probed independently. progress, if non-nil, receives
// periodic updates and is closed when loading finishes.
func LoadAll(tracks []*Track, progress chan<- LoadProgress) {
	total := len(tracks)
	var processed atomic.Int64

	workCh := make(chan *Track, total)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range workCh {
				_ = t.LoadMeta()
				processed.Add(1)
			}
		}()
	}

	go func() {
		for _, t := range tracks {
			workCh <- t
		}
		close(workCh)
	}()

	done := make(chan struct{})
	if progress != nil {
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					progress <- LoadProgress{Current: int(processed.Load()), Total: total}
				case <-done:
					return
				}
			}
		}()
	}

	wg.Wait()
	close(done)
	if progress != nil {
		progress <- LoadProgress{Current: total, Total: total}
		close(progress)
	}
}
