package library

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/waves/internal/libevent"
	"github.com/llehouerou/waves/internal/playback"
	"github.com/llehouerou/waves/internal/tagstring"
	"github.com/llehouerou/waves/internal/track"
)

// BackendFactory constructs a playback.Backend that publishes its messages
// to sig. cmd/waves supplies backendimpl.New; tests supply a fake.
type BackendFactory func(sig chan<- playback.Message) playback.Backend

// Library owns the full track set, the filter/sort pipeline over it, the
// current playback target, and the backend driving output. See spec.md §3
// and §4.C for the invariants this type upholds.
type Library struct {
	tracks []*track.Track
	ids    map[*track.Track]uuid.UUID

	mu      sync.RWMutex
	filters []Filter
	stages  []FilteredTracks
	sorters []Sorter
	queue   []*track.Track
	history []*track.Track

	backend playback.Backend
	bus     *libevent.Bus
	msgCh   chan playback.Message

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

// New walks root (§4.B), loads metadata in parallel, applies the initial
// filter/sort configuration, picks a random current track, and starts the
// backend plus its supporting workers. volume is the initial user-facing
// (linear 0..1) volume.
func New(root string, hidden bool, initialFilters []Filter, initialSorters []Sorter, newBackend BackendFactory, volume float32) (*Library, error) {
	tracks, err := track.Discover(root, hidden)
	if err != nil {
		return nil, err
	}
	track.LoadAll(tracks, nil)

	ids := make(map[*track.Track]uuid.UUID, len(tracks))
	for _, t := range tracks {
		ids[t] = uuid.New()
	}

	l := &Library{
		tracks:  tracks,
		ids:     ids,
		sorters: append([]Sorter(nil), initialSorters...),
		bus:     libevent.New(),
		msgCh:   make(chan playback.Message, 32),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}

	l.stages = applyFilters(l.tracks, initialFilters, nil)
	l.filters = append([]Filter(nil), initialFilters...)
	l.queue = queueFrom(l.tracks, l.stages)
	sortQueue(l.queue, l.sorters)

	l.backend = newBackend(l.msgCh)
	l.backend.VolumeSet(volume)
	l.backend.TrackSet(l.getRandomLocked(nil))

	go l.nexterLoop()

	return l, nil
}

// Subscribe registers a new LibEvt reader.
func (l *Library) Subscribe() *libevent.Subscription {
	return l.bus.Subscribe()
}

// Close stops playback, releases the backend, and shuts down the event bus
// and background workers. It is the explicit analogue of spec.md §9's
// "dropping the library" — Go has no destructor, so shutdown is triggered
// here rather than implicitly, and callers must call it; calls after the
// first are no-ops.
func (l *Library) Close() {
	l.closeOnce.Do(func() {
		close(l.closeCh)
		l.backend.Close()
		l.bus.Close()
		<-l.done
	})
}

// nexterLoop is the combined nexter + event-forwarder worker (spec.md §5):
// it blocks on backend messages, advances to a new random track on Request,
// and republishes backend-originated conditions onto the library bus.
func (l *Library) nexterLoop() {
	defer close(l.done)
	for {
		select {
		case <-l.closeCh:
			return
		case msg, ok := <-l.msgCh:
			if !ok {
				return
			}
			switch msg.Kind {
			case playback.Request:
				l.Next()
			case playback.Error:
				l.bus.Publish(libevent.Event{Kind: libevent.Error, Err: msg.Err})
			case playback.Seekable, playback.Clock:
				// No LibEvt variant carries these; UI queries Times()/Seekable()
				// directly when it redraws.
			}
		}
	}
}

// ---- queries ----

// GetTracks returns the full, unfiltered track list.
func (l *Library) GetTracks() []*track.Track {
	return l.tracks
}

// GetQueue returns the last non-empty filter stage's tracks, or the full
// list when every stage is empty or there are no stages.
func (l *Library) GetQueue() []*track.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.queue
}

// GetFilterTreeDisplay returns the filter chain alongside each stage's
// cached tracks, suitable for rendering a filter tree UI.
func (l *Library) GetFilterTreeDisplay() []FilteredTracks {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]FilteredTracks(nil), l.stages...)
}

// GetFilterItems returns the accepted items for filter stage i, or nil if
// i is out of range (FilterPositionOOB is a silent no-op per spec.md §7).
func (l *Library) GetFilterItems(i int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.filters) {
		return nil
	}
	return l.filters[i].Items
}

// FilterCount returns the number of stages in the filter chain.
func (l *Library) FilterCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.filters)
}

// GetSorters returns the current sorter list.
func (l *Library) GetSorters() []Sorter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Sorter(nil), l.sorters...)
}

// GetTaglist renders tagstring against every track in the current queue, in
// queue order.
func (l *Library) GetTaglist(ts string) []string {
	queue := l.GetQueue()
	out := make([]string, len(queue))
	for i, t := range queue {
		out[i] = tagstring.Eval(ts, t.Tags)
	}
	return out
}

// GetTaglistSort is GetTaglist, deduplicated and lexically sorted.
func (l *Library) GetTaglistSort(ts string) []string {
	vals := l.GetTaglist(ts)
	sort.Strings(vals)
	out := vals[:0]
	var prev string
	for i, v := range vals {
		if i == 0 || v != prev {
			out = append(out, v)
			prev = v
		}
	}
	return out
}

// TrackGet returns the current playback target, if any.
func (l *Library) TrackGet() *track.Track {
	return l.backend.TrackGet()
}

// TrackID returns the stable identifier assigned to t at construction, for
// UI-facing display/selection purposes.
func (l *Library) TrackID(t *track.Track) (uuid.UUID, bool) {
	id, ok := l.ids[t]
	return id, ok
}

func (l *Library) VolumeGet() float32  { return l.backend.VolumeGet() }
func (l *Library) Playing() bool       { return l.backend.Playing() }
func (l *Library) Paused() bool        { return l.backend.Paused() }
func (l *Library) Stopped() bool       { return l.backend.Stopped() }
func (l *Library) Seekable() *bool     { return l.backend.Seekable() }

// Times returns the current/total duration of the playing track, if known.
func (l *Library) Times() (current, total time.Duration, ok bool) {
	return l.backend.Times()
}

// Waveform is a UI-facing convenience query; no waveform computation is
// specified, so it always reports absence.
func (l *Library) Waveform(width int) ([]float32, bool) {
	return nil, false
}

// Thumbnail is a UI-facing convenience query; the Track/Tag data model
// carries no artwork, so it always reports absence.
func (l *Library) Thumbnail(width, height int) ([]byte, bool) {
	return nil, false
}

// ---- mutations ----

// publishUpdate is called after every mutation that can affect the queue.
func (l *Library) publishUpdate() {
	l.bus.Publish(libevent.Event{Kind: libevent.Update})
}

// SetFilters replaces the entire filter chain. Stages whose filter is
// structurally identical to the corresponding previous stage are reused
// unchanged; recomputation starts at the first mismatch. A fully-identical
// replacement is therefore a no-op beyond republishing Update.
func (l *Library) SetFilters(filters []Filter) {
	l.mu.Lock()
	l.stages = applyFilters(l.tracks, filters, l.stages)
	l.filters = append([]Filter(nil), filters...)
	l.queue = queueFrom(l.tracks, l.stages)
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// InsertFilter inserts f at pos, clamping pos to [0, len] (FilterPositionOOB
// is a silent clamp per spec.md §7), and recomputes from pos down.
func (l *Library) InsertFilter(f Filter, pos int) {
	l.mu.Lock()
	pos = clamp(pos, 0, len(l.filters))
	filters := append([]Filter(nil), l.filters[:pos]...)
	filters = append(filters, f)
	filters = append(filters, l.filters[pos:]...)
	l.filters = filters
	l.stages = applyFilters(l.tracks, l.filters, l.stages[:min(pos, len(l.stages))])
	l.queue = queueFrom(l.tracks, l.stages)
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// RemoveFilter removes the stage at pos; out-of-range pos is a silent no-op.
func (l *Library) RemoveFilter(pos int) {
	l.mu.Lock()
	if pos < 0 || pos >= len(l.filters) {
		l.mu.Unlock()
		return
	}
	filters := append([]Filter(nil), l.filters[:pos]...)
	filters = append(filters, l.filters[pos+1:]...)
	l.filters = filters
	cache := l.stages[:pos]
	l.stages = applyFilters(l.tracks, l.filters, cache)
	l.queue = queueFrom(l.tracks, l.stages)
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// SetFilterItems replaces the accepted items of the filter at pos and
// recomputes from pos down; out-of-range pos is a silent no-op.
func (l *Library) SetFilterItems(pos int, items []string) {
	l.mu.Lock()
	if pos < 0 || pos >= len(l.filters) {
		l.mu.Unlock()
		return
	}
	l.filters[pos].Items = append([]string(nil), items...)
	l.stages = applyFilters(l.tracks, l.filters, l.stages[:pos])
	l.queue = queueFrom(l.tracks, l.stages)
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// InsertSortTagstring inserts a new sorter at pos (clamped) and re-sorts
// the queue.
func (l *Library) InsertSortTagstring(ts string, pos int) {
	l.mu.Lock()
	pos = clamp(pos, 0, len(l.sorters))
	sorters := append([]Sorter(nil), l.sorters[:pos]...)
	sorters = append(sorters, Sorter{Tagstring: ts})
	sorters = append(sorters, l.sorters[pos:]...)
	l.sorters = sorters
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// RemoveSortTagstring removes the sorter at pos and re-sorts the queue;
// out-of-range pos is a silent no-op.
func (l *Library) RemoveSortTagstring(pos int) {
	l.mu.Lock()
	if pos < 0 || pos >= len(l.sorters) {
		l.mu.Unlock()
		return
	}
	sorters := append([]Sorter(nil), l.sorters[:pos]...)
	sorters = append(sorters, l.sorters[pos+1:]...)
	l.sorters = sorters
	sortQueue(l.queue, l.sorters)
	l.mu.Unlock()
	l.publishUpdate()
}

// GetRandom samples a track uniformly from the current queue, rejecting
// the currently playing track when the queue has >=2 elements. Returns nil
// if the queue is empty.
func (l *Library) GetRandom() *track.Track {
	l.mu.RLock()
	queue := l.queue
	l.mu.RUnlock()
	return l.getRandomLocked(queue)
}

// getRandomLocked samples from queue (or the current locked queue if nil
// is passed, used only during construction before the mutex is live).
func (l *Library) getRandomLocked(queue []*track.Track) *track.Track {
	if queue == nil {
		queue = l.queue
	}
	switch len(queue) {
	case 0:
		return nil
	case 1:
		return queue[0]
	default:
		current := l.currentUnsafe()
		for {
			t := queue[rand.IntN(len(queue))]
			if t != current {
				return t
			}
		}
	}
}

// currentUnsafe reads the backend's current track without going through
// the backend if it is not yet constructed (during New, before l.backend
// is assigned).
func (l *Library) currentUnsafe() *track.Track {
	if l.backend == nil {
		return nil
	}
	return l.backend.TrackGet()
}

// TrackSet installs t as the playback target, stopping playback.
func (l *Library) TrackSet(t *track.Track) {
	l.backend.TrackSet(t)
	l.bus.Publish(libevent.Event{Kind: libevent.Stop})
}

// historyCap bounds the back-navigation ring Previous() walks.
const historyCap = 50

// PlayTrack installs t and starts playback immediately, pushing the
// previously-current track onto the back-navigation history.
func (l *Library) PlayTrack(t *track.Track) {
	if cur := l.currentUnsafe(); cur != nil && cur != t {
		l.mu.Lock()
		l.history = append(l.history, cur)
		if len(l.history) > historyCap {
			l.history = l.history[len(l.history)-historyCap:]
		}
		l.mu.Unlock()
	}
	l.backend.TrackSet(t)
	l.Play()
}

// Next advances to a new random track and plays it.
func (l *Library) Next() {
	l.PlayTrack(l.GetRandom())
	l.bus.Publish(libevent.Event{Kind: libevent.Next})
}

// Previous plays the most recently played track from the back-navigation
// history, if any. A no-op when history is empty — spec.md §6 names
// `previous` as a UI intent without specifying history depth or
// behavior at the start of playback, resolved here as a bounded ring
// rather than unbounded session history (see DESIGN.md).
func (l *Library) Previous() {
	l.mu.Lock()
	if len(l.history) == 0 {
		l.mu.Unlock()
		return
	}
	t := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]
	l.mu.Unlock()

	l.backend.TrackSet(t)
	l.Play()
	l.bus.Publish(libevent.Event{Kind: libevent.Next})
}

func (l *Library) Play() {
	l.backend.Play()
	l.bus.Publish(libevent.Event{Kind: libevent.Play})
}

func (l *Library) Pause() {
	l.backend.Pause()
	l.bus.Publish(libevent.Event{Kind: libevent.Pause})
}

func (l *Library) Stop() {
	l.backend.Stop()
	l.bus.Publish(libevent.Event{Kind: libevent.Stop})
}

func (l *Library) PlayPause() {
	if l.Playing() {
		l.Pause()
	} else {
		l.Play()
	}
}

func (l *Library) VolumeSet(v float32) {
	l.backend.VolumeSet(v)
	l.bus.Publish(libevent.Event{Kind: libevent.Volume, Volume: l.backend.VolumeGet()})
}

func (l *Library) VolumeAdd(amount float32) { l.VolumeSet(l.VolumeGet() + amount) }
func (l *Library) VolumeSub(amount float32) { l.VolumeSet(l.VolumeGet() - amount) }

// Seek jumps playback to offset d. A no-op if the backend cannot currently
// seek (SeekNotAllowed per spec.md §7).
func (l *Library) Seek(d time.Duration) {
	if s := l.Seekable(); s == nil || !*s {
		return
	}
	l.backend.Seek(d)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
