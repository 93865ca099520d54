// Package libevent is the library's broadcast event bus: a single-producer,
// many-consumer fan-out of LibEvt values, bounded per subscriber with a
// non-blocking, drop-if-full send.
package libevent

// Kind tags the variant carried by an Event.
type Kind int

const (
	Update Kind = iota
	Volume
	Play
	Pause
	Stop
	Next
	Error
)

func (k Kind) String() string {
	switch k {
	case Update:
		return "Update"
	case Volume:
		return "Volume"
	case Play:
		return "Play"
	case Pause:
		return "Pause"
	case Stop:
		return "Stop"
	case Next:
		return "Next"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is the tagged LibEvt union. Only the field matching Kind is
// meaningful: Volume for Kind==Volume, Err for Kind==Error.
type Event struct {
	Kind   Kind
	Volume float32
	Err    string
}

const bufferSize = 16

// Subscription is one reader's view of the bus: a buffered channel plus a
// Done channel closed when the bus itself is shut down.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventsCh chan Event
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventsCh: make(chan Event, bufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Events = s.eventsCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) send(e Event) {
	select {
	case s.eventsCh <- e:
	default:
		// Reader is behind; this event is dropped for this reader, whatever
		// its Kind. Events already buffered are kept.
	}
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// Bus is the broadcaster. Zero value is not usable; use New.
type Bus struct {
	subscribe chan chan *Subscription
	publish   chan Event
	closeCh   chan struct{}
	done      chan struct{}
}

// New starts the bus's dispatch goroutine and returns a handle to it.
func New() *Bus {
	b := &Bus{
		subscribe: make(chan chan *Subscription),
		publish:   make(chan Event, 64),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	defer close(b.done)
	var subs []*Subscription
	for {
		select {
		case reply := <-b.subscribe:
			s := newSubscription()
			subs = append(subs, s)
			reply <- s
		case e := <-b.publish:
			for _, s := range subs {
				s.send(e)
			}
		case <-b.closeCh:
			for _, s := range subs {
				s.close()
			}
			return
		}
	}
}

// Subscribe registers a new reader. Safe to call concurrently with Publish.
func (b *Bus) Subscribe() *Subscription {
	reply := make(chan *Subscription, 1)
	select {
	case b.subscribe <- reply:
		return <-reply
	case <-b.done:
		s := newSubscription()
		s.close()
		return s
	}
}

// Publish broadcasts e to every current subscriber, non-blocking per reader.
func (b *Bus) Publish(e Event) {
	select {
	case b.publish <- e:
	case <-b.done:
	}
}

// Close shuts the bus down, closing every subscriber's Done channel.
func (b *Bus) Close() {
	select {
	case <-b.done:
	default:
		close(b.closeCh)
	}
	<-b.done
}
