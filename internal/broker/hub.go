package broker

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Payload TPayload
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
}

// Hub fans out payloads published under an ID to every subscriber of that ID.
//
// A player may have the game open in several tabs. Each tab subscribes over its websocket and gets every host
// event the player's engine emits. Delivery never blocks the publisher: a subscriber whose buffer is full misses
// the payload and is expected to resynchronise from polled state.
type Hub[TID comparable, TPayload any] struct {
	stopChannel        chan struct{}
	publishChannel     chan publication[TID, TPayload]
	subscribeChannel   chan subscription[TID, TPayload]
	unsubscribeChannel chan subscription[TID, TPayload]
	countChannel       chan countRequest[TID]
}

type countRequest[TID comparable] struct {
	ID    TID
	Reply chan int
}

// NewHub creates a Hub. Start must run in its own goroutine before the Hub is used.
func NewHub[TID comparable, TPayload any]() *Hub[TID, TPayload] {
	return &Hub[TID, TPayload]{
		stopChannel:        make(chan struct{}),
		publishChannel:     make(chan publication[TID, TPayload]),
		subscribeChannel:   make(chan subscription[TID, TPayload]),
		unsubscribeChannel: make(chan subscription[TID, TPayload]),
		countChannel:       make(chan countRequest[TID]),
	}
}

// Start handles publish and subscription events until Stop is called. Subscriber channels are closed on stop.
func (h *Hub[TID, TPayload]) Start() {
	subscribers := map[TID]map[chan TPayload]struct{}{}
	for {
		select {
		case <-h.stopChannel:
			for _, channels := range subscribers {
				for c := range channels {
					close(c)
				}
			}
			return

		case s := <-h.subscribeChannel:
			if subscribers[s.ID] == nil {
				subscribers[s.ID] = map[chan TPayload]struct{}{}
			}
			subscribers[s.ID][s.Channel] = struct{}{}

		case s := <-h.unsubscribeChannel:
			channels := subscribers[s.ID]
			if _, ok := channels[s.Channel]; !ok {
				break
			}
			delete(channels, s.Channel)
			close(s.Channel)
			if len(channels) == 0 {
				delete(subscribers, s.ID)
			}

		case p := <-h.publishChannel:
			for c := range subscribers[p.ID] {
				select {
				case c <- p.Payload:
				default:
				}
			}

		case r := <-h.countChannel:
			r.Reply <- len(subscribers[r.ID])
		}
	}
}

// Stop the goroutine that handles the hub.
func (h *Hub[TID, TPayload]) Stop() {
	close(h.stopChannel)
}

// Subscribe returns a channel receiving payloads published under id and a function ending the subscription.
// The channel is closed when the subscription ends or the hub stops.
func (h *Hub[TID, TPayload]) Subscribe(id TID, buffer int) (<-chan TPayload, func()) {
	s := subscription[TID, TPayload]{ID: id, Channel: make(chan TPayload, buffer)}
	select {
	case h.subscribeChannel <- s:
	case <-h.stopChannel:
		close(s.Channel)
		return s.Channel, func() {}
	}
	return s.Channel, func() {
		select {
		case h.unsubscribeChannel <- s:
		case <-h.stopChannel:
		}
	}
}

// Publish sends payload to the current subscribers of id. It is a no-op after Stop.
func (h *Hub[TID, TPayload]) Publish(id TID, payload TPayload) {
	select {
	case h.publishChannel <- publication[TID, TPayload]{ID: id, Payload: payload}:
	case <-h.stopChannel:
	}
}

// Subscribers returns the number of subscriptions to id.
func (h *Hub[TID, TPayload]) Subscribers(id TID) int {
	r := countRequest[TID]{ID: id, Reply: make(chan int, 1)}
	select {
	case h.countChannel <- r:
		return <-r.Reply
	case <-h.stopChannel:
		return 0
	}
}
