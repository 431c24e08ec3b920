package events

import "github.com/kelindar/event"

// SubscribeToChannel bridges a typed subscription onto a channel for SSE
// handlers, which drive a select loop rather than a callback. A full
// channel drops the event instead of blocking the dispatcher.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
