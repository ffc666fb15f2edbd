// Package events carries fire-and-forget change notifications between
// otherwise independent parts of the application. Events are signals, not
// data carriers: subscribers re-read current state from the relevant
// repository.
package events

import (
	"github.com/asaskevich/EventBus"
)

// The two event topics used by the application.
const (
	AuthChanged      = "auth-changed"
	FavoritesChanged = "favorites-changed"
)

// Notifier broadcasts named events to any number of subscribers. Emitting
// with no subscribers registered is a silent no-op.
type Notifier interface {
	Emit(event string)
	Subscribe(event string, fn func()) (unsubscribe func(), err error)
}

type busNotifier struct {
	bus EventBus.Bus
}

// NewBus returns a Notifier backed by an in-process event bus.
func NewBus() Notifier {
	return &busNotifier{bus: EventBus.New()}
}

func (n *busNotifier) Emit(event string) {
	n.bus.Publish(event)
}

func (n *busNotifier) Subscribe(event string, fn func()) (func(), error) {
	if err := n.bus.Subscribe(event, fn); err != nil {
		return nil, err
	}
	return func() {
		_ = n.bus.Unsubscribe(event, fn)
	}, nil
}

// Discard is a Notifier that drops every event. Useful where change
// notifications are irrelevant, such as isolated tests.
var Discard Notifier = discardNotifier{}

type discardNotifier struct{}

func (discardNotifier) Emit(string) {}

func (discardNotifier) Subscribe(string, func()) (func(), error) {
	return func() {}, nil
}
