package services

// Notifier pushes league events to live subscribers. *live.Hub implements it.
type Notifier interface {
	Publish(room string, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
