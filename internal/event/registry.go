package event

import (
	"github.com/rs/zerolog/log"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

// ActionKind tells the pipeline what a membership operation requires.
type ActionKind string

const (
	// ActionDeprovision runs the full deprovisioning pipeline.
	ActionDeprovision ActionKind = "DEPROVISION"
	// ActionNote records the event and does nothing else.
	ActionNote ActionKind = "NOTE"
)

// Action is the dispatch decision for one membership event.
type Action struct {
	Kind ActionKind
	Note string
}

// Handler maps a membership event to an Action.
// Returning nil means "nothing to do for this event".
type Handler func(ev domain.MembershipEvent) *Action

var handlers = map[domain.Operation]Handler{}

// Register binds a handler to a membership operation. Called from init()
// in handlers.go. Panics on duplicate registration to catch wiring mistakes
// at startup.
func Register(op domain.Operation, h Handler) {
	if _, exists := handlers[op]; exists {
		panic("event: duplicate handler registered for operation: " + string(op))
	}
	handlers[op] = h
}

// Dispatch looks up and calls the handler for the event's operation.
// Returns nil if no handler is registered.
func Dispatch(ev domain.MembershipEvent) *Action {
	h, ok := handlers[ev.Operation]
	if !ok {
		log.Debug().Str("operation", string(ev.Operation)).Msg("event: no handler registered")
		return nil
	}
	return h(ev)
}
