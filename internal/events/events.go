package events

import "context"

// StreamTransitions carries every lifecycle status change across the system.
const StreamTransitions = "events:transitions"

// Event types
const (
	EventApplicationStatusChanged = "application_status_changed"
	EventContractStatusChanged    = "contract_status_changed"
	EventMilestoneStatusChanged   = "milestone_status_changed"
	EventEscrowStatusChanged      = "escrow_status_changed"
	EventPaymentStatusChanged     = "payment_status_changed"
	EventCampaignStatusChanged    = "campaign_status_changed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Transition builds the standard payload for a status-change event.
func Transition(eventType, entityID, from, to string) Event {
	return Event{
		Type: eventType,
		Payload: map[string]any{
			"entity_id": entityID,
			"from":      from,
			"to":        to,
		},
	}
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
