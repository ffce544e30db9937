package events

import "time"

const DisputeDecisionTopic = "payroll.dispute.decision.v1"

type DisputeDecisionEvent struct {
	EventType      string    `json:"event_type"`
	DisputeID      string    `json:"dispute_id"`
	OrgID          string    `json:"org_id"`
	EntryID        string    `json:"entry_id"`
	Stage          string    `json:"stage"`
	Decision       string    `json:"decision"`
	ActorID        string    `json:"actor_id"`
	RevisedEntryID string    `json:"revised_entry_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
