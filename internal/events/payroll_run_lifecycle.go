package events

import "time"

const PayrollRunLifecycleTopic = "payroll.run.lifecycle.v1"

// PayrollRunLifecycleEvent notifies the messaging collaborator about a run
// transition. It carries enough context to compose a message; the engine
// never waits for delivery.
type PayrollRunLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	OrgID      string    `json:"org_id"`
	Period     string    `json:"period"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
