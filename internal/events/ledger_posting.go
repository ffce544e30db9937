package events

import "time"

const LedgerPostingTopic = "finance.ledger.posting.v1"

// LedgerLine is one side of the aggregated journal the general-ledger
// collaborator posts for a run. The posting rules themselves live with
// the collaborator; payroll only supplies balanced totals.
type LedgerLine struct {
	Account string `json:"account"`
	Side    string `json:"side"` // DEBIT or CREDIT
	Amount  int64  `json:"amount"`
}

type LedgerPostingEvent struct {
	EventType  string       `json:"event_type"`
	RunID      string       `json:"run_id"`
	OrgID      string       `json:"org_id"`
	Period     string       `json:"period"`
	Lines      []LedgerLine `json:"lines"`
	OccurredAt time.Time    `json:"occurred_at"`
}
