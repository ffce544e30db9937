package domain

type EnforceRequest struct {
	ActorID  string
	OrgID    string
	Resource string
	Action   string
}
