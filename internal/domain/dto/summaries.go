package dto

// ReconcileSummary reports the outcome of one reconciliation sweep.
type ReconcileSummary struct {
	Reconciled    int `json:"reconciled"`
	AlreadyExists int `json:"alreadyExists"`
	Failed        int `json:"failed"`
	Checked       int `json:"checked"`
}

// AbandonSummary reports the outcome of one abandoned-session sweep.
type AbandonSummary struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Cleaned int `json:"cleaned"`
}
