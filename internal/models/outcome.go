package models

// RunOutcome is the typed terminal state of one pipeline invocation.
// Absence outcomes are successes, not failures.
type RunOutcome string

const (
	OutcomeNotInWindow  RunOutcome = "not-in-window"
	OutcomeSkipped      RunOutcome = "skipped"
	OutcomeUploaded     RunOutcome = "uploaded"
	OutcomeReplaced     RunOutcome = "replaced"
	OutcomeNoMessage    RunOutcome = "no-message"
	OutcomeNoPayload    RunOutcome = "no-payload"
	OutcomeNoRecipients RunOutcome = "no-recipients"
)
