package entity

type OutcomeStatus string

const (
	StatusExecuted OutcomeStatus = "executed"
	StatusError    OutcomeStatus = "error"
)

// ExecutionOutcome is the terminal status+result pair reported for one envelope.
type ExecutionOutcome struct {
	Status OutcomeStatus `json:"status"`
	Result string        `json:"result"`
}

func Executed(result string) ExecutionOutcome {
	return ExecutionOutcome{Status: StatusExecuted, Result: result}
}

func Failed(err error) ExecutionOutcome {
	return ExecutionOutcome{Status: StatusError, Result: err.Error()}
}

func (o ExecutionOutcome) OK() bool {
	return o.Status == StatusExecuted
}

// ErrorValue is a failure returned as data from inside a page context.
type ErrorValue struct {
	Error string `json:"error"`
}
