package helpscout

type ProgressType string

const (
	ProgressCustomer ProgressType = "CUSTOMER"
)

const (
	StepInit    = "INIT"
	StepCreated = "CREATED"
	StepFailed  = "FAILED"
	StepDone    = "DONE"
)

// ProgressReport is the data packet sent from the Client to the UI
type ProgressReport struct {
	Type    ProgressType
	Step    string
	Current int
	Total   int
	Message string
}

// ProgressReporter receives updates from long-running operations.
// Report is never called concurrently.
type ProgressReporter interface {
	Report(report ProgressReport)
}

func report(pr ProgressReporter, r ProgressReport) {
	if pr != nil {
		pr.Report(r)
	}
}
