package enums

// SyncOutcome classifies the result of a fire-and-forget remote cart call.
type SyncOutcome string

const (
	SyncOutcomeOK             SyncOutcome = "OK"
	SyncOutcomeNetworkError   SyncOutcome = "NETWORK_ERROR"
	SyncOutcomeServerRejected SyncOutcome = "SERVER_REJECTED"
)

// String implements fmt.Stringer.
func (s SyncOutcome) String() string {
	return string(s)
}

// Succeeded reports whether the remote write landed.
func (s SyncOutcome) Succeeded() bool {
	return s == SyncOutcomeOK
}
