package dialog

// TurnMonitor observes the stages of a dialogue turn. Implementations
// must be cheap and non-blocking; the router calls them inline.
type TurnMonitor interface {
	// Start is called when the turn begins.
	Start(tenantID, message string)

	// Classified is called after routing, with the raw classifier output
	// and the classification the router settled on.
	Classified(raw string, classification Classification)

	// Retrieved is called on the financial branch with the number of
	// entries retrieval returned.
	Retrieved(entries int)

	// Finish is called when the turn completes, with the outcome error.
	Finish(err error)
}

// noopMonitor is the default monitor.
type noopMonitor struct{}

func (noopMonitor) Start(string, string)              {}
func (noopMonitor) Classified(string, Classification) {}
func (noopMonitor) Retrieved(int)                     {}
func (noopMonitor) Finish(error)                      {}
