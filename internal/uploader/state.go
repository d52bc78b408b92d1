// Package uploader is the contract upload form: it holds the selected file,
// submits it to the analysis API and keeps the outcome for display.
//
// The form's state is a single tagged value (State) instead of loose
// busy/result/error flags, so combinations like "result and error both set"
// cannot be represented.
package uploader

// Phase is where the form is in its select → upload → settle cycle.
type Phase int

const (
	PhaseIdle      Phase = iota // nothing to show
	PhaseInvalid                // last selection was rejected
	PhaseUploading              // one request in flight
	PhaseSuccess                // flags received
	PhaseFailed                 // upload failed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInvalid:
		return "invalid"
	case PhaseUploading:
		return "uploading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the form's outcome.
// Flags is set only in PhaseSuccess; Err only in PhaseInvalid and PhaseFailed.
type State struct {
	Phase Phase
	Flags map[string]any
	Err   string
}

// Busy reports whether a request is in flight.
func (s State) Busy() bool { return s.Phase == PhaseUploading }

// Result returns the flags of a successful upload, or nil.
func (s State) Result() map[string]any { return s.Flags }

// ErrorMessage returns the displayable failure reason, or "".
func (s State) ErrorMessage() string { return s.Err }

func idle() State                          { return State{Phase: PhaseIdle} }
func uploading() State                     { return State{Phase: PhaseUploading} }
func invalid(msg string) State             { return State{Phase: PhaseInvalid, Err: msg} }
func failed(msg string) State              { return State{Phase: PhaseFailed, Err: msg} }
func succeeded(flags map[string]any) State { return State{Phase: PhaseSuccess, Flags: flags} }
