package uploader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	pdfservice "github.com/autovendor/contract-flags/internal/services/pdf"
)

const (
	msgNotPDF       = "Only PDF files are supported."
	msgMissingFlags = "Upload response did not include flags"
	msgUnknownError = "Unknown error"
)

// Uploader sends one file and returns its flags. *Client implements it.
type Uploader interface {
	Upload(ctx context.Context, file FileHandle) (map[string]any, error)
}

// Form holds the selected file and the outcome of the last upload.
// It is safe for concurrent use; at most one upload is in flight at a time.
type Form struct {
	mu       sync.Mutex
	client   Uploader
	selected FileHandle
	state    State
	onChange func(State)
}

// NewForm returns an idle form with nothing selected.
func NewForm(client Uploader) *Form {
	return &Form{client: client, state: idle()}
}

// OnChange registers fn to be called with every new state. fn runs outside
// the form's lock, so it may call Render or State.
func (f *Form) OnChange(fn func(State)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selected returns the selected file, or nil.
func (f *Form) Selected() FileHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// CanUpload reports whether the upload trigger is enabled.
func (f *Form) CanUpload() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected != nil && !f.state.Busy()
}

// SelectFile replaces the selection. A nil file (picker dismissed) keeps the
// current one; a non-PDF name is rejected and also keeps the current one.
// Either way any previous result or error is cleared.
//
// During an upload a PDF is stored for the next upload and the busy state is
// left alone; anything else is ignored.
func (f *Form) SelectFile(file FileHandle) State {
	f.mu.Lock()
	if f.state.Busy() {
		if file == nil || !pdfservice.HasPDFExtension(file.Name()) {
			st := f.state
			f.mu.Unlock()
			return st
		}
		f.selected = file
		return f.setLocked(f.state)
	}

	st := idle()
	switch {
	case file == nil:
	case !pdfservice.HasPDFExtension(file.Name()):
		st = invalid(msgNotPDF)
	default:
		f.selected = file
	}
	return f.setLocked(st)
}

// Upload submits the selected file and blocks until the request settles.
// Without a selection, or while another upload is running, it does nothing
// and returns the current state.
func (f *Form) Upload(ctx context.Context) (st State) {
	f.mu.Lock()
	if f.selected == nil || f.state.Busy() {
		st = f.state
		f.mu.Unlock()
		return st
	}
	file := f.selected
	f.state = uploading()
	notify := f.onChange
	f.mu.Unlock()

	// The busy state must never outlive this call, even when the observer
	// or the client panics.
	defer func() {
		if r := recover(); r != nil {
			st = failed(panicMessage(r))
		}
		f.mu.Lock()
		f.setLocked(st)
	}()

	if notify != nil {
		notify(uploading())
	}

	flags, err := f.client.Upload(ctx, file)
	if err != nil {
		return failed(errorMessage(err))
	}
	return succeeded(flags)
}

// setLocked stores st, releases the lock and notifies the observer.
func (f *Form) setLocked(st State) State {
	f.state = st
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(st)
	}
	return st
}

// errorMessage turns err into the text shown to the user.
func errorMessage(err error) string {
	if errors.Is(err, ErrMissingFlags) {
		return msgMissingFlags
	}
	// Transport errors come wrapped as `Post "<url>": <cause>`; with no cause
	// text there is nothing useful to show.
	var ue *url.Error
	if errors.As(err, &ue) && (ue.Err == nil || ue.Err.Error() == "") {
		return msgUnknownError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnknownError
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return errorMessage(err)
	}
	if msg := fmt.Sprint(r); msg != "" {
		return msg
	}
	return msgUnknownError
}
