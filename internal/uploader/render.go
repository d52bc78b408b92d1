package uploader

import (
	"encoding/json"
	"fmt"
	"io"
)

// Render writes a text view of the form: the upload trigger, the selected
// file, the error region and the result.
func (f *Form) Render(w io.Writer) error {
	f.mu.Lock()
	st, selected := f.state, f.selected
	f.mu.Unlock()

	trigger := "[ Upload ]"
	if st.Busy() {
		trigger = "[ Uploading… ]"
	}
	if st.Busy() || selected == nil {
		trigger += " (disabled)"
	}
	if _, err := fmt.Fprintln(w, trigger); err != nil {
		return err
	}

	if selected != nil {
		if _, err := fmt.Fprintf(w, "File: %s\n", selected.Name()); err != nil {
			return err
		}
	}

	if msg := st.ErrorMessage(); msg != "" {
		if _, err := fmt.Fprintf(w, "Error: %s\n", msg); err != nil {
			return err
		}
	}

	if flags := st.Result(); flags != nil {
		out, err := json.MarshalIndent(flags, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
			return err
		}
	}
	return nil
}
