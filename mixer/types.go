package mixer

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/midisampler/midi"
)

// Non-fatal pairing conditions, reported through Report
var (
	ErrOrphanEvent  = errors.New("unmatched note event")
	ErrZeroDuration = errors.New("zero-duration note")
)

// Diagnostic records one skipped event
type Diagnostic struct {
	Event midi.NoteEvent
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%v: %v", d.Event, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Report summarizes one mix
type Report struct {
	Channels     int
	Rendered     int
	Orphans      int
	ZeroDuration int
	Diagnostics  []Diagnostic
}

// add files a diagnostic under its counter
func (r *Report) add(ev midi.NoteEvent, err error) {
	switch {
	case errors.Is(err, ErrOrphanEvent):
		r.Orphans++
	case errors.Is(err, ErrZeroDuration):
		r.ZeroDuration++
	}
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Event: ev, Err: err})
}

func (r *Report) merge(o *Report) {
	if o == nil {
		return
	}
	r.Channels += o.Channels
	r.Rendered += o.Rendered
	r.Orphans += o.Orphans
	r.ZeroDuration += o.ZeroDuration
	r.Diagnostics = append(r.Diagnostics, o.Diagnostics...)
}

// Err joins every diagnostic, nil when the mix was clean
func (r *Report) Err() error {
	if r == nil || len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}
