package ppcfuzz

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
)

// ErrEmptyTable is returned when a disable would leave a catalog with no
// enabled entry, which would stall instruction selection.
var ErrEmptyTable = errors.New("ppcfuzz: disable would leave no enabled instruction in the catalog")

// Registry holds which catalog entries may be selected. It is a plain value
// owned by one Fuzzer; use Clone to give another generator its own copy.
type Registry struct {
	features Features
	scalar   []bool
	ldst     []bool
	log      logrus.FieldLogger
}

// NewRegistry enables the default entries whose requirements are covered
// by features.
func NewRegistry(features Features) *Registry {
	r := &Registry{
		scalar: make([]bool, len(scalarCatalog)),
		ldst:   make([]bool, len(loadStoreCatalog)),
		log:    logrus.StandardLogger(),
	}
	r.Reset(features)
	return r
}

// SetLogger directs enable/disable logging to l.
func (r *Registry) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		r.log = l
	}
}

// Reset restores the default enable state for features.
func (r *Registry) Reset(features Features) {
	r.features = features
	for i := range scalarCatalog {
		t := &scalarCatalog[i]
		r.scalar[i] = t.Default && features.Has(t.Requires)
	}
	for i := range loadStoreCatalog {
		t := &loadStoreCatalog[i]
		r.ldst[i] = t.Default && features.Has(t.Requires)
	}
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	return &Registry{
		features: r.features,
		scalar:   append([]bool(nil), r.scalar...),
		ldst:     append([]bool(nil), r.ldst...),
		log:      r.log,
	}
}

// Features returns the capability set the registry was built for.
func (r *Registry) Features() Features { return r.features }

// ScalarEnabled reports whether scalar catalog entry i may be selected.
func (r *Registry) ScalarEnabled(i int) bool { return r.scalar[i] }

// LoadStoreEnabled reports whether load/store catalog entry i may be selected.
func (r *Registry) LoadStoreEnabled(i int) bool { return r.ldst[i] }

func (r *Registry) enabledScalar() int   { return count(r.scalar) }
func (r *Registry) enabledLoadStore() int { return count(r.ldst) }

func count(b []bool) int {
	n := 0
	for _, v := range b {
		if v {
			n++
		}
	}
	return n
}

// match reports whether name is selected by pattern: an exact name, or a
// prefix followed by '*'.
func match(pattern, name string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return pattern == name
}

// Enable turns on every entry matching pattern in both catalogs and returns
// the names it flipped. Entries needing features outside the registry's
// capability set are flipped too, with a warning, since the host may not
// implement them.
func (r *Registry) Enable(pattern string) []string {
	var flipped []string
	flip := func(name string, requires Features) {
		flipped = append(flipped, name)
		entry := r.log.WithField("insn", name)
		if missing := requires &^ r.features; missing != 0 {
			entry.WithField("requires", missing).Warn("Enabling outside feature set")
			return
		}
		entry.Info("Enabling")
	}
	for i := range scalarCatalog {
		t := &scalarCatalog[i]
		if !r.scalar[i] && match(pattern, t.Name) {
			r.scalar[i] = true
			flip(t.Name, t.Requires)
		}
	}
	for i := range loadStoreCatalog {
		t := &loadStoreCatalog[i]
		if !r.ldst[i] && match(pattern, t.Name) {
			r.ldst[i] = true
			flip(t.Name, t.Requires)
		}
	}
	return flipped
}

// Disable turns off every entry matching pattern in both catalogs and
// returns the names it flipped. If that would empty either catalog nothing
// changes and ErrEmptyTable is returned.
func (r *Registry) Disable(pattern string) ([]string, error) {
	scalar := append([]bool(nil), r.scalar...)
	ldst := append([]bool(nil), r.ldst...)

	var flipped []string
	for i := range scalarCatalog {
		if scalar[i] && match(pattern, scalarCatalog[i].Name) {
			scalar[i] = false
			flipped = append(flipped, scalarCatalog[i].Name)
		}
	}
	for i := range loadStoreCatalog {
		if ldst[i] && match(pattern, loadStoreCatalog[i].Name) {
			ldst[i] = false
			flipped = append(flipped, loadStoreCatalog[i].Name)
		}
	}

	if count(scalar) == 0 || count(ldst) == 0 {
		r.log.WithField("pattern", pattern).Warn("refusing to disable every instruction of a catalog")
		return nil, fmt.Errorf("%w: %q", ErrEmptyTable, pattern)
	}

	r.scalar, r.ldst = scalar, ldst
	for _, name := range flipped {
		r.log.WithField("insn", name).Info("Disabling")
	}
	return flipped, nil
}

// List writes one line per catalog entry with its state.
func (r *Registry) List(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	for i, t := range scalarCatalog {
		fmt.Fprintf(tw, "%s\t%08x\t%08x\t%s\n", t.Name, t.Opcode, t.Mask, onOff(r.scalar[i]))
	}
	for i, t := range loadStoreCatalog {
		fmt.Fprintf(tw, "%s\t%08x\t%08x\t%s\t%s\t%d\n", t.Name, t.Opcode, t.Mask, onOff(r.ldst[i]), t.Form, t.Size)
	}
	return tw.Flush()
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
