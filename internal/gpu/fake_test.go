package gpu

import "errors"

type fakeDevice struct {
	name     string
	unified  bool
	families map[Family]bool
}

func (d *fakeDevice) Name() string                 { return d.name }
func (d *fakeDevice) HasUnifiedMemory() bool       { return d.unified }
func (d *fakeDevice) SupportsFamily(f Family) bool { return d.families[f] }

func locatorFor(d Device) Locator {
	return func() (Device, bool) {
		if d == nil {
			return nil, false
		}
		return d, true
	}
}

type fakeEntry struct {
	props    map[string]any
	err      error
	visited  bool
	released int
}

func (e *fakeEntry) Properties() (map[string]any, error) {
	e.visited = true
	return e.props, e.err
}

func (e *fakeEntry) Release() { e.released++ }

type fakeIterator struct {
	entries  []*fakeEntry
	pos      int
	released int
}

func (it *fakeIterator) Next() (Entry, bool) {
	if it.pos >= len(it.entries) {
		return nil, false
	}
	e := it.entries[it.pos]
	it.pos++
	return e, true
}

func (it *fakeIterator) Release() { it.released++ }

// fakeRegistry hands out a fresh iterator over the same entries on every call.
type fakeRegistry struct {
	entries   []*fakeEntry
	err       error
	class     string
	iterators []*fakeIterator
}

func (r *fakeRegistry) MatchingServices(class string) (Iterator, error) {
	r.class = class
	if r.err != nil {
		return nil, r.err
	}
	it := &fakeIterator{entries: r.entries}
	r.iterators = append(r.iterators, it)
	return it, nil
}

func registryWith(entries ...*fakeEntry) *fakeRegistry {
	return &fakeRegistry{entries: entries}
}

func statsEntry(stats map[string]any) *fakeEntry {
	return &fakeEntry{props: map[string]any{
		"IOClass":                "AGXAcceleratorG13X",
		PerformanceStatisticsKey: stats,
	}}
}

var errBoom = errors.New("boom")
