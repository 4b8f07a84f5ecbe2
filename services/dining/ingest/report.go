package ingest

// Outcome is the typed result of one menu item's upsert; the report is
// derived from these rather than inferred from what silently happened.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ItemResult records a failed item's coordinates and cause.
type ItemResult struct {
	Cycle    string
	Day      string
	Meal     string
	Location string
	Item     string
	Err      error
}

type Report struct {
	// total items that reached the upsert stage or failed a reference
	// lookup, across always-available and daily menus
	ItemsProcessed int
	// availability facts newly created this run
	Inserted int
	// facts that already existed (idempotent re-run)
	Skipped int
	// per-item failures; the batch continues past each of these
	Failures []ItemResult
}

func (r *Report) Errors() int {
	return len(r.Failures)
}

func (r *Report) insert() {
	r.ItemsProcessed++
	r.Inserted++
}

func (r *Report) skip() {
	r.ItemsProcessed++
	r.Skipped++
}

func (r *Report) fail(result ItemResult) {
	r.ItemsProcessed++
	r.Failures = append(r.Failures, result)
}
