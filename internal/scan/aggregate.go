package scan

// Aggregator accumulates normalized records across all hosts and
// sources. Records are kept in arrival order with no deduplication:
// host order matches the input host list, and within one host service
// records precede task records.
type Aggregator struct {
	records []AccountRecord
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append adds records in arrival order.
func (a *Aggregator) Append(records ...AccountRecord) {
	a.records = append(a.records, records...)
}

// Len returns the number of accumulated records.
func (a *Aggregator) Len() int {
	return len(a.records)
}

// All returns the accumulated result set for export. The returned
// slice is the Aggregator's own backing store; callers must treat it
// as read-only.
func (a *Aggregator) All() []AccountRecord {
	return a.records
}
