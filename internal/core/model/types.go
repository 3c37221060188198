package model

// EnrollmentRecord is one data row of the raw enrollment log.
type EnrollmentRecord struct {
	Timestamp     string // Raw epoch milliseconds, kept as text so it can key buckets
	SubjectCourse string // e.g. "CSE 100"
	SectionCode   string // e.g. "A01" or "001"
	Available     int
	Waitlisted    int
	Total         int
}

// Counts returns the seat triple carried by the record.
func (r EnrollmentRecord) Counts() SeatCounts {
	return SeatCounts{
		Available:  r.Available,
		Waitlisted: r.Waitlisted,
		Total:      r.Total,
	}
}

// GroupKey returns the section group the record is aggregated under.
func (r EnrollmentRecord) GroupKey() string {
	return SectionGroupKey(r.SectionCode)
}

// SeatCounts holds summed seat counts for one bucket at one timestamp.
type SeatCounts struct {
	Available  int `json:"available"`
	Waitlisted int `json:"waitlisted"`
	Total      int `json:"total"`
}

// Add accumulates other into c.
func (c *SeatCounts) Add(other SeatCounts) {
	c.Available += other.Available
	c.Waitlisted += other.Waitlisted
	c.Total += other.Total
}

// Ratio returns Available/Total, or NoCapacity when Total is zero.
func (c SeatCounts) Ratio() float64 {
	if c.Total == 0 {
		return NoCapacity
	}
	return float64(c.Available) / float64(c.Total)
}

// Bucket accumulates seat counts per raw timestamp and remembers the order in
// which timestamps were first seen.
type Bucket struct {
	order  []string
	counts map[string]*SeatCounts
}

// NewBucket creates an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{
		counts: make(map[string]*SeatCounts),
	}
}

// Add sums counts into the entry for timestamp.
func (b *Bucket) Add(timestamp string, counts SeatCounts) {
	entry, ok := b.counts[timestamp]
	if !ok {
		entry = &SeatCounts{}
		b.counts[timestamp] = entry
		b.order = append(b.order, timestamp)
	}
	entry.Add(counts)
}

// Get returns the summed counts for timestamp.
func (b *Bucket) Get(timestamp string) (SeatCounts, bool) {
	entry, ok := b.counts[timestamp]
	if !ok {
		return SeatCounts{}, false
	}
	return *entry, true
}

// Timestamps returns timestamps in first-seen order.
func (b *Bucket) Timestamps() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of distinct timestamps.
func (b *Bucket) Len() int {
	return len(b.order)
}

// NormalizedRow is one data row of a split output file.
type NormalizedRow struct {
	Time       string  `json:"time"`
	Available  int     `json:"available"`
	Waitlisted int     `json:"waitlisted"`
	Total      int     `json:"total"`
	Normalized float64 `json:"normalized"`
}

// NewNormalizedRow builds an output row from a formatted time and summed counts.
func NewNormalizedRow(formattedTime string, counts SeatCounts) NormalizedRow {
	return NormalizedRow{
		Time:       formattedTime,
		Available:  counts.Available,
		Waitlisted: counts.Waitlisted,
		Total:      counts.Total,
		Normalized: counts.Ratio(),
	}
}
