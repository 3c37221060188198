package aggregator

import (
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-enroll-stats/internal/core/model"
	"github.com/penwyp/go-enroll-stats/internal/data/parser"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// CourseBucket holds seat counts summed across every section of a course.
type CourseBucket struct {
	Course string
	Bucket *model.Bucket
}

// FileName is the overall output file name, e.g. "CSE 100.csv".
func (c CourseBucket) FileName() string {
	return c.Course + model.CSVExt
}

// SectionKey identifies a per-section bucket.
type SectionKey struct {
	Course string
	Group  string // model.SectionGroupKey of the section code
}

// SectionBucket holds seat counts summed across the sections of one group.
type SectionBucket struct {
	SectionKey
	Bucket *model.Bucket
}

// FileName is the per-section output file name, e.g. "CSE 100_A.csv".
func (s SectionBucket) FileName() string {
	return s.Course + "_" + s.Group + model.CSVExt
}

// Aggregator sums enrollment records into overall and per-section buckets,
// both keyed by the raw timestamp string. Buckets are enumerated in the order
// their first record was seen.
type Aggregator struct {
	overall      map[string]*model.Bucket
	overallOrder []string
	sections     map[SectionKey]*model.Bucket
	sectionOrder []SectionKey
	rows         int
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		overall:  make(map[string]*model.Bucket),
		sections: make(map[SectionKey]*model.Bucket),
	}
}

// Add accumulates rec into its overall and per-section buckets.
func (a *Aggregator) Add(rec model.EnrollmentRecord) {
	counts := rec.Counts()

	overall, ok := a.overall[rec.SubjectCourse]
	if !ok {
		overall = model.NewBucket()
		a.overall[rec.SubjectCourse] = overall
		a.overallOrder = append(a.overallOrder, rec.SubjectCourse)
	}
	overall.Add(rec.Timestamp, counts)

	key := SectionKey{Course: rec.SubjectCourse, Group: rec.GroupKey()}
	section, ok := a.sections[key]
	if !ok {
		section = model.NewBucket()
		a.sections[key] = section
		a.sectionOrder = append(a.sectionOrder, key)
	}
	section.Add(rec.Timestamp, counts)

	a.rows++
}

// AddAll accumulates every record.
func (a *Aggregator) AddAll(records []model.EnrollmentRecord) {
	for _, rec := range records {
		a.Add(rec)
	}
}

// Overall returns one bucket per course.
func (a *Aggregator) Overall() []CourseBucket {
	result := make([]CourseBucket, 0, len(a.overallOrder))
	for _, course := range a.overallOrder {
		result = append(result, CourseBucket{Course: course, Bucket: a.overall[course]})
	}
	return result
}

// Sections returns one bucket per course and section group.
func (a *Aggregator) Sections() []SectionBucket {
	result := make([]SectionBucket, 0, len(a.sectionOrder))
	for _, key := range a.sectionOrder {
		result = append(result, SectionBucket{SectionKey: key, Bucket: a.sections[key]})
	}
	return result
}

// Course returns the overall bucket for course.
func (a *Aggregator) Course(course string) (*model.Bucket, bool) {
	b, ok := a.overall[course]
	return b, ok
}

// Section returns the per-section bucket for course and group.
func (a *Aggregator) Section(course, group string) (*model.Bucket, bool) {
	b, ok := a.sections[SectionKey{Course: course, Group: group}]
	return b, ok
}

// Rows returns the number of records added.
func (a *Aggregator) Rows() int {
	return a.rows
}

// AggregateReader parses r with p and aggregates every row. A malformed row
// aborts aggregation with a *parser.ParseError.
func AggregateReader(p *parser.Parser, r io.Reader) (*Aggregator, error) {
	agg := NewAggregator()
	err := p.Each(r, func(rec model.EnrollmentRecord) error {
		agg.Add(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.LogDebug("Aggregated enrollment records",
		util.F("rows", util.FormatCount(agg.rows)),
		util.F("courses", len(agg.overallOrder)),
		util.F("section_groups", len(agg.sectionOrder)))
	return agg, nil
}

// AggregateFile aggregates the enrollment log at path.
func AggregateFile(p *parser.Parser, path string) (*Aggregator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open enrollment log: %w", err)
	}
	defer file.Close()

	agg, err := AggregateReader(p, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return agg, nil
}
