package scan

import "time"

// Criteria is the filter side of a scan configuration, fixed for the
// duration of one run. CutoffDate is computed once at run start; every
// record in the run is judged against the same boundary.
type Criteria struct {
	IncludeGroups map[TypeGroup]bool
	CutoffDate    time.Time
	MinSizeBytes  int64
}

// NewCriteria derives filter criteria from the raw thresholds
func NewCriteria(groups []TypeGroup, minAgeDays int, minSizeBytes int64, now time.Time) Criteria {
	include := make(map[TypeGroup]bool, len(groups))
	for _, g := range groups {
		include[g] = true
	}
	return Criteria{
		IncludeGroups: include,
		CutoffDate:    now.AddDate(0, 0, -minAgeDays),
		MinSizeBytes:  minSizeBytes,
	}
}

// Accepts decides whether a resolved record belongs in the results. All
// rules must pass: group membership, age, and the size floor. Images and
// PDFs are exempt from the size floor.
func (c Criteria) Accepts(rec FileRecord) bool {
	if !c.IncludeGroups[rec.Group] {
		return false
	}
	if rec.EffectiveRecency().After(c.CutoffDate) {
		return false
	}
	if rec.Group == GroupImage || rec.IsPDF() {
		return true
	}
	return rec.SizeBytes >= c.MinSizeBytes
}
