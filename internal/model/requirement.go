package model

// Requirement is one line item of a degree plan: a specific course, an alias
// group, or a wildcard/range bucket, with a minimum grade and credit target.
// Requirements are loaded once per (major, year) and immutable after load.
type Requirement struct {
	CourseCode  string     // Primary pattern, possibly empty when Options carry the patterns
	CourseName  string
	CreditsNeed float64    // 0 means no numeric credit target
	MinGrade    string     // Defaults to "D" at load time
	Comments    string
	Options     [][]string // OR-alternatives; each alternative is an AND-group of patterns
	MustHaves   []string   // At least one consumed course must also match one of these
	Excepts     []string   // Patterns that disqualify an otherwise-matching course
}

// Alternatives returns the requirement's OR-groups: Options when present,
// otherwise a single group holding just the primary course code.
func (r *Requirement) Alternatives() [][]string {
	if len(r.Options) > 0 {
		return r.Options
	}
	if r.CourseCode == "" {
		return nil
	}
	return [][]string{{r.CourseCode}}
}
