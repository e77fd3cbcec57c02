package domain

// CheckReport collects the outcome of release notes checks for one or more tags.
type CheckReport struct {
	Tag          string
	NotesFound   bool
	ValidSemver  bool
	Prerelease   bool
	TagExists    bool
	TagChecked   bool
	MissingNotes []string
	Problems     []string
	Warnings     []string
}

// AddProblem records a failed check.
func (r *CheckReport) AddProblem(msg string) {
	r.Problems = append(r.Problems, msg)
}

// AddWarning records a finding that does not fail the check.
func (r *CheckReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// OK reports whether every check passed.
func (r *CheckReport) OK() bool {
	return len(r.Problems) == 0
}
