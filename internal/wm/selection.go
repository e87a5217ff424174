package wm

// Candidate is a matching window seen during discovery.
type Candidate struct {
	Window             Handle
	OnCurrentWorkspace bool
	Visible            bool
}

// SelectPreferred picks the window to act on: visible on the current
// workspace, then hidden on the current workspace, then visible elsewhere,
// then the first candidate. Ties go to the earliest candidate.
func SelectPreferred(candidates []Candidate) (Handle, bool) {
	if len(candidates) == 0 {
		return 0, false
	}

	tiers := []func(Candidate) bool{
		func(c Candidate) bool { return c.OnCurrentWorkspace && c.Visible },
		func(c Candidate) bool { return c.OnCurrentWorkspace && !c.Visible },
		func(c Candidate) bool { return !c.OnCurrentWorkspace && c.Visible },
	}
	for _, match := range tiers {
		for _, c := range candidates {
			if match(c) {
				return c.Window, true
			}
		}
	}
	return candidates[0].Window, true
}
