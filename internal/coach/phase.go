package coach

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseStretching
	PhaseFinished
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseStretching:
		return "stretching"
	case PhaseFinished:
		return "finished"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// CanStart reports whether the start action is accepted in this phase.
func (p Phase) CanStart() bool {
	return p == PhaseReady || p == PhaseFinished
}
