package models

// Routine is the ordered, read-only list of stretches for a session.
type Routine struct {
	stretches []Stretch
}

// NewRoutine copies the given stretches into a routine.
func NewRoutine(stretches ...Stretch) Routine {
	s := make([]Stretch, len(stretches))
	copy(s, stretches)
	return Routine{stretches: s}
}

func (r Routine) Len() int {
	return len(r.stretches)
}

// At returns the stretch at index i.
func (r Routine) At(i int) (Stretch, bool) {
	if i < 0 || i >= len(r.stretches) {
		return Stretch{}, false
	}
	return r.stretches[i], true
}

// Stretches returns a copy of the routine entries.
func (r Routine) Stretches() []Stretch {
	s := make([]Stretch, len(r.stretches))
	copy(s, r.stretches)
	return s
}

// DefaultRoutine returns the built-in neck, shoulder and wrist routine.
func DefaultRoutine() Routine {
	return NewRoutine(
		Stretch{
			Name:         "목",
			DisplayName:  "목 스트레칭",
			TargetReps:   5,
			Instructions: "목 스트레칭 자세를 취한 후, 잠시 자세를 풀었다가 다시 반복하는 동작으로 뭉친 목을 풀어주세요.",
			Icon:         "🙆",
		},
		Stretch{
			Name:         "어깨",
			DisplayName:  "어깨 스트레칭",
			TargetReps:   5,
			Instructions: "팔을 당겨 스트레칭 자세를 취한 후, 잠시 자세를 풀었다가 다시 반복하여 어깨를 이완시켜주세요.",
			Icon:         "💪",
		},
		Stretch{
			Name:         "손목",
			DisplayName:  "손목 스트레칭",
			TargetReps:   5,
			Instructions: "손목을 부드럽게 돌리거나 꺾어주는 동작을 반복하며 손목의 피로를 풀어주세요.",
			Icon:         "🤲",
		},
	)
}
