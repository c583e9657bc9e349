package eligibility

// MaxCompare is the number of universities that fit side by side
const MaxCompare = 3

// Selection is the ordered set of university ids picked for comparison.
// The zero value is an empty selection ready to use.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates and anything past capacity
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s = s.Toggle(id)
		}
	}
	return s
}

// Toggle removes id when present, appends it when there is room, and otherwise
// returns the selection unchanged. A full selection is not an error.
func (s Selection) Toggle(id string) Selection {
	if s.Contains(id) {
		return s.Remove(id)
	}
	if len(s.ids) >= MaxCompare {
		return s
	}
	next := make([]string, len(s.ids), len(s.ids)+1)
	copy(next, s.ids)
	return Selection{ids: append(next, id)}
}

// Remove drops id and keeps the order of the rest
func (s Selection) Remove(id string) Selection {
	next := make([]string, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	return Selection{ids: next}
}

// Clear returns an empty selection
func (s Selection) Clear() Selection {
	return Selection{}
}

// Contains reports whether id is selected
func (s Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected ids in insertion order
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IsFull reports whether another id would be ignored
func (s Selection) IsFull() bool {
	return len(s.ids) >= MaxCompare
}

// CanCompare reports whether there is enough to show side by side
func (s Selection) CanCompare() bool {
	return len(s.ids) >= 2
}
