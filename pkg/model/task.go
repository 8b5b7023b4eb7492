package model

// TaskID identifies a task in the catalog and in group membership lists.
type TaskID string

// Task is an immutable catalog entry. Only Duration takes part in the
// simulation arithmetic; the remaining fields are carried through to output.
type Task struct {
	ID             TaskID  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Mode           string  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Duration       float64 `json:"duration" yaml:"duration"`
	DefectRate     float64 `json:"defect_rate,omitempty" yaml:"defect_rate,omitempty"`
	ReferenceYield float64 `json:"reference_yield,omitempty" yaml:"reference_yield,omitempty"`
}

// DisplayName returns the task name, falling back to its id.
func (t Task) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return string(t.ID)
}

// GroupSpec declares a group: an ordered, cyclic list of member task ids.
type GroupSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Members []TaskID `json:"members" yaml:"members"`
}
