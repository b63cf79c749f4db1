package activity

import "github.com/thenoetrevino/taskboard/internal/models"

// Labels holds the display strings used in activity messages.
// Missing entries fall back to the built-in English labels.
type Labels struct {
	Status map[models.TaskStatus]string
}

// DefaultLabels returns the built-in English labels
func DefaultLabels() Labels {
	status := make(map[models.TaskStatus]string, len(models.AllTaskStatuses()))
	for _, s := range models.AllTaskStatuses() {
		status[s] = s.Label()
	}
	return Labels{Status: status}
}

// StatusLabel returns the label for s
func (l Labels) StatusLabel(s models.TaskStatus) string {
	if label, ok := l.Status[s]; ok && label != "" {
		return label
	}
	return s.Label()
}
