package domain

// ValidationResult is the structured outcome of dataset/target validation.
// Data-quality findings land in Warnings or Errors; only structurally
// unreadable input is reported as a Go error by the validator.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	TaskType TaskType `json:"task_type,omitempty"`
	Rows     int      `json:"rows"`
	Columns  int      `json:"columns"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *ValidationResult) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}
