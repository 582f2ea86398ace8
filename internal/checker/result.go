package checker

// SetFlagResult is the outcome of storing a flag. The flag itself is not echoed.
type SetFlagResult struct {
	FlagID  string    `json:"FLAG_ID"`
	Token   string    `json:"TOKEN"`
	Status  Status    `json:"ERROR"`
	Message string    `json:"ERROR_MSG"`
	Kind    ErrorKind `json:"-"`
}

func (r SetFlagResult) OK() bool {
	return r.Status == Functional
}

// Record returns the fixed-shape record expected by the scoring system.
func (r SetFlagResult) Record() map[string]any {
	return map[string]any{
		"FLAG_ID":   r.FlagID,
		"TOKEN":     r.Token,
		"ERROR":     int(r.Status),
		"ERROR_MSG": r.Message,
	}
}

func (r SetFlagResult) withFailure(f *Failure) SetFlagResult {
	r.Kind = f.Kind
	r.Status = f.Kind.Status()
	r.Message = f.Message
	return r
}

// GetFlagResult is the outcome of retrieving a flag. The flag ID is not echoed.
type GetFlagResult struct {
	Flag    string    `json:"FLAG"`
	Status  Status    `json:"ERROR"`
	Message string    `json:"ERROR_MSG"`
	Kind    ErrorKind `json:"-"`
}

func (r GetFlagResult) OK() bool {
	return r.Status == Functional
}

func (r GetFlagResult) Record() map[string]any {
	return map[string]any{
		"FLAG":      r.Flag,
		"ERROR":     int(r.Status),
		"ERROR_MSG": r.Message,
	}
}

func (r GetFlagResult) withFailure(f *Failure) GetFlagResult {
	r.Kind = f.Kind
	r.Status = f.Kind.Status()
	r.Message = f.Message
	return r
}
