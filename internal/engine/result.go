package engine

// Result is the outcome of checking one target.
type Result struct {
	ID   string            `json:"id"`
	Data any               `json:"data"`
	Meta map[string]string `json:"meta,omitempty"`
}
