package model

// Environment labels the execution environment a result was measured in.
type Environment string

const (
	Docker Environment = "Docker"
	VM     Environment = "VM"
)

// Environments returns the compared environments in report order.
func Environments() []Environment {
	return []Environment{Docker, VM}
}

// Record is one result file reduced to a single execution time.
type Record struct {
	File        string      `json:"file"`
	Seconds     float64     `json:"execution_time"`
	Environment Environment `json:"environment"`
	Method      string      `json:"method"` // extraction strategy that produced Seconds
	Parsed      bool        `json:"parsed"` // false marks a file with no detectable time
}
