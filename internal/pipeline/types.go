package pipeline

import (
	"time"

	"github.com/0xmhha/soldrip/internal/distributor"
	"github.com/0xmhha/soldrip/pkg/types"
)

// Stage represents a pipeline stage
type Stage int

const (
	StageInit Stage = iota
	StageResolve
	StageDistribute
	StageReport
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "INITIALIZE"
	case StageResolve:
		return "RESOLVE"
	case StageDistribute:
		return "DISTRIBUTE"
	case StageReport:
		return "REPORT"
	default:
		return "UNKNOWN"
	}
}

// StageResult represents the result of a pipeline stage
type StageResult struct {
	Stage    Stage
	Success  bool
	Duration time.Duration
	Message  string
	Error    error
}

// Result represents the complete pipeline execution result
type Result struct {
	// Execution info
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Stage results
	StageResults []*StageResult

	// Run state
	Accounts          int
	Destinations      int
	RentExemptMinimum uint64
	RentFallbackUsed  bool

	// Outcome
	Distribution  *distributor.DistributionResult
	Report        *types.RunReport
	ExportedFiles []string

	// Errors encountered
	Errors []error
}

// NewResult creates a new pipeline result
func NewResult() *Result {
	return &Result{
		StartTime:    time.Now(),
		StageResults: make([]*StageResult, 0),
		Errors:       make([]error, 0),
	}
}

// AddStageResult adds a stage result
func (r *Result) AddStageResult(sr *StageResult) {
	r.StageResults = append(r.StageResults, sr)
	if sr.Error != nil {
		r.Errors = append(r.Errors, sr.Error)
	}
}

// Finalize completes the result
func (r *Result) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// Success returns true if all stages succeeded
func (r *Result) Success() bool {
	for _, sr := range r.StageResults {
		if !sr.Success {
			return false
		}
	}
	return true
}
