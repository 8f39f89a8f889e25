package results

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/temirov/branchops/internal/actions"
)

const (
	shortIdentifierLengthConstant  = 8
	secondsPerMinuteConstant       = 60
	roundingPrecisionScaleConstant = 100
	measurementSecondsNameConstant = "seconds"
	measurementMinutesNameConstant = "minutes"
	measurementHoursNameConstant   = "hours"
)

// timeMeasurements orders duration units by magnitude. The scale stops at
// hours; longer durations keep the hours unit without further reduction.
var timeMeasurements = []string{
	measurementSecondsNameConstant,
	measurementMinutesNameConstant,
	measurementHoursNameConstant,
}

// CompletionTime describes how long an operation ran, bucketed into the
// largest unit that keeps the value under sixty.
type CompletionTime struct {
	Measurement string
	Value       float64
}

// OperationResult is the immutable envelope built once an operation settles.
// Either Error is set (the executor failed before producing a result) or
// Result holds the structured per-action outcome.
type OperationResult struct {
	ID               string
	ShortID          string
	Kind             actions.Kind
	AffectedProjects []int
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CompletionTime   *CompletionTime
	Error            string
	Result           actions.ActionResult
	Parameters       any
}

// BuildOptions carries the optional envelope fields.
type BuildOptions struct {
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	Result      actions.ActionResult
	Parameters  any
}

// BuildOperationResult assembles the envelope for one settled operation. It
// performs no I/O; the completion duration is derived from the timestamps
// when both are present.
func BuildOperationResult(kind actions.Kind, affectedProjects []int, options BuildOptions) OperationResult {
	identifier := uuid.NewString()

	projects := make([]int, len(affectedProjects))
	copy(projects, affectedProjects)

	var completionTime *CompletionTime
	if options.StartedAt != nil && options.CompletedAt != nil {
		bucketed := bucketDuration(options.CompletedAt.Sub(*options.StartedAt))
		completionTime = &bucketed
	}

	return OperationResult{
		ID:               identifier,
		ShortID:          identifier[:shortIdentifierLengthConstant],
		Kind:             kind,
		AffectedProjects: projects,
		CreatedAt:        time.Now(),
		StartedAt:        options.StartedAt,
		CompletedAt:      options.CompletedAt,
		CompletionTime:   completionTime,
		Error:            options.Error,
		Result:           options.Result,
		Parameters:       options.Parameters,
	}
}

// bucketDuration reduces a whole-second duration by sixty until it fits the
// unit, rounding to two decimals at each reduction.
func bucketDuration(elapsed time.Duration) CompletionTime {
	value := math.Floor(elapsed.Seconds())
	measurementIndex := 0

	for value >= secondsPerMinuteConstant && measurementIndex < len(timeMeasurements)-1 {
		value = math.Round(value/secondsPerMinuteConstant*roundingPrecisionScaleConstant) / roundingPrecisionScaleConstant
		measurementIndex++
	}

	return CompletionTime{
		Measurement: timeMeasurements[measurementIndex],
		Value:       value,
	}
}
