package service

import (
	"errors"
	"fmt"

	"github.com/finchapm/finch/pkg/transaction/model"
	"go.uber.org/zap"
)

var ErrMissingRequiredField = errors.New("missing required attribute")

// Timing is the normalized wall-clock view of one transaction. MonoStart is
// kept so later stages can anchor segment timestamps to the trace start.
type Timing struct {
	StartMs    int64
	EndMs      int64
	DurationUs int64
	DurationMs int64
	DurationS  float64
	MonoStart  int64
}

type TimeNormalizerService struct {
	logger *zap.Logger
}

func NewTimeNormalizerService(logger *zap.Logger) *TimeNormalizerService {
	return &TimeNormalizerService{logger: logger}
}

// NormalizeTransaction converts the raw timestamps on the transaction
// attributes into wall-clock milliseconds and duration fields. The three raw
// keys are removed and replaced by the finalized timing keys. A missing raw
// key aborts finalization of this transaction.
func (tns *TimeNormalizerService) NormalizeTransaction(attrs model.Attributes) (Timing, error) {
	systemTime, ok := attrs.Int64(model.AttrSystemTime)
	if !ok {
		return Timing{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, model.AttrSystemTime)
	}
	monoStart, ok := attrs.Int64(model.AttrMonoStartTime)
	if !ok {
		return Timing{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, model.AttrMonoStartTime)
	}
	monoEnd, ok := attrs.Int64(model.AttrMonoEndTime)
	if !ok {
		return Timing{}, fmt.Errorf("%w: %s", ErrMissingRequiredField, model.AttrMonoEndTime)
	}

	timing := computeTiming(systemTime, monoStart, monoEnd)

	delete(attrs, model.AttrSystemTime)
	delete(attrs, model.AttrMonoStartTime)
	delete(attrs, model.AttrMonoEndTime)
	attrs[model.AttrStartTime] = timing.StartMs
	attrs[model.AttrEndTime] = timing.EndMs
	attrs[model.AttrDurationUs] = timing.DurationUs
	attrs[model.AttrDurationMs] = timing.DurationMs
	attrs[model.AttrDurationS] = timing.DurationS
	return timing, nil
}

// ValidateFunctionSegments applies the same defensive boundary to each
// captured function segment, which carries its own monotonic pair.
func (tns *TimeNormalizerService) ValidateFunctionSegments(segments []model.FunctionSegment) error {
	for _, seg := range segments {
		if seg.StartTime == 0 && seg.EndTime == 0 {
			return fmt.Errorf("%w: function segment %s has no timestamps", ErrMissingRequiredField, seg.ID)
		}
	}
	return nil
}

func computeTiming(systemTime, monoStart, monoEnd int64) Timing {
	durationUs := monoEnd - monoStart
	// round half up to milliseconds
	durationMs := (durationUs + 500) / 1000
	startMs := systemTime / 1000
	return Timing{
		StartMs:    startMs,
		EndMs:      startMs + durationMs,
		DurationUs: durationUs,
		DurationMs: durationMs,
		DurationS:  float64(durationMs) / 1000,
		MonoStart:  monoStart,
	}
}
