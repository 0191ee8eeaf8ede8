package service

import "github.com/finchapm/finch/pkg/transaction/model"

// ThresholdSource supplies the apdex threshold T for the current agent run.
type ThresholdSource interface {
	ApdexT() float64
}

// StaticThreshold is a fixed apdex threshold, used when the backend has not
// pushed a per-run value.
type StaticThreshold float64

func (t StaticThreshold) ApdexT() float64 { return float64(t) }

// ApdexService classifies transaction duration against the satisfaction
// threshold.
type ApdexService struct {
	thresholds ThresholdSource
}

func NewApdexService(thresholds ThresholdSource) *ApdexService {
	return &ApdexService{thresholds: thresholds}
}

// Classify maps one transaction to its apdex zone. Background transactions
// never participate; an error always frustrates regardless of duration.
// The threshold used is returned alongside the zone.
func (as *ApdexService) Classify(kind model.Kind, hasError bool, durationS float64) (model.ApdexZone, float64) {
	t := as.thresholds.ApdexT()
	switch {
	case kind == model.KindOther:
		return model.ApdexIgnore, t
	case hasError:
		return model.ApdexFrustrating, t
	case durationS <= t:
		return model.ApdexSatisfying, t
	case durationS <= 4*t:
		return model.ApdexTolerating, t
	default:
		return model.ApdexFrustrating, t
	}
}
