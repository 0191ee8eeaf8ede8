package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/finchapm/finch/pkg/transaction/model"
)

// Generator produces the identifiers the span-derivation stage needs. Span
// guids must be deterministic per execution-context id within one trace so
// that parent links resolve without coordination.
type Generator interface {
	SpanGUID(traceID string, contextID model.ContextID) string
	TraceID() string
}

type HashGenerator struct{}

func NewHashGenerator() *HashGenerator {
	return &HashGenerator{}
}

// SpanGUID derives a 16-hex-digit span guid from the trace id and the
// execution-context id. The same (trace, context) pair always yields the
// same guid.
func (g *HashGenerator) SpanGUID(traceID string, contextID model.ContextID) string {
	sum := xxhash.Sum64String(traceID + "|" + string(contextID))
	return fmt.Sprintf("%016x", sum)
}

// TraceID returns a random 32-hex-digit trace id, used only when the
// instrumentation layer did not supply one.
func (g *HashGenerator) TraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand.Read on supported platforms does not fail; degrade to a
		// zero id rather than abort finalization.
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
