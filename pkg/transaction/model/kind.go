package model

// Kind distinguishes request-driven transactions from background work. It is
// resolved once from the name attributes and carried explicitly so that later
// stages never re-infer it from key presence.
type Kind int

const (
	KindWeb Kind = iota
	KindOther
)

func (k Kind) String() string {
	if k == KindOther {
		return "Other"
	}
	return "Web"
}

// MetricPrefix is the transaction-name prefix used on events, traces and
// error records.
func (k Kind) MetricPrefix() string {
	if k == KindOther {
		return "OtherTransaction"
	}
	return "WebTransaction"
}

// ResolveKindAndName resolves the transaction kind and display name from the
// optional name attributes. An other-transaction name always wins; among the
// web name attributes the most specific one defined last in the source data
// model wins (plug, then framework, then custom).
func ResolveKindAndName(attrs Attributes) (Kind, string) {
	if name, ok := attrs.String(AttrOtherTransactionName); ok {
		return KindOther, name
	}
	for _, key := range []string{AttrPlugName, AttrFrameworkName, AttrCustomName} {
		if name, ok := attrs.String(key); ok {
			return KindWeb, name
		}
	}
	return KindWeb, "Unknown"
}
