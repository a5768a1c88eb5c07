package ports

// Metrics records domain-level counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	Login(result string)
	Mutation(collection, op string)
	ViewResolved(view string, redirected bool)
	ListResult(collection string, size int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) Login(string)              {}
func (NopMetrics) Mutation(string, string)   {}
func (NopMetrics) ViewResolved(string, bool) {}
func (NopMetrics) ListResult(string, int)    {}
