package scoring

import "time"

// Provider names accepted by New
const (
	ProviderLLM  = "llm"
	ProviderStub = "stub"
)

// Options configures the gateway chain built by New
type Options struct {
	Provider    string
	LLM         LLMConfig
	MaxAttempts int
	BaseDelay   time.Duration
}

// New builds the gateway chain: provider, wrapped by retries, wrapped by
// instrumentation.
func New(opts Options) Gateway {
	var base Gateway
	if opts.Provider == ProviderStub {
		base = NewStub()
	} else {
		base = NewLLM(opts.LLM)
	}
	return NewInstrumented(NewRetrying(base, opts.MaxAttempts, opts.BaseDelay))
}
