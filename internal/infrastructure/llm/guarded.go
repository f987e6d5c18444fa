package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/trialsage/internal/core/ports"
	"github.com/kirillkom/trialsage/internal/infrastructure/resilience"
)

// CallObserver records the duration and outcome of each model call.
type CallObserver interface {
	ObserveModelCall(provider string, duration time.Duration, err error)
}

// GuardedGenerator paces, times and protects calls to a provider.
type GuardedGenerator struct {
	provider string
	next     ports.SummaryGenerator
	executor *resilience.Executor
	limiter  *rate.Limiter
	observer CallObserver
	timeout  time.Duration
}

type GuardOptions struct {
	// RequestsPerMinute <= 0 disables pacing.
	RequestsPerMinute int
	// Timeout bounds a single call; 0 leaves the caller's deadline alone.
	Timeout  time.Duration
	Observer CallObserver
}

func NewGuardedGenerator(provider string, next ports.SummaryGenerator, executor *resilience.Executor, opts GuardOptions) *GuardedGenerator {
	g := &GuardedGenerator{
		provider: provider,
		next:     next,
		executor: executor,
		observer: opts.Observer,
		timeout:  opts.Timeout,
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return g
}

func (g *GuardedGenerator) GenerateSummary(ctx context.Context, protocolText string) (string, error) {
	operation := g.provider + "_generate_summary"

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	started := time.Now()
	reply, err := resilience.Call(ctx, g.executor, operation, func(callCtx context.Context) (string, error) {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, g.timeout)
			defer cancel()
		}
		return g.next.GenerateSummary(callCtx, protocolText)
	}, ClassifyError)
	if g.observer != nil {
		g.observer.ObserveModelCall(g.provider, time.Since(started), err)
	}
	if err != nil {
		return "", WrapTemporaryIfNeeded(operation, err)
	}
	return reply, nil
}
