package insights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fashion-dashboard/internal/models"
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Option func(*Generator)

// WithConcurrency bounds how many questions are in flight at once.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithObserver registers a callback invoked after every completion attempt.
func WithObserver(fn func(Result, time.Duration)) Option {
	return func(g *Generator) {
		g.observe = fn
	}
}

// Generator asks a fixed list of questions about a filtered view.
type Generator struct {
	completer   Completer
	questions   []string
	concurrency int
	logger      *slog.Logger
	observe     func(Result, time.Duration)
}

func NewGenerator(completer Completer, questions []string, opts ...Option) *Generator {
	g := &Generator{
		completer:   completer,
		questions:   questions,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Questions() []string {
	return g.questions
}

// Generate answers every question about view. Results are returned in
// question order; emit, when non-nil, is called once per result as soon as it
// is available, never concurrently. A failed question does not stop the
// others. An empty view yields no-data results without calling the
// completer.
func (g *Generator) Generate(ctx context.Context, view []models.Record, emit func(int, Result)) []Result {
	results := make([]Result, len(g.questions))

	if len(view) == 0 {
		for i, q := range g.questions {
			results[i] = noData(q)
			if emit != nil {
				emit(i, results[i])
			}
		}
		return results
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(g.concurrency)

	for i, q := range g.questions {
		eg.Go(func() error {
			res := g.ask(ctx, q, view)

			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			if emit != nil {
				emit(i, res)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (g *Generator) ask(ctx context.Context, question string, view []models.Record) Result {
	start := time.Now()

	text, err := g.completer.Complete(ctx, BuildPrompt(question, view))

	var res Result
	if err != nil {
		res = failure(question, err)
		g.logger.Warn("insight generation failed",
			"question", question,
			"error_kind", res.ErrorKind,
			"error", err,
		)
	} else {
		res = success(question, text)
		g.logger.Debug("insight generated", "question", question, "chars", len(text))
	}

	if g.observe != nil {
		g.observe(res, time.Since(start))
	}
	return res
}
