package application

import (
	"context"
	"sync"
	"time"

	"cold-email-generator/internal/features/outreach/domain"
	"cold-email-generator/internal/features/outreach/infrastructure"
)

// fakeAIClient replays a scripted sequence of responses and errors.
type fakeAIClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []infrastructure.AIRequest
}

func (f *fakeAIClient) GenerateResponse(_ context.Context, req infrastructure.AIRequest) (*infrastructure.AIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	content := ""
	if len(f.responses) > 0 {
		content = f.responses[min(i, len(f.responses)-1)]
	}
	return &infrastructure.AIResponse{
		Content: content,
		Usage:   domain.Usage{InputTokens: 120, OutputTokens: 80},
	}, nil
}

func (f *fakeAIClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakeSource returns a fixed payload for every URL.
type fakeSource struct {
	payload any
	err     error
	calls   int
}

func (f *fakeSource) Fetch(_ context.Context, _ domain.EntityType, _ string) (any, error) {
	f.calls++
	return f.payload, f.err
}

// staticTemplates returns "<type> instructions" for every entity type.
type staticTemplates struct{}

func (staticTemplates) Load(entityType domain.EntityType) (string, error) {
	return string(entityType) + " instructions", nil
}

// recordingSleep records requested waits without sleeping.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) Sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func rateLimited() error {
	return domain.NewError(domain.KindRateLimited, "rate limited", nil)
}

func testBackoff(sleep *recordingSleep) BackoffPolicy {
	p := DefaultBackoffPolicy()
	p.Sleep = sleep.Sleep
	return p
}

// personPayload is a realistic flat person record as the profile source returns it.
func personPayload() []any {
	return []any{map[string]any{
		"fullName": "Jane Doe",
		"headline": "Head of Growth at Example Corp",
		"location": "Berlin, Germany",
		"about":    "Scaling B2B SaaS go-to-market teams across Europe.",
		"experience": []any{
			map[string]any{"title": "Head of Growth", "company": "Example Corp"},
		},
	}}
}
