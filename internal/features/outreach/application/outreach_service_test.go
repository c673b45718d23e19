package application

import (
	"context"
	"sync"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cold-email-generator/internal/features/outreach/domain"
	"cold-email-generator/internal/features/outreach/infrastructure"
	"cold-email-generator/internal/features/outreach/infrastructure/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service OutreachService
	source  *fakeSource
	client  *fakeAIClient
	sleep   *recordingSleep
	root    string
}

func newServiceFixture(t *testing.T, payload any, responses ...string) *serviceFixture {
	t.Helper()
	root := t.TempDir()
	store, err := infrastructure.NewWorkspaceStore(root, 5)
	require.NoError(t, err)

	f := &serviceFixture{
		source: &fakeSource{payload: payload},
		client: &fakeAIClient{responses: responses},
		sleep:  &recordingSleep{},
		root:   root,
	}
	generator := NewEmailGenerator(f.client, testSettings(), testBackoff(f.sleep))
	f.service = NewOutreachService(f.source, prompts.NewLoader(""), generator, store)
	return f
}

func requireStage(t *testing.T, err error, stage domain.Stage) *domain.Error {
	t.Helper()
	var e *domain.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, stage, e.Stage())
	return e
}

func TestOutreachService_PersonParsed(t *testing.T) {
	f := newServiceFixture(t, personPayload(),
		`{"subject": "Growth idea", "email": "Hi Jane, ...", "personalization_points": ["growth"]}`)

	resp, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://www.linkedin.com/in/jane-doe/",
		ProductDescription: "AI-powered CRM",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Hi Jane, ...", resp.Email)
	assert.Equal(t, domain.EntityPerson, resp.URLType)
	assert.Equal(t, "Jane Doe", resp.Profile.Name)
	assert.Equal(t, "Head of Growth at Example Corp", resp.Profile.Headline)
	assert.False(t, resp.ParseWarning)
	assert.Equal(t, 1, f.client.calls())

	// The person template is sent, not the company one.
	assert.Contains(t, f.client.requests[0].Input, "Individual Profile")

	assert.FileExists(t, filepath.Join(f.root, resp.ResultID, ProfileDataFile))
	doc, err := f.service.Result(resp.ResultID)
	require.NoError(t, err)
	assert.Equal(t, "Growth idea", doc["subject"])
}

func TestOutreachService_PlanLimitation(t *testing.T) {
	f := newServiceFixture(t, []any{map[string]any{"error": "requires paid plan"}})

	_, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/company/acme",
		ProductDescription: "AI-powered CRM",
	})

	e := requireStage(t, err, domain.StageValidation)
	assert.Equal(t, 400, e.HTTPStatus())
	assert.ErrorIs(t, err, domain.ErrPlanLimitation)
	assert.Equal(t, 0, f.client.calls())

	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.FileExists(t, filepath.Join(f.root, entries[0].Name(), CompanyDataFile))
}

func TestOutreachService_AlwaysThrottled(t *testing.T) {
	f := newServiceFixture(t, personPayload())
	f.client.errs = []error{rateLimited(), rateLimited(), rateLimited(), rateLimited(), rateLimited(), rateLimited()}

	_, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/in/jane-doe",
		ProductDescription: "AI-powered CRM",
	})

	e := requireStage(t, err, domain.StageGeneration)
	assert.Equal(t, domain.KindRetriesExhausted, e.Kind)
	assert.Equal(t, 500, e.HTTPStatus())
	assert.Equal(t, 6, f.client.calls())
	assert.Len(t, f.sleep.waits, 5)
}

func TestOutreachService_ParseFailureFallsBackToRawText(t *testing.T) {
	f := newServiceFixture(t, personPayload(), "Dear Jane,\n\nI noticed your work on growth.")

	resp, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/in/jane-doe",
		ProductDescription: "AI-powered CRM",
	})
	require.NoError(t, err)
	assert.True(t, resp.ParseWarning)
	assert.Equal(t, "Dear Jane,\n\nI noticed your work on growth.", resp.Email)

	doc, err := f.service.Result(resp.ResultID)
	require.NoError(t, err)
	assert.Equal(t, "Could not extract JSON", doc[domain.ParseErrorKey])
	assert.Equal(t, resp.Email, doc["email"])
}

func TestOutreachService_ParsedWithoutEmail(t *testing.T) {
	f := newServiceFixture(t, personPayload(), `{"subject": "only a subject"}`)

	_, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/in/jane-doe",
		ProductDescription: "AI-powered CRM",
	})
	e := requireStage(t, err, domain.StageGeneration)
	assert.Equal(t, domain.KindEmptyResult, e.Kind)
}

func TestOutreachService_InputValidation(t *testing.T) {
	f := newServiceFixture(t, personPayload())

	tests := []struct {
		name string
		req  domain.GenerateRequest
		kind domain.ErrorKind
	}{
		{"invalid url", domain.GenerateRequest{URL: "https://example.com/in/jane", ProductDescription: "CRM"}, domain.KindInvalidURL},
		{"missing description", domain.GenerateRequest{URL: "https://linkedin.com/in/jane", ProductDescription: "  "}, domain.KindMissingDescription},
		{"description too long", domain.GenerateRequest{URL: "https://linkedin.com/in/jane", ProductDescription: strings.Repeat("a", 201)}, domain.KindDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Generate(context.Background(), tt.req)
			e := requireStage(t, err, domain.StageValidation)
			assert.Equal(t, tt.kind, e.Kind)
		})
	}
	assert.Equal(t, 0, f.source.calls)
}

func TestOutreachService_FetchFailure(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.source.err = domain.NewError(domain.KindFetchFailed, "profile source returned status 502", nil)

	_, err := f.service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/company/acme",
		ProductDescription: "CRM",
	})
	e := requireStage(t, err, domain.StageFetch)
	assert.Equal(t, "Failed to fetch company data. Please check the URL and try again.", e.Message)
}

func TestOutreachService_CheckURL(t *testing.T) {
	f := newServiceFixture(t, nil)

	check := f.service.CheckURL("https://linkedin.com/company/acme/")
	assert.True(t, check.Valid)
	assert.Equal(t, domain.EntityCompany, check.Type)

	check = f.service.CheckURL("https://linkedin.com/feed")
	assert.False(t, check.Valid)
	assert.Contains(t, check.Message, "https://linkedin.com/in/username/")
}

func TestOutreachService_ResultNotFound(t *testing.T) {
	f := newServiceFixture(t, nil)

	_, err := f.service.Result("../../etc")
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = f.service.Result("9m4e2mr0ui3e8a215n4g")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestOutreachService_UsesTemplateLoader(t *testing.T) {
	root := t.TempDir()
	store, err := infrastructure.NewWorkspaceStore(root, 5)
	require.NoError(t, err)
	client := &fakeAIClient{responses: []string{`{"email": "Hi"}`}}
	generator := NewEmailGenerator(client, testSettings(), testBackoff(&recordingSleep{}))
	service := NewOutreachService(&fakeSource{payload: personPayload()}, staticTemplates{}, generator, store)

	_, err = service.Generate(context.Background(), domain.GenerateRequest{
		URL:                "https://linkedin.com/in/jane-doe",
		ProductDescription: "CRM",
	})
	require.NoError(t, err)
	assert.Contains(t, client.requests[0].Input, "person instructions\n\n")
}

// gatedSource blocks the first Fetch until release is closed; later calls return at once.
type gatedSource struct {
	payload any
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (g *gatedSource) Fetch(ctx context.Context, _ domain.EntityType, _ string) (any, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.payload, nil
}

func TestOutreachService_SlowRequestSurvivesPruning(t *testing.T) {
	root := t.TempDir()
	store, err := infrastructure.NewWorkspaceStore(root, 2)
	require.NoError(t, err)

	source := &gatedSource{
		payload: personPayload(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	client := &fakeAIClient{responses: []string{`{"email": "Hi Jane"}`}}
	generator := NewEmailGenerator(client, testSettings(), testBackoff(&recordingSleep{}))
	service := NewOutreachService(source, prompts.NewLoader(""), generator, store)

	req := domain.GenerateRequest{URL: "https://linkedin.com/in/jane-doe", ProductDescription: "CRM"}

	type outcome struct {
		resp *domain.GenerateResponse
		err  error
	}
	slow := make(chan outcome, 1)
	go func() {
		resp, err := service.Generate(context.Background(), req)
		slow <- outcome{resp, err}
	}()
	<-source.entered

	for i := 0; i < 3; i++ {
		_, err := service.Generate(context.Background(), req)
		require.NoError(t, err)
	}

	close(source.release)
	result := <-slow
	require.NoError(t, result.err)
	assert.Equal(t, "Hi Jane", result.resp.Email)

	doc, err := service.Result(result.resp.ResultID)
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane", doc["email"])
}
