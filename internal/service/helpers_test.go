package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/pkg/testdb"
	"raw-ai-be/internal/repository/memory"
	"raw-ai-be/internal/repository/specification"
	"raw-ai-be/internal/repository/unitofwork"
	"raw-ai-be/pkg/events"
	"raw-ai-be/pkg/gateway/razorpay"
	"raw-ai-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t"

// A 60-word paragraph dense with generated-prose markers.
const aiParagraph = "In the modern era, technology is pivotal for every business. Furthermore, it is worth noting that " +
	"organizations must delve into the multifaceted landscape of innovation. Moreover, numerous companies " +
	"seamlessly leverage cutting-edge tools to unlock the full potential of their teams. Additionally, it is " +
	"important to note that consequently various strategies significantly improve outcomes. In conclusion, " +
	"this transformation is a testament to the paramount importance of adaptation."

const plainParagraph = "I grabbed coffee with my sister before work. She's been looking for a new apartment. " +
	"We talked about the rent downtown and how it's gotten silly. I'm not sure she'll find one soon. " +
	"Still, we laughed a lot and I didn't want to leave."

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func newFactory(t *testing.T) unitofwork.RepositoryFactory {
	return unitofwork.NewRepositoryFactory(testdb.New(t))
}

func seedProfile(t *testing.T, f unitofwork.RepositoryFactory, email string, plan entity.Plan) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	p := &entity.Profile{Email: email, SubscribedPlan: plan}
	require.NoError(t, f.NewUnitOfWork(ctx).ProfileRepository().Create(ctx, p))
	return p.Id
}

func seedUsage(t *testing.T, f unitofwork.RepositoryFactory, userId uuid.UUID, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.NewUnitOfWork(ctx).UsageLogRepository().Create(ctx, &entity.UsageLogEntry{
		UserId:     userId,
		WordsCount: n,
		Feature:    entity.UsageFeatureDetect,
		CreatedAt:  time.Now(),
	}))
}

func usedWords(t *testing.T, f unitofwork.RepositoryFactory, userId uuid.UUID) int {
	t.Helper()
	ctx := context.Background()
	n, err := f.NewUnitOfWork(ctx).UsageLogRepository().SumWords(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedSince{Since: entity.StartOfMonth(time.Now())},
	)
	require.NoError(t, err)
	return n
}

func planOf(t *testing.T, f unitofwork.RepositoryFactory, userId uuid.UUID) entity.Plan {
	t.Helper()
	ctx := context.Background()
	p, err := f.NewUnitOfWork(ctx).ProfileRepository().FindOne(ctx, specification.ByID{ID: userId})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Plan()
}

func authFor(id uuid.UUID) entity.AuthContext {
	return entity.AuthContext{UserId: &id}
}

func newTestUsageService(f unitofwork.RepositoryFactory, pub events.Publisher) IUsageService {
	return NewUsageService(f, memory.NewUsageCache(time.Minute), pub, logger.NewNop())
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	reply   string
	err     error
	calls   int
	history []llm.Message
	options llm.Options
}

func (p *fakeProvider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	p.history = history
	p.options = llm.Apply(llm.Options{}, opts...)
	return p.reply, p.err
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *fakeProvider) DefaultModel() string { return "test-model" }

type fakeGateway struct {
	keyId    string
	err      error
	requests []razorpay.OrderRequest
}

func (g *fakeGateway) KeyId() string { return g.keyId }

func (g *fakeGateway) CreateOrder(_ context.Context, in razorpay.OrderRequest) (*razorpay.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, in)
	return &razorpay.Order{
		Id:       fmt.Sprintf("order_%d", len(g.requests)),
		Entity:   "order",
		Amount:   in.Amount,
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Status:   "created",
	}, nil
}

type retryCall struct {
	orderId string
	attempt int
}

type recordingRetry struct {
	mu    sync.Mutex
	calls []retryCall
	ch    chan retryCall
}

func newRecordingRetry() *recordingRetry {
	return &recordingRetry{ch: make(chan retryCall, 16)}
}

func (r *recordingRetry) EnqueuePromotionRetry(_ context.Context, orderId string, attempt int) error {
	r.mu.Lock()
	r.calls = append(r.calls, retryCall{orderId, attempt})
	r.mu.Unlock()
	r.ch <- retryCall{orderId, attempt}
	return nil
}

func (r *recordingRetry) snapshot() []retryCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]retryCall(nil), r.calls...)
}
