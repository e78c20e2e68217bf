package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/token"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/replicate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type fakeMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{tokens: make(map[string]string)}
}

func (m *fakeMailer) SendResetToken(toEmail, token string, expiresIn time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[toEmail] = token
	return nil
}

func (m *fakeMailer) TokenFor(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[email]
	return t, ok
}

type stubProvider struct {
	text  string
	err   error
	calls int
	last  []llm.Message
	opts  *llm.Options
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	p.calls++
	p.last = history
	p.opts = llm.ApplyOptions(options...)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Completion{Text: p.text, Model: "stub-model", TokenCount: 12}, nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type stubGenerator struct {
	err      error
	requests []replicate.ImageRequest
}

func (g *stubGenerator) GenerateImage(ctx context.Context, req replicate.ImageRequest) (*replicate.Image, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &replicate.Image{
		SourceURL:   "https://replicate.delivery/out.webp",
		Data:        []byte("image-bytes"),
		ContentType: "image/webp",
	}, nil
}

type memoryObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryObjectStorage() *memoryObjectStorage {
	return &memoryObjectStorage{objects: make(map[string][]byte)}
}

func (s *memoryObjectStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return "https://cdn.example.com/" + key, nil
}

func (s *memoryObjectStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

var errProviderDown = errors.New("provider down")

type testEnv struct {
	store     *memory.Store
	uow       unitofwork.RepositoryFactory
	clock     *testClock
	tokens    *token.Manager
	publisher *recordingPublisher
	log       logger.ILogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := newTestClock()
	return &testEnv{
		store: store,
		uow:   memory.NewRepositoryFactory(store),
		clock: clock,
		tokens: token.NewManager(token.Config{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		}).WithClock(clock.Now),
		publisher: &recordingPublisher{},
		log:       logger.NewNopLogger(),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:        uuid.New(),
		FullName:  "Test User",
		Email:     email,
		Role:      entity.UserRoleUser,
		Provider:  entity.AuthProviderLocal,
		CreatedAt: e.clock.Now(),
	}
	require.NoError(t, e.uow.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), user))
	return user
}

func (e *testEnv) chatService() *chatService {
	s := NewChatService(e.uow, e.publisher, e.log).(*chatService)
	s.now = e.clock.Now
	return s
}

func (e *testEnv) promptService() *promptService {
	s := NewPromptService(e.uow).(*promptService)
	s.now = e.clock.Now
	return s
}

func (e *testEnv) messageService(provider llm.LLMProvider, opts MessageOptions) *messageService {
	s := NewMessageService(e.uow, provider, e.publisher, e.log, opts).(*messageService)
	s.now = e.clock.Now
	return s
}

func (e *testEnv) createChat(t *testing.T, userId uuid.UUID, req *dto.CreateChatRequest) *dto.ChatDetailResponse {
	t.Helper()
	if req == nil {
		req = &dto.CreateChatRequest{Title: "Interview"}
	}
	chat, err := e.chatService().CreateChat(context.Background(), userId, req)
	require.NoError(t, err)
	return chat
}

func samplePrompt(name string, age int) *dto.CreatePromptRequest {
	return &dto.CreatePromptRequest{
		Profile: dto.PromptProfileRequest{
			Name:              name,
			Designation:       "Product Manager",
			Age:               age,
			UniquePerspective: "Cares about onboarding",
		},
		Background: "Ten years in SaaS",
		Category:   "evaluative",
	}
}
