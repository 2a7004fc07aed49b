package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/app/risk"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/email"
	"github.com/yigit/mindcare/internal/pkg/helpers"
	"github.com/yigit/mindcare/internal/pkg/identity"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
	"github.com/yigit/mindcare/internal/seed"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store       kvstore.Store
	repos       *repositories.Repositories
	activity    *ActivityService
	analytics   *AnalyticsService
	counselors  *CounselorService
	crisis      *CrisisService
	bookings    *BookingService
	chat        *ChatService
	peer        *PeerService
	accounts    *AccountService
	assessments *AssessmentService
	resources   *ResourceService
	provider    *fakeProvider
	feed        *fakeFeed
	notifier    *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()
	clock := func() time.Time { return testNow }

	store := kvstore.NewMemoryStore()
	repos := repositories.NewRepositories(store)
	require.NoError(t, seed.CreateDefaultCounselors(ctx, repos.CounselorRepository, logger))

	env := &testEnv{
		store:    store,
		repos:    repos,
		provider: newFakeProvider(),
		feed:     &fakeFeed{},
		notifier: &fakeNotifier{},
	}

	env.activity = NewActivityService(repos.UserRepository, repos.ActivityRepository, logger)
	env.activity.now = clock

	env.analytics = NewAnalyticsService(repos.AnalyticsRepository, repos.UserRepository, repos.ActivityRepository, logger)
	env.analytics.now = clock

	env.counselors = NewCounselorService(repos.CounselorRepository, repos.BookingRepository, 2, logger)

	env.crisis = NewCrisisService(env.counselors, repos.BookingRepository, env.notifier, env.activity, nil, logger)
	env.crisis.now = clock

	env.bookings = NewBookingService(repos.BookingRepository, env.counselors, env.activity, logger)
	env.bookings.now = clock

	env.chat = NewChatService(ChatDeps{
		Classifier: risk.NewKeywordClassifier(risk.ChatKeywords),
		ChatRepo:   repos.ChatRepository,
		Risk:       env.analytics,
		Crisis:     env.crisis,
		Activity:   env.activity,
	}, logger)
	env.chat.now = clock

	env.peer = NewPeerService(PeerDeps{
		PeerRepo:   repos.PeerRepository,
		Classifier: risk.NewKeywordClassifier(risk.ForumKeywords),
		Risk:       env.analytics,
		Crisis:     env.crisis,
		Activity:   env.activity,
		Feed:       env.feed,
	}, logger)
	env.peer.now = clock

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "mindcare-test"})
	env.accounts = NewAccountService(env.provider, repos.UserRepository, jwtService, env.activity, logger)
	env.accounts.now = clock

	env.assessments = NewAssessmentService(repos.AssessmentRepository, repos.UserRepository, env.activity, logger)
	env.assessments.now = clock

	catalog, err := LoadResourceCatalog(nil)
	require.NoError(t, err)
	env.resources = NewResourceService(catalog, env.activity, logger)

	return env
}

// activities returns today's activity log entries of userID
func (e *testEnv) activities(t *testing.T, userID string) []models.ActivityLogEntry {
	t.Helper()
	entries, err := e.repos.ActivityRepository.ListByDay(context.Background(), helpers.DayKey(testNow))
	require.NoError(t, err)
	var out []models.ActivityLogEntry
	for _, entry := range entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out
}

func (e *testEnv) todayRisk(t *testing.T) models.RiskAnalytics {
	t.Helper()
	bucket, err := e.repos.AnalyticsRepository.GetDay(context.Background(), helpers.DayKey(testNow))
	require.NoError(t, err)
	return bucket
}

func activityNames(entries []models.ActivityLogEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Activity)
	}
	return names
}

type fakeProvider struct {
	mu        sync.Mutex
	byEmail   map[string]string
	passwords map[string]string
	err       error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{byEmail: map[string]string{}, passwords: map[string]string{}}
}

func (p *fakeProvider) CreateUser(_ context.Context, user identity.NewUser) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	email := strings.ToLower(user.Email)
	if _, ok := p.byEmail[email]; ok {
		return "", apperrors.ErrEmailAlreadyExists
	}
	id := uuid.NewString()
	p.byEmail[email] = id
	p.passwords[email] = user.Password
	return id, nil
}

func (p *fakeProvider) Authenticate(_ context.Context, email, password string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	email = strings.ToLower(email)
	id, ok := p.byEmail[email]
	if !ok || p.passwords[email] != password {
		return "", apperrors.ErrInvalidCredentials
	}
	return id, nil
}

type fakeFeed struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	topics  []string
	kind    string
	payload interface{}
}

func (f *fakeFeed) Publish(topics []string, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{topics: topics, kind: eventType, payload: payload})
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []email.CrisisAlert
	err    error
}

func (n *fakeNotifier) NotifyCrisisBooking(_ context.Context, alert email.CrisisAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

type fakeSlots struct {
	reserved *ReservedSlot
	err      error
}

func (f fakeSlots) ReserveNextSlot(context.Context, time.Time, string) (*ReservedSlot, error) {
	return f.reserved, f.err
}

type panickingSlots struct{}

func (panickingSlots) ReserveNextSlot(context.Context, time.Time, string) (*ReservedSlot, error) {
	panic("boom")
}
