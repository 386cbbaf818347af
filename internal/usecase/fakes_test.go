package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fakeReservationRepo keeps reservations in memory and enforces the active
// slot uniqueness the database index provides.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations []*entity.Reservation
	err          error
	// afterFind runs once FindByID has copied the row, outside the lock
	afterFind func(r *entity.Reservation)
}

func (f *fakeReservationRepo) Create(_ context.Context, r *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.reservations {
		if existing.BusinessID == r.BusinessID && existing.Date == r.Date && existing.Time == r.Time && existing.IsActive() {
			return fmt.Errorf("create reservation: %w", repository.ErrSlotTaken)
		}
	}
	cp := *r
	f.reservations = append(f.reservations, &cp)
	return nil
}

func (f *fakeReservationRepo) IsTaken(_ context.Context, businessID uuid.UUID, date, hhmm string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.reservations {
		if r.BusinessID == businessID && r.Date == date && r.Time == hhmm && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationRepo) ListBookedTimes(_ context.Context, businessID uuid.UUID, date string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var times []string
	for _, r := range f.reservations {
		if r.BusinessID == businessID && r.Date == date && r.IsActive() {
			times = append(times, r.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (f *fakeReservationRepo) CancelActiveByCustomer(_ context.Context, businessID uuid.UUID, phone string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, r := range f.reservations {
		if r.BusinessID == businessID && r.CustomerPhone == phone && r.IsActive() {
			r.Status = entity.ReservationCanceled
			n++
		}
	}
	return n, nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	var found *entity.Reservation
	for _, r := range f.reservations {
		if r.BusinessID == businessID && r.ID == id {
			cp := *r
			found = &cp
			break
		}
	}
	hook := f.afterFind
	f.mu.Unlock()

	if found != nil && hook != nil {
		hook(found)
	}
	return found, nil
}

func (f *fakeReservationRepo) List(_ context.Context, businessID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.BusinessID == businessID && (status == "" || r.Status == status) {
			cp := *r
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReservationRepo) Count(_ context.Context, businessID uuid.UUID, status entity.ReservationStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.reservations {
		if r.BusinessID == businessID && (status == "" || r.Status == status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, businessID, id uuid.UUID, status entity.ReservationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.BusinessID == businessID && r.ID == id {
			if r.Status == entity.ReservationCanceled ||
				(status == entity.ReservationConfirmed && r.Status != entity.ReservationPending) {
				return fmt.Errorf("reservation %s: %w", id, repository.ErrInvalidTransition)
			}
			r.Status = status
			return nil
		}
	}
	return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
}

func (f *fakeReservationRepo) add(r *entity.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations = append(f.reservations, r)
}

func (f *fakeReservationRepo) active() []*entity.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.IsActive() {
			out = append(out, r)
		}
	}
	return out
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services []*entity.Service
	err      error
}

func (f *fakeServiceRepo) Create(_ context.Context, s *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.services {
		if existing.BusinessID == s.BusinessID && strings.EqualFold(existing.Name, s.Name) {
			return fmt.Errorf("create service: %w", repository.ErrDuplicate)
		}
	}
	cp := *s
	f.services = append(f.services, &cp)
	return nil
}

func (f *fakeServiceRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.services {
		if s.BusinessID == businessID && s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeServiceRepo) FindByName(_ context.Context, businessID uuid.UUID, name string) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.services {
		if s.BusinessID == businessID && strings.EqualFold(s.Name, name) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeServiceRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Service
	for _, s := range f.services {
		if s.BusinessID == businessID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeServiceRepo) ListNames(_ context.Context, businessID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var names []string
	for _, s := range f.services {
		if s.BusinessID == businessID {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, s *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.services {
		if existing.BusinessID == s.BusinessID && existing.ID == s.ID {
			cp := *s
			f.services[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("service %s: %w", s.ID, repository.ErrNotFound)
}

func (f *fakeServiceRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.services {
		if s.BusinessID == businessID && s.ID == id {
			f.services = append(f.services[:i], f.services[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
}

type sentMessage struct {
	Phone string
	Text  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, phone, text string, _ *entity.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Phone: phone, Text: text})
	return f.err
}

func (f *fakeNotifier) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeCalendar struct {
	mu     sync.Mutex
	events []*CalendarEvent
	err    error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event *CalendarEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, event)
	return fmt.Sprintf("evt-%d", len(f.events)), nil
}

type fakeClassifier struct {
	answer string
	err    error
	calls  int
}

func (f *fakeClassifier) PickService(_ context.Context, _ *entity.Business, _ []string, _ string) (string, error) {
	f.calls++
	return f.answer, f.err
}

var errBoom = errors.New("boom")

type dialogueFixture struct {
	business     *entity.Business
	reservations *fakeReservationRepo
	services     *fakeServiceRepo
	notifier     *fakeNotifier
	calendar     *fakeCalendar
	repo         *repository.Repository
	config       *utils.Config
	engine       DialogueService
}

func testConfig() *utils.Config {
	return &utils.Config{
		Conversation: utils.ConversationConfig{
			SessionTTL:     30 * time.Minute,
			MaxSuggestions: 3,
		},
		Calendar: utils.CalendarConfig{Timeout: time.Second},
	}
}

func newDialogueFixture(t *testing.T, mutate ...func(*utils.Config)) *dialogueFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	config := testConfig()
	for _, m := range mutate {
		m(config)
	}

	f := &dialogueFixture{
		business: &entity.Business{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			Name:         "Fade Studio",
			Provider:     entity.ProviderMeta,
		},
		reservations: &fakeReservationRepo{},
		services:     &fakeServiceRepo{},
		notifier:     &fakeNotifier{},
		calendar:     &fakeCalendar{},
		config:       config,
	}
	f.repo = &repository.Repository{
		Reservation:  f.reservations,
		Service:      f.services,
		Conversation: repository.NewConversationRepository(client, config.Conversation.SessionTTL, zap.NewNop()),
	}
	f.engine = NewDialogueService(f.repo, Collaborators{Notifier: f.notifier, Calendar: f.calendar}, config, nil, zap.NewNop())
	return f
}

func (f *dialogueFixture) send(t *testing.T, phone, text string) *DialogueResult {
	t.Helper()
	result, err := f.engine.HandleMessage(context.Background(), &InboundMessage{Business: f.business, Phone: phone, Text: text})
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return result
}

// walkToTime drives a fresh conversation up to the time question.
func (f *dialogueFixture) walkToTime(t *testing.T, phone, name, date string) {
	t.Helper()
	f.send(t, phone, "book")
	f.send(t, phone, name)
	f.send(t, phone, "haircut")
	f.send(t, phone, date)
}

func (f *dialogueFixture) reserve(date, hhmm string) {
	f.reservations.add(&entity.Reservation{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New()},
		BusinessID:    f.business.ID,
		CustomerName:  "Existing",
		CustomerPhone: "+10000000000",
		Service:       ServiceHaircut,
		Date:          date,
		Time:          hhmm,
		Status:        entity.ReservationConfirmed,
	})
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[uuid.UUID]*entity.Business
	owners     []*entity.User
	lookups    int
	err        error
}

func newFakeBusinessRepo(businesses ...*entity.Business) *fakeBusinessRepo {
	f := &fakeBusinessRepo{businesses: make(map[uuid.UUID]*entity.Business)}
	for _, b := range businesses {
		f.businesses[b.ID] = b
	}
	return f
}

func (f *fakeBusinessRepo) CreateWithOwner(_ context.Context, business *entity.Business, owner *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.owners {
		if strings.EqualFold(u.Email, owner.Email) {
			return fmt.Errorf("create user %s: email %w", owner.Email, repository.ErrDuplicate)
		}
	}
	cp := *business
	f.businesses[business.ID] = &cp
	f.owners = append(f.owners, owner)
	return nil
}

func (f *fakeBusinessRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.businesses[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBusinessRepo) FindByPhoneNumberID(_ context.Context, phoneNumberID string) (*entity.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.businesses {
		if b.PhoneNumberID != nil && *b.PhoneNumberID == phoneNumberID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBusinessRepo) Update(_ context.Context, business *entity.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.businesses[business.ID]; !ok {
		return fmt.Errorf("business %s: %w", business.ID, repository.ErrNotFound)
	}
	cp := *business
	f.businesses[business.ID] = &cp
	return nil
}

type fakeProcessedRepo struct {
	mu       sync.Mutex
	seen     map[string]bool
	unmarked []string
	err      error
}

func newFakeProcessedRepo() *fakeProcessedRepo {
	return &fakeProcessedRepo{seen: make(map[string]bool)}
}

func (f *fakeProcessedRepo) MarkProcessed(_ context.Context, provider, messageID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	key := provider + "/" + messageID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeProcessedRepo) Unmark(_ context.Context, provider, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, provider+"/"+messageID)
	f.unmarked = append(f.unmarked, messageID)
	return nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*entity.Session
	revoked  []string
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Token.String() == token {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Token.String() == token {
			f.revoked = append(f.revoked, token)
			return nil
		}
	}
	return fmt.Errorf("session %w or already revoked", repository.ErrNotFound)
}

func (f *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

// stubDialogue records messages and answers with a fixed result or error.
type stubDialogue struct {
	mu       sync.Mutex
	messages []*InboundMessage
	result   *DialogueResult
	err      error
}

func (s *stubDialogue) HandleMessage(_ context.Context, msg *InboundMessage) (*DialogueResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &DialogueResult{Outcome: OutcomePrompted}, nil
}
