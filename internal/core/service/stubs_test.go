package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	nextID    int
	createErr error // if set, Create returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Email = user.Email
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubTxRepo struct {
	mu     sync.Mutex
	kind   domain.Kind
	byID   map[string]*domain.Transaction
	order  []string
	nextID int
}

func newStubTxRepo(kind domain.Kind) *stubTxRepo {
	return &stubTxRepo{kind: kind, byID: make(map[string]*domain.Transaction)}
}

func cloneTx(t *domain.Transaction) *domain.Transaction {
	clone := *t
	return &clone
}

func (r *stubTxRepo) Kind() domain.Kind { return r.kind }

func (r *stubTxRepo) Create(_ context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copy := cloneTx(t)
	copy.ID = fmt.Sprintf("%s-%d", r.kind, r.nextID)
	r.byID[copy.ID] = copy
	r.order = append(r.order, copy.ID)
	return cloneTx(copy), nil
}

func (r *stubTxRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		return cloneTx(t), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *stubTxRepo) Update(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	r.byID[t.ID] = cloneTx(t)
	return nil
}

func (r *stubTxRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTxRepo) filter(keep func(t *domain.Transaction) bool) []*domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Transaction{}
	for _, id := range r.order {
		t, ok := r.byID[id]
		if ok && keep(t) {
			out = append(out, cloneTx(t))
		}
	}
	return out
}

func (r *stubTxRepo) ListByUser(_ context.Context, username string) ([]*domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool { return t.OwnerUsername == username }), nil
}

func (r *stubTxRepo) ListByCategory(_ context.Context, username, category string) ([]*domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool {
		return t.OwnerUsername == username && t.Category == category
	}), nil
}

func (r *stubTxRepo) ListByDateRange(_ context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool {
		return t.OwnerUsername == username && t.Date.Within(start, end)
	}), nil
}

func (r *stubTxRepo) Total(ctx context.Context, username string) (float64, error) {
	txs, _ := r.ListByUser(ctx, username)
	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	return total, nil
}

func (r *stubTxRepo) TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error) {
	txs, _ := r.ListByUser(ctx, username)
	sums := map[string]float64{}
	for _, t := range txs {
		sums[t.Category] += t.Amount
	}
	out := []domain.CategoryTotal{}
	for c, a := range sums {
		out = append(out, domain.CategoryTotal{Category: c, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// ---------------------------------------------------------------------------
// Cache, publisher and mailer stubs
// ---------------------------------------------------------------------------

type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Summary
	gens        map[string]int64
	invalidated []string
	gets        int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Summary), gens: make(map[string]int64)}
}

func stubCacheKey(username string, gen int64) string {
	return fmt.Sprintf("%s:%d", username, gen)
}

func (c *stubCache) Generation(_ context.Context, username string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[username], nil
}

func (c *stubCache) Get(_ context.Context, username string, gen int64) (*domain.Summary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s, ok := c.entries[stubCacheKey(username, gen)]
	return s, ok, nil
}

func (c *stubCache) Set(_ context.Context, username string, gen int64, s *domain.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stubCacheKey(username, gen)] = s
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[username]++
	c.invalidated = append(c.invalidated, username)
	return nil
}

// current returns the entry a reader of username would see right now.
func (c *stubCache) current(username string) (*domain.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[stubCacheKey(username, c.gens[username])]
	return s, ok
}

func (c *stubCache) prime(username string, s *domain.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stubCacheKey(username, c.gens[username])] = s
}

// gatedTxRepo blocks the first Total call after it has read the store,
// until release is closed.
type gatedTxRepo struct {
	*stubTxRepo
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedTxRepo(r *stubTxRepo) *gatedTxRepo {
	return &gatedTxRepo{stubTxRepo: r, reached: make(chan struct{}), release: make(chan struct{})}
}

func (r *gatedTxRepo) Total(ctx context.Context, username string) (float64, error) {
	total, err := r.stubTxRepo.Total(ctx, username)
	r.once.Do(func() {
		close(r.reached)
		<-r.release
	})
	return total, err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type sentMail struct {
	to string
	n  domain.Notification
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to string, n domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, n: n})
	return nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	users     *stubUserRepo
	incomes   *stubTxRepo
	expenses  *stubTxRepo
	cache     *stubCache
	events    *recordingPublisher
	hasher    *BcryptHasher
	tokens    *JWTTokenService
	auth      *AuthService
	incomeSvc *TransactionService
	expSvc    *TransactionService
	dashboard *DashboardService
	profile   *ProfileService
}

func newFixture() *fixture {
	f := &fixture{
		users:    newStubUserRepo(),
		incomes:  newStubTxRepo(domain.KindIncome),
		expenses: newStubTxRepo(domain.KindExpense),
		cache:    newStubCache(),
		events:   &recordingPublisher{},
		hasher:   NewBcryptHasher(bcrypt.MinCost),
		tokens:   NewJWTTokenService("secret", 0),
	}
	log := zerolog.Nop()
	f.auth = NewAuthService(f.users, f.hasher, f.tokens, f.events, log)
	f.incomeSvc = NewTransactionService(f.incomes, f.users, f.cache, f.events, log)
	f.expSvc = NewTransactionService(f.expenses, f.users, f.cache, f.events, log)
	f.dashboard = NewDashboardService(f.incomes, f.expenses, f.cache, log)
	f.profile = NewProfileService(f.users, f.hasher, f.events, log)
	return f
}

func (f *fixture) register(username, email, password string) *domain.PublicUser {
	u, err := f.auth.Register(context.Background(), ports.RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", username, err))
	}
	return u
}

func (f *fixture) add(svc *TransactionService, username string, amount float64, category string, date domain.Date) *domain.Transaction {
	t, err := svc.Add(context.Background(), username, ports.TransactionInput{Amount: amount, Category: category, Date: date})
	if err != nil {
		panic(fmt.Sprintf("add %s: %v", category, err))
	}
	return t
}
