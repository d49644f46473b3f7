package impl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory fakes backing the service tests. They mirror the repository
// contracts closely enough that the services cannot tell the difference,
// including sentinel errors and the guarded inventory adjustment.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = entity.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			found := user

			return &found, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.PasswordResetToken != "" && user.PasswordResetToken == token {
			found := user

			return &found, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user

	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}

	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user

	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)

	return nil
}

func (r *memUserRepo) List(_ context.Context, query repository.ListUsersQuery) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		if query.Role != nil && user.Role != *query.Role {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(user.Name), needle) &&
				!strings.Contains(user.Email, needle) {
				continue
			}
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, int64(len(matched)), nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.users)), nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]entity.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return &product, nil
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			found = append(found, product)
		}
	}

	return found, nil
}

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product

	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}

	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product

	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)

	return nil
}

func (r *memProductRepo) List(_ context.Context, query repository.ListProductsQuery) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]entity.Product, 0, len(r.products))
	for _, product := range r.products {
		if !query.IncludeInactive && !product.IsActive {
			continue
		}
		if query.Category != nil && product.Category != *query.Category {
			continue
		}
		if query.Featured != nil && product.IsFeatured != *query.Featured {
			continue
		}
		if query.MinPrice != nil && product.Price.LessThan(*query.MinPrice) {
			continue
		}
		if query.MaxPrice != nil && product.Price.GreaterThan(*query.MaxPrice) {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(product.Name), needle) &&
				!strings.Contains(strings.ToLower(product.Description), needle) {
				continue
			}
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool {
		switch query.Sort {
		case repository.ProductSortPriceAsc:
			return matched[i].Price.LessThan(matched[j].Price)
		case repository.ProductSortPriceDesc:
			return matched[i].Price.GreaterThan(matched[j].Price)
		case repository.ProductSortRating:
			return matched[i].AverageRating > matched[j].AverageRating
		default:
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
	})

	return matched, int64(len(matched)), nil
}

func (r *memProductRepo) AdjustInventory(_ context.Context, productID uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if !product.Inventory.TrackInventory {
		return nil
	}
	if product.Inventory.Quantity+delta < 0 {
		return repository.ErrInsufficientStock
	}

	product.Inventory.Quantity += delta
	r.products[productID] = product

	return nil
}

func (r *memProductRepo) AddReview(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[review.ProductID]
	if !ok {
		return repository.ErrProductNotFound
	}
	for _, existing := range product.Reviews {
		if existing.UserID == review.UserID {
			return repository.ErrDuplicateReview
		}
	}

	product.Reviews = append(product.Reviews, *review)
	r.products[review.ProductID] = product

	return nil
}

func (r *memProductRepo) UpdateRating(_ context.Context, productID uuid.UUID, average float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}

	product.AverageRating = average
	product.ReviewCount = count
	r.products[productID] = product

	return nil
}

func (r *memProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.products)), nil
}

func (r *memProductRepo) snapshot() map[uuid.UUID]entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[uuid.UUID]entity.Product, len(r.products))
	for id, product := range r.products {
		copied[id] = product
	}

	return copied
}

func (r *memProductRepo) restore(snapshot map[uuid.UUID]entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = snapshot
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]entity.Order)}
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return &order, nil
}

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order

	return nil
}

func (r *memOrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}

	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order

	return nil
}

func (r *memOrderRepo) List(_ context.Context, query repository.ListOrdersQuery) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]entity.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if query.UserID != nil && order.UserID != *query.UserID {
			continue
		}
		if query.Status != nil && order.Status != *query.Status {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, int64(len(matched)), nil
}

func (r *memOrderRepo) Recent(ctx context.Context, n int) ([]entity.Order, error) {
	orders, _, err := r.List(ctx, repository.ListOrdersQuery{})
	if err != nil {
		return nil, err
	}
	if len(orders) > n {
		orders = orders[:n]
	}

	return orders, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, order := range r.orders {
		if order.Status == entity.OrderStatusCancelled {
			continue
		}
		total = total.Add(order.TotalPrice)
	}

	return total, nil
}

func (r *memOrderRepo) DailyStats(_ context.Context, since time.Time) ([]repository.DailyOrderStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byDay := make(map[time.Time]repository.DailyOrderStat)
	for _, order := range r.orders {
		if order.Status == entity.OrderStatusCancelled || order.CreatedAt.Before(since) {
			continue
		}
		day := order.CreatedAt.UTC().Truncate(24 * time.Hour)
		stat := byDay[day]
		stat.Day = day
		stat.Count++
		stat.Revenue = stat.Revenue.Add(order.TotalPrice)
		byDay[day] = stat
	}

	stats := make([]repository.DailyOrderStat, 0, len(byDay))
	for _, stat := range byDay {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Day.Before(stats[j].Day) })

	return stats, nil
}

func (r *memOrderRepo) snapshot() map[uuid.UUID]entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[uuid.UUID]entity.Order, len(r.orders))
	for id, order := range r.orders {
		copied[id] = order
	}

	return copied
}

func (r *memOrderRepo) restore(snapshot map[uuid.UUID]entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = snapshot
}

// memTxManager snapshots the stores before running fn and restores them when
// fn fails, matching transactional rollback semantics.
type memTxManager struct {
	users    *memUserRepo
	products *memProductRepo
	orders   *memOrderRepo
}

func (m *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	productSnapshot := m.products.snapshot()
	orderSnapshot := m.orders.snapshot()

	if err := fn(m); err != nil {
		m.products.restore(productSnapshot)
		m.orders.restore(orderSnapshot)

		return err
	}

	return nil
}

func (m *memTxManager) NewUserRepository() repository.UserRepository       { return m.users }
func (m *memTxManager) NewProductRepository() repository.ProductRepository { return m.products }
func (m *memTxManager) NewOrderRepository() repository.OrderRepository     { return m.orders }

// plainHasher is a transparent stand-in for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (plainHasher) Check(password, hash string) bool     { return "hash:"+password == hash }

type staticTokenService struct{}

func (staticTokenService) GenerateToken(userID uuid.UUID) (string, error) {
	return "session-" + userID.String(), nil
}

func (staticTokenService) ValidateToken(tokenString string) (*service.SessionClaims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(tokenString, "session-"))
	if err != nil {
		return nil, service.ErrTokenMalformed
	}

	return &service.SessionClaims{UserID: id}, nil
}

func (staticTokenService) GetTokenDuration() time.Duration { return time.Hour }

type fakeVerifier struct {
	user *service.OAuthUser
	err  error
}

func (v *fakeVerifier) VerifyIDToken(context.Context, string) (*service.OAuthUser, error) {
	return v.user, v.err
}

type fakeExchanger struct {
	user *service.OAuthUser
	err  error
}

func (e *fakeExchanger) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (e *fakeExchanger) ExchangeCode(context.Context, string) (*service.OAuthUser, error) {
	return e.user, e.err
}

type memStateStore struct {
	mu      sync.Mutex
	counter int
	states  map[string]bool
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]bool)}
}

func (s *memStateStore) Issue() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	state := fmt.Sprintf("state-%d", s.counter)
	s.states[state] = true

	return state, nil
}

func (s *memStateStore) Redeem(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.states[state] {
		return false
	}
	delete(s.states, state)

	return true
}

// recordingPublisher collects published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []service.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event *service.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []service.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]service.OrderEvent(nil), p.events...)
}

// memStorage stores uploads in a map keyed by generated name.
type memStorage struct {
	mu      sync.Mutex
	counter int
	objects map[string]bool
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string]bool)}
}

func (s *memStorage) Store(_ context.Context, nameHint, _ string, _ io.Reader) (*service.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	key := fmt.Sprintf("uploads/%d-%s", s.counter, nameHint)
	s.objects[key] = true

	return &service.StoredFile{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	s.deleted = append(s.deleted, key)

	return nil
}
