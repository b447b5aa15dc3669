//go:build !integration

package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/adapter"
	"elearn-order-service/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Repositories
// =============================

// ---- Mock OrderRepo ----

type MockOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order // by order ID

	SaveFunc                 func(ctx context.Context, tx repository.Tx, o *model.Order) error
	FindByIDFunc             func(ctx context.Context, tx repository.Tx, id string) (*model.Order, error)
	MarkPaidIfPendingFunc    func(ctx context.Context, tx repository.Tx, id, refID string, paidAt time.Time) (bool, error)
	RecordVerificationRefErr error
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) FindByGatewayOrderID(ctx context.Context, tx repository.Tx, gatewayOrderID string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.store {
		if o.GatewayOrderID == gatewayOrderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrderRepo) MarkPaidIfPending(ctx context.Context, tx repository.Tx, id, refID string, paidAt time.Time) (bool, error) {
	if m.MarkPaidIfPendingFunc != nil {
		return m.MarkPaidIfPendingFunc(ctx, tx, id, refID, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok || o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = model.OrderStatusPaid
	o.VerificationRef = refID
	p := paidAt
	o.PaidAt = &p
	o.UpdatedAt = paidAt
	return true, nil
}

func (m *MockOrderRepo) RecordVerificationRef(ctx context.Context, tx repository.Tx, id, refID string) error {
	if m.RecordVerificationRefErr != nil {
		return m.RecordVerificationRefErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.VerificationRef = refID
	return nil
}

func (m *MockOrderRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(olderThan) {
			cp := *o
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ---- Mock CourseRepo ----

type MockCourseRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Course

	SaveFunc     func(ctx context.Context, tx repository.Tx, c *model.Course) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error)
}

var _ repository.CourseRepository = (*MockCourseRepo)(nil)

func NewMockCourseRepo() *MockCourseRepo {
	return &MockCourseRepo{store: make(map[string]*model.Course)}
}

func (m *MockCourseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MockCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCourseRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Course, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCourseRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ---- Mock UserRepo ----

type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User

	SaveFunc func(ctx context.Context, tx repository.Tx, u *model.User) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- Mock TxManager ----

// MockTxManager runs the callback directly with a nil handle; the mock
// repositories accept nil the same way the real ones do.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	PaymentURLFunc        func(o *model.Order) (string, error)
	VerifyTransactionFunc func(ctx context.Context, refID, gatewayOrderID, amount string) (bool, error)

	VerifyCalls int
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) PaymentURL(o *model.Order) (string, error) {
	if m.PaymentURLFunc != nil {
		return m.PaymentURLFunc(o)
	}
	return "https://gateway.test/pay?pid=" + o.GatewayOrderID, nil
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, refID, gatewayOrderID, amount string) (bool, error) {
	m.mu.Lock()
	m.VerifyCalls++
	m.mu.Unlock()
	if m.VerifyTransactionFunc != nil {
		return m.VerifyTransactionFunc(ctx, refID, gatewayOrderID, amount)
	}
	return true, nil
}

// ---- Mock EventPublisher ----

type publishedEvent struct {
	Key     string
	Payload any
}

type MockEventPublisher struct {
	mu        sync.Mutex
	Published []publishedEvent

	PublishFunc func(ctx context.Context, routingKey string, payload any) error
}

var _ adapter.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, routingKey, payload)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, publishedEvent{Key: routingKey, Payload: payload})
	return nil
}

func (m *MockEventPublisher) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Published))
	for _, e := range m.Published {
		out = append(out, e.Key)
	}
	return out
}

func (m *MockEventPublisher) Close() error { return nil }

// ---- Mock BlobStore ----

type MockBlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte

	PutFunc func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

var _ adapter.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, r, size, contentType)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = buf.Bytes()
	return nil
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}
