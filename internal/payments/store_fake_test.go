package payments_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentora/checkout/internal/catalog"
	"github.com/mentora/checkout/internal/customers"
	"github.com/mentora/checkout/internal/entitlements"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/orders"
	"github.com/mentora/checkout/internal/payments"
)

// memState is the whole fake database; WithTx snapshots it and restores on error.
type memState struct {
	seq       int64
	customers map[int64]models.Customer
	orders    map[int64]models.Order
	payments  map[int64]models.Payment
	prices    map[string]int64
	students  map[string]int
	owned     map[string]models.UserProduct
}

func (s memState) clone() memState {
	c := memState{
		seq:       s.seq,
		customers: make(map[int64]models.Customer, len(s.customers)),
		orders:    make(map[int64]models.Order, len(s.orders)),
		payments:  make(map[int64]models.Payment, len(s.payments)),
		prices:    make(map[string]int64, len(s.prices)),
		students:  make(map[string]int, len(s.students)),
		owned:     make(map[string]models.UserProduct, len(s.owned)),
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.owned {
		c.owned[k] = v
	}
	return c
}

// memStore is an in-memory payments.Store. Transactions are serialised, which stands in
// for the row and advisory locks of the real store.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   memState
}

func newMemStore() *memStore {
	return &memStore{st: memState{}.clone()}
}

func productKey(productType string, productID int64) string {
	return fmt.Sprintf("%s:%d", productType, productID)
}

func ownerKey(userID uuid.UUID, productType string, productID int64) string {
	return userID.String() + ":" + productKey(productType, productID)
}

func (s *memStore) setPrice(productType string, productID, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.prices[productKey(productType, productID)] = price
}

func (s *memStore) grantDirect(userID uuid.UUID, productType string, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.owned[ownerKey(userID, productType, productID)] = models.UserProduct{UserID: userID, ProductType: productType, ProductID: productID}
}

// seedPurchase stores a PENDENTE purchase and returns its payment.
func (s *memStore) seedPurchase(userID uuid.UUID, productType string, productID int64, gatewayID, reference string) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.seq++
	c := models.Customer{ID: s.st.seq, UserID: userID, FirstName: "Ana", Email: "ana@example.com"}
	s.st.customers[c.ID] = c
	s.st.seq++
	o := models.Order{ID: s.st.seq, CustomerID: c.ID, ProductType: productType, ProductID: productID, Price: 5000, PaymentType: models.MethodPix, Installments: 1}
	s.st.orders[o.ID] = o
	s.st.seq++
	p := models.Payment{ID: s.st.seq, Status: models.PaymentStatusPending, CustomerID: c.ID, OrderID: o.ID, GatewayID: gatewayID, GatewayReference: reference, PaymentType: models.MethodPix}
	s.st.payments[p.ID] = p
	return p
}

func (s *memStore) payment(id int64) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.payments[id]
}

func (s *memStore) counts() (customers, orders, payments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.customers), len(s.st.orders), len(s.st.payments)
}

func (s *memStore) entitlementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.owned)
}

func (s *memStore) studentCount(productType string, productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.students[productKey(productType, productID)]
}

func (s *memStore) onlyPayment() models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.st.payments {
		return p
	}
	return models.Payment{}
}

func (s *memStore) Repos() payments.Repos {
	return payments.Repos{
		Customers:    memCustomers{s},
		Orders:       memOrders{s},
		Payments:     memPayments{s},
		Catalog:      memCatalog{s},
		Entitlements: memEntitlements{s},
	}
}

func (s *memStore) WithTx(ctx context.Context, fn func(payments.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) next() int64 {
	s.st.seq++
	return s.st.seq
}

type memCustomers struct{ s *memStore }

func (r memCustomers) Create(_ context.Context, c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.next()
	c.CreatedAt = time.Now()
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r memCustomers) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	return &c, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.Price <= 0 {
		return errors.New(`orders: violates check constraint "orders_price_check"`)
	}
	o.ID = r.s.next()
	o.CreatedAt = time.Now()
	r.s.st.orders[o.ID] = *o
	return nil
}

func (r memOrders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.payments {
		if existing.GatewayID == p.GatewayID && existing.GatewayReference == p.GatewayReference {
			return errors.New("duplicate gateway reference")
		}
	}
	p.ID = r.s.next()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.st.payments[p.ID] = *p
	return nil
}

func (r memPayments) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[id]
	if !ok {
		return nil, payments.ErrPaymentNotFound
	}
	return &p, nil
}

func (r memPayments) LockByReference(_ context.Context, gatewayID, reference string) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.payments {
		if p.GatewayID == gatewayID && p.GatewayReference == reference {
			return &p, nil
		}
	}
	return nil, payments.ErrPaymentNotFound
}

func (r memPayments) UpdateStatus(_ context.Context, id int64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[id]
	if !ok {
		return payments.ErrPaymentNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.s.st.payments[id] = p
	return nil
}

type memCatalog struct{ s *memStore }

func (r memCatalog) Price(_ context.Context, productType string, productID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	price, ok := r.s.st.prices[productKey(productType, productID)]
	if !ok {
		return 0, catalog.ErrProductNotFound
	}
	return price, nil
}

func (r memCatalog) AdjustStudents(_ context.Context, productType string, productID int64, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := productKey(productType, productID)
	n := r.s.st.students[k] + delta
	if n < 0 {
		n = 0
	}
	r.s.st.students[k] = n
	return nil
}

type memEntitlements struct{ s *memStore }

func (r memEntitlements) Grant(_ context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (*models.UserProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := ownerKey(userID, productType, productID)
	if _, ok := r.s.st.owned[k]; ok {
		return nil, entitlements.ErrDuplicateEntitlement
	}
	up := models.UserProduct{ID: r.s.next(), UserID: userID, ProductType: productType, ProductID: productID, PaymentID: &paymentID}
	r.s.st.owned[k] = up
	return &up, nil
}

func (r memEntitlements) Revoke(_ context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := ownerKey(userID, productType, productID)
	up, ok := r.s.st.owned[k]
	if !ok || up.PaymentID == nil || *up.PaymentID != paymentID {
		return false, nil
	}
	delete(r.s.st.owned, k)
	return true, nil
}

func (r memEntitlements) Owns(_ context.Context, userID uuid.UUID, productType string, productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.owned[ownerKey(userID, productType, productID)]
	return ok, nil
}

func (r memEntitlements) Lock(context.Context, uuid.UUID, string, int64) error { return nil }
