package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []SessionRequest
	err      error
	delay    time.Duration
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return &SessionResult{GatewayURL: "https://pay.example.com/" + req.TransactionID, SessionKey: "sess"}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []PaymentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, job PaymentNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, job)
}

func (n *fakeNotifier) all() []PaymentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]PaymentNotification(nil), n.sent...)
}

type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	payments *PaymentService
	catalog  *CatalogService
	gateway  *fakeGateway
	notifier *fakeNotifier

	buyer   *models.User
	artisan *models.User
	brand   *models.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	log := zap.NewNop()

	userRepo := repositories.NewUserRepository(db)
	brandRepo := repositories.NewBrandRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	billRepo := repositories.NewBillRepository(db)
	stock := NewStockEngine(productRepo, orderItemRepo, log)

	f := &fixture{
		db:       db,
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
	}
	f.orders = NewOrderService(db, productRepo, orderRepo, orderItemRepo, billRepo, brandRepo, stock, "http://localhost:8000", log)
	f.payments = NewPaymentService(db, orderRepo, billRepo, userRepo, stock, f.gateway, f.notifier, PaymentConfig{
		BaseURL:  "http://localhost:8000",
		Currency: "BDT",
		Timeout:  time.Second,
	}, log)
	f.catalog = NewCatalogService(brandRepo, productRepo, log)

	f.buyer = dbtest.CreateUser(t, db, "buyer", models.RoleCustomer)
	f.artisan = dbtest.CreateUser(t, db, "maker", models.RoleArtisan)
	f.brand = dbtest.CreateBrand(t, db, f.artisan, "Clay")
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock *int) *models.Product {
	return dbtest.CreateProduct(t, f.db, f.brand, name, price, stock)
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) bill(t *testing.T, orderID uint) *models.Bill {
	t.Helper()
	var b models.Bill
	if err := f.db.Where("order_id = ?", orderID).First(&b).Error; err != nil {
		t.Fatalf("bill for order %d: %v", orderID, err)
	}
	return &b
}
