package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/translab/translab-api/internal/application/service"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/pagination"
	"go.uber.org/zap"
)

// stubOrderRepo serves a single order to the payment service and counts
// how many ledger transactions actually ran.
type stubOrderRepo struct {
	order       *entity.Order
	ledgerCalls int
}

func (r *stubOrderRepo) Create(ctx context.Context, order *entity.Order) error { return nil }

func (r *stubOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if r.order != nil && r.order.ID == id {
		return r.order, nil
	}
	return nil, nil
}

func (r *stubOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return nil, 0, nil
}

func (r *stubOrderRepo) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	return nil, 0, nil
}

func (r *stubOrderRepo) Ledger(ctx context.Context, orderID uuid.UUID, fn func(tx repository.LedgerTx) error) error {
	r.ledgerCalls++
	if r.order == nil || r.order.ID != orderID {
		return apperror.NewNotFoundError("Order")
	}
	return fn(&stubLedgerTx{order: r.order})
}

type stubLedgerTx struct {
	order *entity.Order
}

func (tx *stubLedgerTx) Order() *entity.Order { return tx.order }

func (tx *stubLedgerTx) UpdateOrder(fields map[string]interface{}) error { return nil }

func (tx *stubLedgerTx) ClaimReceipt(receiptID uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error) {
	return true, nil
}

func (tx *stubLedgerTx) CreateAuditLog(log *entity.AuditLog) error { return nil }

func (tx *stubLedgerTx) AppendEvent(ev *entity.OutboxEvent) error { return nil }

func underpaidOrder() *entity.Order {
	return &entity.Order{
		ID:         uuid.New(),
		BranchID:   uuid.New(),
		TotalPrice: 10000,
		Received:   4000,
		Status:     enum.OrderStatusPaymentReceived,
	}
}

func newPaymentRouter(role string, repo *stubOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(service.NewPaymentService(repo, zap.NewNop().Sugar()))

	router := gin.New()
	router.POST("/orders/:id/payments", func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Set("user_role", role)
	}, h.RecordPayment)
	return router
}

func postPayment(router *gin.Engine, orderID uuid.UUID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRecordPayment_ForceAcceptRequiresOwner(t *testing.T) {
	for _, role := range []string{entity.RoleStaff, entity.RoleAdmin} {
		repo := &stubOrderRepo{order: underpaidOrder()}
		router := newPaymentRouter(role, repo)

		w := postPayment(router, repo.order.ID, `{"accept_fully":true,"force_accept":true}`)

		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
		assert.Equal(t, 0, repo.ledgerCalls, "role %s", role)
		assert.False(t, repo.order.PaymentAcceptedFully, "role %s", role)
	}
}

func TestRecordPayment_ForceAcceptAsOwner(t *testing.T) {
	repo := &stubOrderRepo{order: underpaidOrder()}
	router := newPaymentRouter(entity.RoleOwner, repo)

	w := postPayment(router, repo.order.ID, `{"accept_fully":true,"force_accept":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.ledgerCalls)
	assert.True(t, repo.order.PaymentAcceptedFully)
	assert.Equal(t, enum.OrderStatusPaymentConfirmed, repo.order.Status)
}

func TestRecordPayment_PlainPaymentNeedsNoOwnerRole(t *testing.T) {
	repo := &stubOrderRepo{order: underpaidOrder()}
	router := newPaymentRouter(entity.RoleStaff, repo)

	w := postPayment(router, repo.order.ID, `{"amount":"20.00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.ledgerCalls)
	assert.Equal(t, int64(6000), repo.order.Received)
}
