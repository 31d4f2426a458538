package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apphttp "github.com/BhargavEnigma/FreshVegApp-sub000/internal/http"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/accounts"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/checkout"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/picklist"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/settings"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/storage"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/testutil"
)

const (
	jwtSecret     = "test-jwt-secret"
	webhookSecret = "test-webhook-secret"
)

type env struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	userID string
	addrID string
	pack   catalog.ProductPack
}

func newEnv(t *testing.T, limiter *middleware.IPRateLimiter) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t,
		&settings.Setting{},
		&catalog.Warehouse{}, &catalog.Product{}, &catalog.ProductPack{},
		&accounts.User{}, &accounts.Address{},
		&orders.Order{}, &orders.OrderItem{}, &orders.OrderStatusEvent{},
		&payments.Payment{}, &payments.ProviderEvent{},
		&notifications.Notification{}, &jobs.JobRun{},
	)
	logger := logging.Discard()
	now := time.Now().UTC()

	e := &env{t: t, db: db, userID: uuid.NewString(), addrID: uuid.NewString()}
	require.NoError(t, db.Create(&catalog.Warehouse{ID: uuid.NewString(), Name: "Main", IsActive: true, CreatedAt: now}).Error)
	require.NoError(t, db.Create(&accounts.Address{ID: e.addrID, UserID: e.userID, Line1: "1 Main St", City: "Pune", Pincode: "411001", CreatedAt: now}).Error)
	product := catalog.Product{
		ID: uuid.NewString(), Name: "Tomato", Unit: "kg", BaseQuantity: decimal.NewFromInt(1),
		MRPPaise: 4000, SellingPricePaise: 3000, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&product).Error)
	e.pack = catalog.ProductPack{
		ID: uuid.NewString(), ProductID: product.ID, Label: "500 g", BaseUnit: "g", BaseQuantity: decimal.NewFromInt(500),
		MRPPaise: 2000, SellingPricePaise: 1500, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&e.pack).Error)

	enq := notifications.NewEnqueuer()
	lockJob := jobs.NewLockJob(db, jobs.NewLedger(db, time.Hour), enq, nil, logger)

	e.router = apphttp.NewRouter(apphttp.Deps{
		Logger:          logger,
		DB:              db,
		Catalog:         catalog.NewService(db, logger),
		Checkout:        checkout.NewService(db, settings.NewService(db, nil, logger), enq, nil, time.UTC, logger),
		Orders:          orders.NewService(db, enq, logger),
		Webhooks:        payments.NewWebhookService(db, enq, logger),
		LockJob:         lockJob,
		Picklist:        picklist.NewService(db, storage.NewLocal(t.TempDir(), "/exports"), logger),
		JWTSecret:       jwtSecret,
		WebhookSecret:   webhookSecret,
		RequestTimeout:  5 * time.Second,
		Location:        time.UTC,
		BatchSize:       10,
		CheckoutLimiter: limiter,
	})
	return e
}

func (e *env) token(userID, role string) string {
	tok, err := middleware.SignToken(jwtSecret, userID, role, time.Hour)
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (e *env) checkoutBody(method string) map[string]any {
	return map[string]any{
		"address_id":     e.addrID,
		"payment_method": method,
		"items": []map[string]any{
			{"product_id": e.pack.ProductID, "product_pack_id": e.pack.ID, "quantity": 10},
		},
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t, nil)
	w, body := e.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestAuth(t *testing.T) {
	e := newEnv(t, nil)

	w, body := e.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.NotEmpty(t, body["request_id"])

	w, _ = e.do(http.MethodGet, "/api/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = e.do(http.MethodGet, "/api/admin/orders", e.token(e.userID, accounts.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	expired, err := middleware.SignToken(jwtSecret, e.userID, accounts.RoleCustomer, -time.Minute)
	require.NoError(t, err)
	w, _ = e.do(http.MethodGet, "/api/orders", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutValidation(t *testing.T) {
	e := newEnv(t, nil)
	tok := e.token(e.userID, accounts.RoleCustomer)

	body := e.checkoutBody("card")
	w, out := e.do(http.MethodPost, "/api/checkout", tok, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", out["code"])
	fields, ok := out["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "payment_method")

	body = e.checkoutBody("upi")
	body["items"] = []map[string]any{{"product_id": e.pack.ProductID, "product_pack_id": e.pack.ID, "quantity": 0}}
	w, out = e.do(http.MethodPost, "/api/checkout", tok, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields, _ = out["fields"].(map[string]any)
	assert.Contains(t, fields, "items[0].quantity")
}

func TestCheckoutCancelFlow(t *testing.T) {
	e := newEnv(t, nil)
	tok := e.token(e.userID, accounts.RoleCustomer)

	w, out := e.do(http.MethodPost, "/api/checkout", tok, e.checkoutBody("cod"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "placed", out["status"])
	grand := out["grand_total"].(map[string]any)
	// 15000 + 2000 delivery, no GST by default
	assert.Equal(t, float64(17000), grand["paise"])
	assert.Equal(t, "₹170.00", grand["formatted"])
	orderID := out["id"].(string)

	w, out = e.do(http.MethodGet, "/api/orders", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), out["total"])

	// someone else's order is not visible
	w, out = e.do(http.MethodGet, "/api/orders/"+orderID, e.token(uuid.NewString(), accounts.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", out["code"])

	w, out = e.do(http.MethodPost, "/api/orders/"+orderID+"/cancel", tok, map[string]any{"reason": "changed my mind"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", out["status"])
	assert.Equal(t, "changed my mind", out["cancellation_reason"])
}

func TestOpsStatusAndLockJob(t *testing.T) {
	e := newEnv(t, nil)
	cust := e.token(e.userID, accounts.RoleCustomer)
	ops := e.token(uuid.NewString(), accounts.RoleOps)

	w, out := e.do(http.MethodPost, "/api/checkout", cust, e.checkoutBody("cod"))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := out["id"].(string)
	date := out["delivery_date"].(string)

	w, out = e.do(http.MethodPost, "/api/admin/orders/"+orderID+"/status", ops, map[string]any{"status": "locked"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "LOCK_RESERVED_FOR_SCHEDULER", out["code"])

	w, out = e.do(http.MethodPost, "/api/admin/orders/"+orderID+"/status", ops, map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", out["code"])

	w, out = e.do(http.MethodPost, "/api/admin/jobs/lock-orders", ops, map[string]any{"date": date})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, date, out["delivery_date"])
	assert.Equal(t, false, out["replayed"])

	w, out = e.do(http.MethodPost, "/api/admin/jobs/lock-orders", ops, map[string]any{"date": date})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["replayed"])

	w, out = e.do(http.MethodPost, "/api/admin/jobs/lock-orders", ops, map[string]any{"date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE", out["code"])

	w, out = e.do(http.MethodPost, "/api/admin/orders/"+orderID+"/status", ops, map[string]any{"status": "accepted", "note": "picked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "accepted", out["status"])

	w, out = e.do(http.MethodGet, "/api/admin/orders/"+orderID, ops, nil)
	require.Equal(t, http.StatusOK, w.Code)
	evs := out["events"].([]any)
	assert.Len(t, evs, 2)
	assert.NotNil(t, out["payment"])
}

func TestPaymentWebhook(t *testing.T) {
	e := newEnv(t, nil)
	cust := e.token(e.userID, accounts.RoleCustomer)

	w, out := e.do(http.MethodPost, "/api/checkout", cust, e.checkoutBody("upi"))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := out["id"].(string)
	grand := out["grand_total"].(map[string]any)["paise"].(float64)

	raw, err := json.Marshal(payments.WebhookEvent{
		Provider: "upi", ProviderPaymentID: "pay_1", OrderID: orderID,
		Status: "paid", AmountPaise: int64(grand), Method: "upi",
	})
	require.NoError(t, err)

	send := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(raw))
		req.Header.Set(payments.SignatureHeader, sig)
		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, req)
		return w
	}

	w = send("deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sig := payments.Sign([]byte(webhookSecret), raw)
	w = send(sig)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var o orders.Order
	require.NoError(t, e.db.First(&o, "id = ?", orderID).Error)
	assert.Equal(t, orders.StatusPlaced, o.Status)
	assert.Equal(t, orders.PaymentPaid, o.PaymentStatus)

	w = send("sha256=" + sig)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
}

func TestCheckoutRateLimit(t *testing.T) {
	e := newEnv(t, middleware.NewIPRateLimiter(0, 1))
	tok := e.token(e.userID, accounts.RoleCustomer)

	w, _ := e.do(http.MethodPost, "/api/checkout", tok, e.checkoutBody("cod"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, out := e.do(http.MethodPost, "/api/checkout", tok, e.checkoutBody("cod"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", out["code"])
}

func TestDispatchAndPicklist(t *testing.T) {
	e := newEnv(t, nil)
	ops := e.token(uuid.NewString(), accounts.RoleAdmin)

	w, _ := e.do(http.MethodPost, "/api/admin/notifications/dispatch?limit=5", ops, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out := e.do(http.MethodGet, "/api/admin/deliveries/2024-06-02/picklist.xlsx", ops, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PICKLIST_NOT_FOUND", out["code"])

	w, _ = e.do(http.MethodGet, "/api/admin/deliveries/2024-06-02/picklist.xlsx?refresh=1", ops, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, picklist.ContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestAdminPackPrices(t *testing.T) {
	e := newEnv(t, nil)
	ops := e.token(uuid.NewString(), accounts.RoleOps)

	w, out := e.do(http.MethodPost, "/api/admin/products/"+e.pack.ProductID+"/sync-prices", ops, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := out["items"].([]any)
	require.Len(t, items, 1)
	// 500 g of a ₹30/kg product
	price := items[0].(map[string]any)["selling_price"].(map[string]any)
	assert.Equal(t, float64(1500), price["paise"])

	w, out = e.do(http.MethodGet, "/api/admin/products/"+e.pack.ProductID+"/packs", ops, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["items"], 1)

	w, out = e.do(http.MethodPost, "/api/admin/products/missing/sync-prices", ops, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", out["code"])

	w, _ = e.do(http.MethodPost, "/api/admin/products/"+e.pack.ProductID+"/sync-prices", e.token(e.userID, accounts.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
