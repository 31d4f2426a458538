package checkout

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/accounts"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/events"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/pricing"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/database"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/dates"
)

const (
	maxLines       = 50
	maxLineQty     = 99
	txRetryAttempt = 3
)

type TotalsSource interface {
	Totals(ctx context.Context) (pricing.TotalsConfig, error)
}

type Service struct {
	db        *gorm.DB
	totals    TotalsSource
	notifier  orders.Notifier
	publisher events.Publisher
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, totals TotalsSource, notifier orders.Notifier, publisher events.Publisher, loc *time.Location, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notifications.NewEnqueuer()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:        db,
		totals:    totals,
		notifier:  notifier,
		publisher: publisher,
		loc:       loc,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type ItemInput struct {
	ProductID     string
	ProductPackID string
	Quantity      int
}

type PlaceOrderInput struct {
	UserID         string
	AddressID      string
	DeliverySlotID string
	Items          []ItemInput
	PaymentMethod  string
}

type PlaceOrderResult struct {
	Order   orders.Order
	Items   []orders.OrderItem
	Payment payments.Payment
}

// normalize validates the request shape and merges repeated packs.
func normalize(in PlaceOrderInput) ([]ItemInput, string, error) {
	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method != orders.MethodCOD && method != orders.MethodUPI {
		return nil, "", ErrInvalidPaymentMethod
	}
	if strings.TrimSpace(in.AddressID) == "" {
		return nil, "", ErrAddressRequired
	}
	if len(in.Items) == 0 {
		return nil, "", ErrInvalidItems.WithMessage("Cart is empty.")
	}

	merged := map[string]*ItemInput{}
	var order []string
	for i, it := range in.Items {
		packID := strings.TrimSpace(it.ProductPackID)
		productID := strings.TrimSpace(it.ProductID)
		if packID == "" || productID == "" {
			return nil, "", ErrInvalidItems.WithFields(map[string]string{"item": itoa(i), "reason": "product_id and product_pack_id are required"})
		}
		if it.Quantity < 1 {
			return nil, "", ErrInvalidItems.WithFields(map[string]string{"item": itoa(i), "reason": "quantity must be at least 1"})
		}
		if m, ok := merged[packID]; ok {
			if m.ProductID != productID {
				return nil, "", lineErr(ErrPackProductMismatch, packID)
			}
			m.Quantity += it.Quantity
			continue
		}
		merged[packID] = &ItemInput{ProductID: productID, ProductPackID: packID, Quantity: it.Quantity}
		order = append(order, packID)
	}
	if len(order) > maxLines {
		return nil, "", ErrInvalidItems.WithMessage("Too many items in cart.")
	}

	out := make([]ItemInput, 0, len(order))
	for _, id := range order {
		if merged[id].Quantity > maxLineQty {
			return nil, "", ErrInvalidItems.WithFields(map[string]string{"product_pack_id": id, "reason": "quantity too large"})
		}
		out = append(out, *merged[id])
	}
	return out, method, nil
}

// PlaceOrder prices the cart and persists the whole order graph in one
// transaction: order, items, payment, first status event and the
// order_placed notification. Nothing is visible unless all of it commits.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderResult, error) {
	items, method, err := normalize(in)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	// read before the transaction; the settings store is not part of it
	cfg, err := s.totals.Totals(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout totals config unavailable", "err", err)
		return PlaceOrderResult{}, err
	}

	var res PlaceOrderResult
	err = database.WithTxRetry(ctx, s.db, txRetryAttempt, func(tx *gorm.DB) error {
		wh, err := catalog.ActiveWarehouse(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := accounts.AddressOf(ctx, tx, in.UserID, in.AddressID); err != nil {
			return err
		}

		now := s.now()
		deliveryDate := dates.Tomorrow(now, s.loc)

		packIDs := make([]string, len(items))
		for i, it := range items {
			packIDs[i] = it.ProductPackID
		}
		packs, err := catalog.LockPacks(ctx, tx, packIDs)
		if err != nil {
			return err
		}

		productIDs := make([]string, 0, len(packs))
		for _, p := range packs {
			productIDs = append(productIDs, p.ProductID)
		}
		sort.Strings(productIDs)
		products, err := catalog.LockProducts(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		orderID := uuid.NewString()
		lines := make([]orders.OrderItem, 0, len(items))
		var subtotal int64
		for _, it := range items {
			pack, ok := packs[it.ProductPackID]
			if !ok {
				return lineErr(ErrPackNotFound, it.ProductPackID)
			}
			if pack.ProductID != it.ProductID {
				return lineErr(ErrPackProductMismatch, it.ProductPackID)
			}
			product, ok := products[pack.ProductID]
			if !ok || !product.IsActive || !pack.IsActive {
				return lineErr(ErrProductInactive, it.ProductPackID)
			}
			if product.IsOutOfStock || pack.IsOutOfStock {
				return lineErr(ErrOutOfStock, it.ProductPackID)
			}

			lineTotal := int64(it.Quantity) * pack.SellingPricePaise
			subtotal += lineTotal
			lines = append(lines, orders.OrderItem{
				ID:             uuid.NewString(),
				OrderID:        orderID,
				ProductID:      product.ID,
				ProductPackID:  pack.ID,
				ProductName:    product.Name,
				PackLabel:      pack.Label,
				Unit:           pack.BaseUnit,
				Quantity:       decimal.NewFromInt(int64(it.Quantity)),
				UnitPricePaise: pack.SellingPricePaise,
				LineTotalPaise: lineTotal,
				CreatedAt:      now,
			})
		}

		totals, err := pricing.ComputeTotals(subtotal, cfg)
		if err != nil {
			return err
		}

		status := orders.StatusPaymentPending
		if method == orders.MethodCOD {
			// cash is collected on delivery; payment stays pending until then
			status = orders.StatusPlaced
		}

		o := orders.Order{
			ID:               orderID,
			OrderNumber:      orders.NewOrderNumber(now, s.loc),
			UserID:           in.UserID,
			AddressID:        in.AddressID,
			WarehouseID:      wh.ID,
			DeliveryDate:     deliveryDate,
			SubtotalPaise:    totals.SubtotalPaise,
			DeliveryFeePaise: totals.DeliveryFeePaise,
			GSTRateBps:       totals.GSTRateBps,
			GSTAmountPaise:   totals.GSTAmountPaise,
			GrandTotalPaise:  totals.GrandTotalPaise,
			TotalPaise:       totals.GrandTotalPaise,
			Status:           status,
			PaymentStatus:    orders.PaymentPending,
			PaymentMethod:    method,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if slot := strings.TrimSpace(in.DeliverySlotID); slot != "" {
			o.DeliverySlotID = &slot
		}
		if err := tx.WithContext(ctx).Create(&o).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}

		p := payments.Payment{
			ID:              uuid.NewString(),
			OrderID:         o.ID,
			Method:          method,
			Status:          payments.StatusPending,
			AmountPaise:     o.GrandTotalPaise,
			Provider:        method,
			ProviderPayload: []byte("{}"),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}

		actor := in.UserID
		if err := orders.RecordCreated(ctx, tx, &o, &actor, "checkout"); err != nil {
			return err
		}
		if err := s.notifier.Notify(ctx, tx, o.UserID, notifications.TemplateOrderPlaced, orders.NotifyPayload(o)); err != nil {
			return err
		}

		res = PlaceOrderResult{Order: o, Items: lines, Payment: p}
		return nil
	})
	if err != nil {
		return PlaceOrderResult{}, err
	}

	s.logger.InfoContext(ctx, "order placed",
		"order_id", res.Order.ID,
		"order_number", res.Order.OrderNumber,
		"status", res.Order.Status,
		"grand_total_paise", res.Order.GrandTotalPaise,
	)
	events.PublishBestEffort(ctx, s.publisher, s.logger, events.KeyOrderPlaced, events.OrderPlaced{
		OrderID:         res.Order.ID,
		OrderNumber:     res.Order.OrderNumber,
		UserID:          res.Order.UserID,
		DeliveryDate:    res.Order.DeliveryDate,
		Status:          string(res.Order.Status),
		PaymentMethod:   res.Order.PaymentMethod,
		GrandTotalPaise: res.Order.GrandTotalPaise,
	})
	return res, nil
}

func itoa(i int) string {
	return decimal.NewFromInt(int64(i)).String()
}
