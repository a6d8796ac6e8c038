package service

import (
	"errors"
	"testing"
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/models"
)

func TestCreateOrderComputesTotalsAndReservesStock(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	influencer := createTestUser(t, constants.RoleInfluencer)

	earphone := createTestProduct(t, merchant.ID, func(p *models.Product) {
		p.Title = "无线蓝牙耳机"
		p.Price = money("99.90")
		p.CommissionRate = money("12")
		p.StockQuantity = 10
	})
	powerbank := createTestProduct(t, merchant.ID, func(p *models.Product) {
		p.Title = "便携充电宝"
		p.Price = money("79.00")
		p.CommissionRate = money("10")
		p.StockQuantity = 5
	})

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID:    buyer.ID,
		ReferrerID: &influencer.ID,
		Items: []CreateOrderItem{
			{ProductID: earphone.ID, Quantity: 2},
			{ProductID: powerbank.ID, Quantity: 1},
		},
		ShippingFee:    money("8"),
		DiscountAmount: money("10"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 99.90*2 + 79.00 = 278.80
	if !order.TotalAmount.Decimal.Equal(money("278.80").Decimal) {
		t.Fatalf("total = %s, want 278.80", order.TotalAmount.Decimal)
	}
	// 278.80 + 8 - 10 = 276.80
	if !order.FinalAmount.Decimal.Equal(money("276.80").Decimal) {
		t.Fatalf("final = %s, want 276.80", order.FinalAmount.Decimal)
	}
	// 199.80*12% + 79.00*10% = 23.976 + 7.9 = 31.876
	if !order.CommissionTotal.Decimal.Equal(money("31.876").Decimal) {
		t.Fatalf("commission = %s, want 31.876", order.CommissionTotal.Decimal)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status = %q, want pending", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}

	if got := reloadProduct(t, earphone.ID).StockQuantity; got != 8 {
		t.Fatalf("earphone stock = %d, want 8", got)
	}
	if got := reloadProduct(t, powerbank.ID).StockQuantity; got != 4 {
		t.Fatalf("powerbank stock = %d, want 4", got)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchantA := createTestUser(t, constants.RoleMerchant)
	merchantB := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)

	inactive := createTestProduct(t, merchantA.ID, func(p *models.Product) { p.IsActive = false })
	lowStock := createTestProduct(t, merchantA.ID, func(p *models.Product) { p.StockQuantity = 2 })
	bulkOnly := createTestProduct(t, merchantA.ID, func(p *models.Product) { p.MinOrderQuantity = 3 })
	capped := createTestProduct(t, merchantA.ID, func(p *models.Product) { p.MaxOrderQuantity = 2 })
	normalA := createTestProduct(t, merchantA.ID, nil)
	normalB := createTestProduct(t, merchantB.ID, nil)

	cases := []struct {
		name    string
		items   []CreateOrderItem
		wantErr error
	}{
		{"unknown_product", []CreateOrderItem{{ProductID: 99999, Quantity: 1}}, ErrProductNotFound},
		{"inactive_product", []CreateOrderItem{{ProductID: inactive.ID, Quantity: 1}}, ErrProductInactive},
		{"insufficient_stock", []CreateOrderItem{{ProductID: lowStock.ID, Quantity: 3}}, ErrInsufficientStock},
		{"below_minimum", []CreateOrderItem{{ProductID: bulkOnly.ID, Quantity: 2}}, ErrBelowMinimumOrder},
		{"above_maximum", []CreateOrderItem{{ProductID: capped.ID, Quantity: 3}}, ErrAboveMaximumOrder},
		{"zero_quantity", []CreateOrderItem{{ProductID: normalA.ID, Quantity: 0}}, ErrInvalidOrderItem},
		{"empty_items", nil, ErrInvalidOrderItem},
		{"mixed_merchants", []CreateOrderItem{
			{ProductID: normalA.ID, Quantity: 1},
			{ProductID: normalB.ID, Quantity: 1},
		}, ErrInvalidOrderItem},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(CreateOrderInput{BuyerID: buyer.ID, Items: tc.items})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// 校验失败的订单不扣库存
	if got := reloadProduct(t, lowStock.ID).StockQuantity; got != 2 {
		t.Fatalf("lowStock stock = %d, want 2", got)
	}
}

func TestCreateOrderDiscountFloorsAtZero(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	product := createTestProduct(t, merchant.ID, func(p *models.Product) { p.Price = money("10") })

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID:        buyer.ID,
		Items:          []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
		DiscountAmount: money("50"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.FinalAmount.Decimal.IsZero() {
		t.Fatalf("final = %s, want 0", order.FinalAmount.Decimal)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	stranger := createTestUser(t, constants.RoleUser)
	product := createTestProduct(t, merchant.ID, nil)

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID: buyer.ID,
		Items:   []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// pending 不能直接发货
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusShipped, merchant.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending->shipped error = %v, want ErrInvalidStatus", err)
	}
	// 旁观者无权操作
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusConfirmed, stranger.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger error = %v, want ErrForbidden", err)
	}

	confirmed, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusConfirmed, merchant.ID, "")
	if err != nil {
		t.Fatalf("pending->confirmed failed: %v", err)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatal("confirmed_at not stamped")
	}

	shipped, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusShipped, merchant.ID, "")
	if err != nil {
		t.Fatalf("confirmed->shipped failed: %v", err)
	}
	if shipped.ShippedAt == nil {
		t.Fatal("shipped_at not stamped")
	}

	delivered, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusDelivered, buyer.ID, "")
	if err != nil {
		t.Fatalf("shipped->delivered failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivered_at not stamped")
	}

	// 已送达为终态
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, buyer.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("delivered->cancelled error = %v, want ErrInvalidStatus", err)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)

	productA := createTestProduct(t, merchant.ID, func(p *models.Product) { p.StockQuantity = 10 })
	productB := createTestProduct(t, merchant.ID, func(p *models.Product) { p.StockQuantity = 20 })

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID: buyer.ID,
		Items: []CreateOrderItem{
			{ProductID: productA.ID, Quantity: 3},
			{ProductID: productB.ID, Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if got := reloadProduct(t, productA.ID).StockQuantity; got != 7 {
		t.Fatalf("productA stock after create = %d, want 7", got)
	}

	cancelled, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled, buyer.ID, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("cancelled_at not stamped")
	}
	if got := reloadProduct(t, productA.ID).StockQuantity; got != 10 {
		t.Fatalf("productA stock after cancel = %d, want 10", got)
	}
	if got := reloadProduct(t, productB.ID).StockQuantity; got != 20 {
		t.Fatalf("productB stock after cancel = %d, want 20", got)
	}
}

func TestCancelUnpaidOrder(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	product := createTestProduct(t, merchant.ID, func(p *models.Product) { p.StockQuantity = 10 })

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID: buyer.ID,
		Items:   []CreateOrderItem{{ProductID: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.CancelUnpaidOrder(order.ID); err != nil {
		t.Fatalf("cancel unpaid failed: %v", err)
	}
	got, err := svc.GetOrder(order.ID, buyer.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
	if got.PaymentStatus != constants.PaymentStatusCancelled {
		t.Fatalf("payment status = %q, want cancelled", got.PaymentStatus)
	}
	if stock := reloadProduct(t, product.ID).StockQuantity; stock != 10 {
		t.Fatalf("stock after timeout cancel = %d, want 10", stock)
	}
}

func TestCancelUnpaidOrderSkipsPaidOrder(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	product := createTestProduct(t, merchant.ID, func(p *models.Product) { p.StockQuantity = 10 })

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID: buyer.ID,
		Items:   []CreateOrderItem{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := svc.MarkOrderPaid(order.ID, time.Now()); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	if err := svc.CancelUnpaidOrder(order.ID); err != nil {
		t.Fatalf("cancel unpaid failed: %v", err)
	}
	got, err := svc.GetOrder(order.ID, buyer.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusPending {
		t.Fatalf("paid order status = %q, want pending", got.Status)
	}
	if stock := reloadProduct(t, product.ID).StockQuantity; stock != 8 {
		t.Fatalf("stock = %d, want 8", stock)
	}
}

func TestMarkOrderPaidIsIdempotent(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	product := createTestProduct(t, merchant.ID, nil)

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID: buyer.ID,
		Items:   []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paidAt := time.Now().Add(-time.Minute)
	if err := svc.MarkOrderPaid(order.ID, paidAt); err != nil {
		t.Fatalf("first mark paid failed: %v", err)
	}
	if err := svc.MarkOrderPaid(order.ID, time.Now()); err != nil {
		t.Fatalf("second mark paid failed: %v", err)
	}

	got, err := svc.GetOrder(order.ID, buyer.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.PaymentStatus != constants.PaymentStatusSuccess {
		t.Fatalf("payment status = %q, want success", got.PaymentStatus)
	}
	if got.PaidAt == nil || got.PaidAt.Sub(paidAt).Abs() > time.Second {
		t.Fatalf("paid_at = %v, want ~%v", got.PaidAt, paidAt)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestOrderService()
	merchant := createTestUser(t, constants.RoleMerchant)
	buyer := createTestUser(t, constants.RoleUser)
	referrer := createTestUser(t, constants.RoleInfluencer)
	stranger := createTestUser(t, constants.RoleUser)
	admin := createTestUser(t, constants.RoleAdmin)
	product := createTestProduct(t, merchant.ID, nil)

	order, err := svc.CreateOrder(CreateOrderInput{
		BuyerID:    buyer.ID,
		ReferrerID: &referrer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	for _, viewer := range []uint{buyer.ID, merchant.ID, referrer.ID, admin.ID} {
		if _, err := svc.GetOrder(order.ID, viewer); err != nil {
			t.Fatalf("viewer %d failed: %v", viewer, err)
		}
	}
	if _, err := svc.GetOrder(order.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger error = %v, want ErrForbidden", err)
	}
}
