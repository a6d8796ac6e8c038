package api

import (
	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type createOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	ReferrerID      *uint                    `json:"referrer_id"`
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress models.JSON              `json:"shipping_address"`
	ShippingFee     models.Money             `json:"shipping_fee"`
	DiscountAmount  models.Money             `json:"discount_amount"`
	BuyerNotes      string                   `json:"buyer_notes"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		BuyerID:         userID,
		ReferrerID:      req.ReferrerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		ShippingFee:     req.ShippingFee,
		DiscountAmount:  req.DiscountAmount,
		BuyerNotes:      req.BuyerNotes,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 查询订单详情（买家、商家、推荐人或管理员）
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(orderID, userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 查询订单列表。
// 非管理员按角色收敛到自身视角：商家看自家订单，其余看自己购买的订单。
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationFromQuery(c)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
		Keyword:  c.Query("keyword"),
	}
	switch {
	case isAdmin(c):
		filter.BuyerID = parseQueryUint(c, "buyer_id")
		filter.MerchantID = parseQueryUint(c, "merchant_id")
		filter.ReferrerID = parseQueryUint(c, "referrer_id")
	case getUserRole(c) == constants.RoleMerchant:
		filter.MerchantID = userID
	case c.Query("as_referrer") == "true":
		filter.ReferrerID = userID
	default:
		filter.BuyerID = userID
	}

	list, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.SuccessWithPage(c, list, buildPagination(page, pageSize, total))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(orderID, req.Status, userID, req.Notes)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderStatistics 订单状态统计（按角色收敛视角）
func (h *Handler) OrderStatistics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var buyerID, merchantID uint
	if getUserRole(c) == constants.RoleMerchant {
		merchantID = userID
	} else {
		buyerID = userID
	}
	stats, err := h.OrderService.GetOrderStatistics(buyerID, merchantID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, stats)
}
