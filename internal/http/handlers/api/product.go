package api

import (
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	MerchantID       uint         `json:"merchant_id"`
	Title            string       `json:"title" binding:"required"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	Brand            string       `json:"brand"`
	Price            models.Money `json:"price"`
	OriginalPrice    models.Money `json:"original_price"`
	CommissionRate   models.Money `json:"commission_rate"`
	StockQuantity    int          `json:"stock_quantity"`
	MinOrderQuantity int          `json:"min_order_quantity"`
	MaxOrderQuantity int          `json:"max_order_quantity"`
	AllowSample      bool         `json:"allow_sample"`
	SamplePrice      models.Money `json:"sample_price"`
	Images           []string     `json:"images"`
	Tags             []string     `json:"tags"`
	Specs            models.JSON  `json:"specs"`
}

// CreateProduct 创建商品（商家为自己建品，管理员可代建）
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}
	merchantID := req.MerchantID
	if merchantID == 0 {
		merchantID = userID
	}

	product, err := h.ProductService.CreateProduct(service.CreateProductInput{
		MerchantID:       merchantID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Brand:            req.Brand,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		CommissionRate:   req.CommissionRate,
		StockQuantity:    req.StockQuantity,
		MinOrderQuantity: req.MinOrderQuantity,
		MaxOrderQuantity: req.MaxOrderQuantity,
		AllowSample:      req.AllowSample,
		SamplePrice:      req.SamplePrice,
		Images:           req.Images,
		Tags:             req.Tags,
		Specs:            req.Specs,
	}, userID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// GetProduct 查询商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// ListProducts 查询商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := paginationFromQuery(c)
	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		MerchantID: parseQueryUint(c, "merchant_id"),
		Category:   c.Query("category"),
		Keyword:    c.Query("keyword"),
		OnlyActive: c.Query("include_inactive") != "true",
	}

	list, total, err := h.ProductService.ListProducts(filter)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithPage(c, list, buildPagination(page, pageSize, total))
}

type updateProductRequest struct {
	Title            *string       `json:"title"`
	Description      *string       `json:"description"`
	Category         *string       `json:"category"`
	Brand            *string       `json:"brand"`
	Price            *models.Money `json:"price"`
	OriginalPrice    *models.Money `json:"original_price"`
	CommissionRate   *models.Money `json:"commission_rate"`
	MinOrderQuantity *int          `json:"min_order_quantity"`
	MaxOrderQuantity *int          `json:"max_order_quantity"`
	AllowSample      *bool         `json:"allow_sample"`
	SamplePrice      *models.Money `json:"sample_price"`
	Images           []string      `json:"images"`
	Tags             []string      `json:"tags"`
	Specs            models.JSON   `json:"specs"`
	IsActive         *bool         `json:"is_active"`
	SortOrder        *int          `json:"sort_order"`
}

// UpdateProduct 更新商品（仅归属商家或管理员）
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	product, err := h.ProductService.UpdateProduct(productID, userID, func(p *models.Product) {
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Brand != nil {
			p.Brand = *req.Brand
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.OriginalPrice != nil {
			p.OriginalPrice = *req.OriginalPrice
		}
		if req.CommissionRate != nil {
			p.CommissionRate = *req.CommissionRate
		}
		if req.MinOrderQuantity != nil {
			p.MinOrderQuantity = *req.MinOrderQuantity
		}
		if req.MaxOrderQuantity != nil {
			p.MaxOrderQuantity = *req.MaxOrderQuantity
		}
		if req.AllowSample != nil {
			p.AllowSample = *req.AllowSample
		}
		if req.SamplePrice != nil {
			p.SamplePrice = *req.SamplePrice
		}
		if req.Images != nil {
			p.Images = req.Images
		}
		if req.Tags != nil {
			p.Tags = req.Tags
		}
		if req.Specs != nil {
			p.SpecsJSON = req.Specs
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			p.SortOrder = *req.SortOrder
		}
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（仅归属商家或管理员）
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(productID, userID); err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, nil)
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock 调整商品库存
func (h *Handler) AdjustStock(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	product, err := h.ProductService.AdjustStock(productID, userID, req.Delta)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}
