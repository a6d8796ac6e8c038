package api

import (
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type createCollectionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	IsPublic    bool     `json:"is_public"`
	CoverImage  string   `json:"cover_image"`
	Tags        []string `json:"tags"`
}

// CreateCollection 创建货盘
func (h *Handler) CreateCollection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	collection, err := h.CollectionService.CreateCollection(service.CreateCollectionInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		IsPublic:    req.IsPublic,
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
	})
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, collection)
}

// GetCollection 查询货盘详情（私有货盘仅属主可见）
func (h *Handler) GetCollection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collection, err := h.CollectionService.GetCollection(collectionID, userID)
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, collection)
}

// SearchCollections 搜索货盘列表（可见性由仓库层裁剪）
func (h *Handler) SearchCollections(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationFromQuery(c)
	filter := repository.CollectionListFilter{
		Page:     page,
		PageSize: pageSize,
		CallerID: userID,
		OwnerID:  parseQueryUint(c, "owner_id"),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Keyword:  c.Query("keyword"),
		Tag:      c.Query("tag"),
		OrderBy:  c.Query("order_by"),
	}

	list, total, err := h.CollectionService.SearchCollections(filter)
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.SuccessWithPage(c, list, buildPagination(page, pageSize, total))
}

type updateCollectionRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Status      *string  `json:"status"`
	IsPublic    *bool    `json:"is_public"`
	CoverImage  *string  `json:"cover_image"`
	Tags        []string `json:"tags"`
}

// UpdateCollection 更新货盘（仅属主）
func (h *Handler) UpdateCollection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	collection, err := h.CollectionService.UpdateCollection(collectionID, userID, service.UpdateCollectionInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		IsPublic:    req.IsPublic,
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
	})
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, collection)
}

// DeleteCollection 删除货盘（仅属主，软删除）
func (h *Handler) DeleteCollection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CollectionService.DeleteCollection(collectionID, userID); err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, nil)
}

type addCollectionItemRequest struct {
	ProductID            uint          `json:"product_id" binding:"required"`
	SortOrder            int           `json:"sort_order"`
	IsFeatured           bool          `json:"is_featured"`
	CustomPrice          *models.Money `json:"custom_price"`
	CustomCommissionRate *models.Money `json:"custom_commission_rate"`
}

// AddCollectionItem 向货盘添加商品（仅属主，同一商品不可重复）
func (h *Handler) AddCollectionItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req addCollectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	item, err := h.CollectionService.AddItem(collectionID, userID, service.AddCollectionItemInput{
		ProductID:            req.ProductID,
		SortOrder:            req.SortOrder,
		IsFeatured:           req.IsFeatured,
		CustomPrice:          req.CustomPrice,
		CustomCommissionRate: req.CustomCommissionRate,
	})
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, item)
}

// RemoveCollectionItem 从货盘移除商品（仅属主）
func (h *Handler) RemoveCollectionItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	if err := h.CollectionService.RemoveItem(collectionID, itemID, userID); err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListCollectionItems 查询货盘商品列表
func (h *Handler) ListCollectionItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.CollectionService.ListItems(collectionID, userID)
	if err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, items)
}

// ShareCollection 分享货盘（累计分享次数）
func (h *Handler) ShareCollection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CollectionService.ShareCollection(collectionID, userID); err != nil {
		respondCollectionError(c, err)
		return
	}
	response.Success(c, nil)
}
