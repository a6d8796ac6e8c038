package api

import (
	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type createSampleRequest struct {
	ProductID       uint        `json:"product_id" binding:"required"`
	Type            string      `json:"type"`
	Quantity        int         `json:"quantity" binding:"required"`
	Reason          string      `json:"reason"`
	ShippingAddress models.JSON `json:"shipping_address"`
}

// CreateSample 提交样品申请（达人/团长）
func (h *Handler) CreateSample(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	sample, err := h.SampleService.CreateSampleRequest(service.CreateSampleInput{
		RequesterID:     userID,
		ProductID:       req.ProductID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.Success(c, sample)
}

// GetSample 查询样品申请详情
func (h *Handler) GetSample(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	sampleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sample, err := h.SampleService.GetSample(sampleID, userID)
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.Success(c, sample)
}

// ListSamples 查询样品申请列表。
// 商家看发给自己的申请，申请人看自己提交的申请。
func (h *Handler) ListSamples(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationFromQuery(c)
	filter := repository.SampleListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: parseQueryUint(c, "product_id"),
		Status:    c.Query("status"),
		Type:      c.Query("type"),
	}
	switch {
	case isAdmin(c):
		filter.ApplicantID = parseQueryUint(c, "applicant_id")
		filter.MerchantID = parseQueryUint(c, "merchant_id")
	case getUserRole(c) == constants.RoleMerchant:
		filter.MerchantID = userID
	default:
		filter.ApplicantID = userID
	}

	list, total, err := h.SampleService.ListSamples(filter)
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.SuccessWithPage(c, list, buildPagination(page, pageSize, total))
}

type updateSampleStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateSampleStatus 推进样品申请状态
func (h *Handler) UpdateSampleStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	sampleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateSampleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	sample, err := h.SampleService.UpdateSampleStatus(sampleID, req.Status, userID, req.Notes)
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.Success(c, sample)
}

type sampleReviewRequest struct {
	Rating  int      `json:"rating" binding:"required"`
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

// SubmitSampleReview 提交样品评测（仅申请人，签收后）
func (h *Handler) SubmitSampleReview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	sampleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req sampleReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	sample, err := h.SampleService.SubmitSampleReview(sampleID, userID, req.Rating, req.Content, req.Media)
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.Success(c, sample)
}

// SampleStatistics 样品申请状态统计（按角色收敛视角）
func (h *Handler) SampleStatistics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var applicantID, merchantID uint
	if getUserRole(c) == constants.RoleMerchant {
		merchantID = userID
	} else {
		applicantID = userID
	}
	stats, err := h.SampleService.GetSampleStatistics(applicantID, merchantID)
	if err != nil {
		respondSampleError(c, err)
		return
	}
	response.Success(c, stats)
}
