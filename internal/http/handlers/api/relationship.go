package api

import (
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

type createRelationshipRequest struct {
	RelatedUserID  uint          `json:"related_user_id" binding:"required"`
	Type           string        `json:"type" binding:"required"`
	CommissionRate *models.Money `json:"commission_rate"`
	Notes          string        `json:"notes"`
}

// CreateRelationship 发起用户关系（绑定/推荐/合作/关注）
func (h *Handler) CreateRelationship(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req createRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	rel, err := h.RelationshipService.CreateRelationship(service.CreateRelationshipInput{
		RequesterID:    userID,
		RelatedUserID:  req.RelatedUserID,
		Type:           req.Type,
		CommissionRate: req.CommissionRate,
		Notes:          req.Notes,
	})
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.Success(c, rel)
}

// ListRelationships 查询关系列表。
// 非管理员只能查询自己参与的关系。
func (h *Handler) ListRelationships(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationFromQuery(c)
	filter := repository.RelationshipListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
	}
	if isAdmin(c) {
		filter.UserID = parseQueryUint(c, "user_id")
		filter.RelatedUserID = parseQueryUint(c, "related_user_id")
		if filter.UserID == 0 && filter.RelatedUserID == 0 {
			filter.EitherSideOf = parseQueryUint(c, "either_side_of")
		}
	} else {
		filter.EitherSideOf = userID
	}

	list, total, err := h.RelationshipService.ListRelationships(filter)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.SuccessWithPage(c, list, buildPagination(page, pageSize, total))
}

// GetRelationship 查询关系详情
func (h *Handler) GetRelationship(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	relID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rel, err := h.RelationshipService.GetRelationship(relID, userID)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.Success(c, rel)
}

type updateRelationshipStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateRelationshipStatus 推进关系状态
func (h *Handler) UpdateRelationshipStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	relID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateRelationshipStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", nil)
		return
	}

	rel, err := h.RelationshipService.UpdateRelationshipStatus(relID, req.Status, userID, req.Notes)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.Success(c, rel)
}

// BindingInfo 当前用户绑定信息（上级、团队与团队业绩）
func (h *Handler) BindingInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	info, err := h.RelationshipService.GetUserBindingInfo(userID)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.Success(c, info)
}

// RelationshipStatistics 当前用户关系状态统计
func (h *Handler) RelationshipStatistics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	stats, err := h.RelationshipService.GetRelationshipStatistics(userID)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}
	response.Success(c, stats)
}
