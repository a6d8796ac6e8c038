package service

import (
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"

	"gorm.io/gorm"
)

// RelationshipService 用户关系服务
type RelationshipService struct {
	relRepo   repository.RelationshipRepository
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

// NewRelationshipService 创建用户关系服务
func NewRelationshipService(
	relRepo repository.RelationshipRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
) *RelationshipService {
	return &RelationshipService{
		relRepo:   relRepo,
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// CreateRelationshipInput 创建用户关系输入
type CreateRelationshipInput struct {
	RequesterID    uint
	RelatedUserID  uint
	Type           string
	CommissionRate *models.Money
	Notes          string
}

// relationshipRolePolicy 关系类型的角色组合白名单（发起方角色 -> 目标方角色集合）
var relationshipRolePolicy = map[string]map[string]map[string]bool{
	constants.RelationshipTypeBinding: {
		constants.RoleInfluencer: {constants.RoleMerchant: true},
		constants.RoleLeader:     {constants.RoleMerchant: true},
		constants.RoleUser: {
			constants.RoleInfluencer: true,
			constants.RoleLeader:     true,
		},
	},
	constants.RelationshipTypePartnership: {
		constants.RoleMerchant: {
			constants.RoleInfluencer: true,
			constants.RoleLeader:     true,
		},
		constants.RoleInfluencer: {constants.RoleMerchant: true},
		constants.RoleLeader:     {constants.RoleMerchant: true},
	},
}

// relationshipAllowedTransitions 关系状态流转表
var relationshipAllowedTransitions = map[string]map[string]bool{
	constants.RelationshipStatusPending: {
		constants.RelationshipStatusActive:    true,
		constants.RelationshipStatusRejected:  true,
		constants.RelationshipStatusCancelled: true,
	},
	constants.RelationshipStatusActive: {
		constants.RelationshipStatusInactive:  true,
		constants.RelationshipStatusExpired:   true,
		constants.RelationshipStatusCancelled: true,
	},
	constants.RelationshipStatusInactive: {
		constants.RelationshipStatusActive:    true,
		constants.RelationshipStatusCancelled: true,
	},
	constants.RelationshipStatusRejected: {
		constants.RelationshipStatusPending: true,
	},
	constants.RelationshipStatusExpired: {
		constants.RelationshipStatusActive: true,
	},
	constants.RelationshipStatusCancelled: {
		constants.RelationshipStatusPending: true,
	},
}

// isRelationshipTypeAllowed 校验角色组合是否允许建立该类型关系
func isRelationshipTypeAllowed(relType, requesterRole, targetRole string) bool {
	switch relType {
	case constants.RelationshipTypeReferral, constants.RelationshipTypeFollow:
		return true
	}
	targets, ok := relationshipRolePolicy[relType]
	if !ok {
		return false
	}
	allowed, ok := targets[requesterRole]
	if !ok {
		return false
	}
	return allowed[targetRole]
}

func isRelationshipTransitionAllowed(current, target string) bool {
	nexts, ok := relationshipAllowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateRelationship 创建用户关系
func (s *RelationshipService) CreateRelationship(input CreateRelationshipInput) (*models.UserRelationship, error) {
	if input.RequesterID == 0 || input.RelatedUserID == 0 {
		return nil, ErrInvalidInput
	}
	if input.RequesterID == input.RelatedUserID {
		return nil, ErrSelfRelationship
	}

	requester, err := s.userRepo.GetByID(input.RequesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrUserNotFound
	}
	target, err := s.userRepo.GetByID(input.RelatedUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if !isRelationshipTypeAllowed(input.Type, requester.Role, target.Role) {
		return nil, ErrInvalidRelationshipType
	}

	existing, err := s.relRepo.GetByPairAndType(input.RequesterID, input.RelatedUserID, input.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRelationship
	}

	now := time.Now()
	rel := &models.UserRelationship{
		UserID:        input.RequesterID,
		RelatedUserID: input.RelatedUserID,
		Type:          input.Type,
		Status:        constants.RelationshipStatusPending,
		Notes:         input.Notes,
	}
	if input.CommissionRate != nil {
		rel.CommissionRate = *input.CommissionRate
	}
	// 关注无需审批，直接生效
	if input.Type == constants.RelationshipTypeFollow {
		rel.Status = constants.RelationshipStatusActive
		rel.EffectiveDate = &now
	}

	if err := s.relRepo.Create(rel); err != nil {
		logger.Errorw("relationship_create_failed",
			"requester_id", input.RequesterID,
			"related_user_id", input.RelatedUserID,
			"type", input.Type,
			"error", err,
		)
		return nil, err
	}
	return rel, nil
}

// UpdateRelationshipStatus 更新关系状态。
// 操作者必须是关系任意一方或管理员。
func (s *RelationshipService) UpdateRelationshipStatus(relationshipID uint, newStatus string, operatorID uint, notes string) (*models.UserRelationship, error) {
	rel, err := s.relRepo.GetByID(relationshipID)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, ErrRelationshipNotFound
	}

	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrUserNotFound
	}
	if operatorID != rel.UserID && operatorID != rel.RelatedUserID && !operator.IsAdmin() {
		return nil, ErrForbidden
	}

	if !isRelationshipTransitionAllowed(rel.Status, newStatus) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_activity_at": now,
		"updated_at":       now,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	enteringActive := newStatus == constants.RelationshipStatusActive && rel.Status != constants.RelationshipStatusActive
	if enteringActive {
		updates["effective_date"] = now
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		txRepo := s.relRepo.WithTx(tx)
		// 绑定生效前保证同一下级至多一条生效中的上级绑定
		if enteringActive && rel.Type == constants.RelationshipTypeBinding {
			count, err := txRepo.CountActiveUpstreamBindings(rel.UserID, rel.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrUpstreamBindingConflict
			}
		}
		return txRepo.UpdateStatus(rel.ID, newStatus, updates)
	})
	if err != nil {
		return nil, err
	}

	return s.relRepo.GetByID(rel.ID)
}

// GetRelationship 查询关系详情（仅关系双方或管理员可见）
func (s *RelationshipService) GetRelationship(relationshipID, operatorID uint) (*models.UserRelationship, error) {
	rel, err := s.relRepo.GetByID(relationshipID)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, ErrRelationshipNotFound
	}
	if operatorID != rel.UserID && operatorID != rel.RelatedUserID {
		operator, err := s.userRepo.GetByID(operatorID)
		if err != nil {
			return nil, err
		}
		if operator == nil || !operator.IsAdmin() {
			return nil, ErrForbidden
		}
	}
	return rel, nil
}

// UserBindingInfo 绑定信息汇总
type UserBindingInfo struct {
	User            *models.User              `json:"user"`
	Superior        *models.UserRelationship  `json:"superior,omitempty"`
	Team            []models.UserRelationship `json:"team"`
	TeamPerformance TeamPerformance           `json:"team_performance"`
}

// TeamPerformance 团队业绩汇总
type TeamPerformance struct {
	TeamSize        int          `json:"team_size"`
	TotalOrders     int64        `json:"total_orders"`
	TotalAmount     models.Money `json:"total_amount"`
	TotalCommission models.Money `json:"total_commission"`
}

// GetUserBindingInfo 获取用户绑定信息（上级、团队与团队业绩）
func (s *RelationshipService) GetUserBindingInfo(userID uint) (*UserBindingInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	superior, err := s.relRepo.GetActiveUpstreamBinding(userID)
	if err != nil {
		return nil, err
	}
	team, err := s.relRepo.ListActiveDownstreamBindings(userID)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]uint, 0, len(team))
	for _, rel := range team {
		memberIDs = append(memberIDs, rel.UserID)
	}
	rollup, err := s.orderRepo.SumByReferrers(memberIDs)
	if err != nil {
		return nil, err
	}

	info := &UserBindingInfo{
		User:     user,
		Superior: superior,
		Team:     team,
		TeamPerformance: TeamPerformance{
			// 团队规模含本人
			TeamSize:        len(team) + 1,
			TotalOrders:     rollup.Orders,
			TotalAmount:     rollup.Amount,
			TotalCommission: rollup.Commission,
		},
	}
	return info, nil
}

// ListRelationships 查询用户参与的关系列表
func (s *RelationshipService) ListRelationships(filter repository.RelationshipListFilter) ([]models.UserRelationship, int64, error) {
	return s.relRepo.List(filter)
}

// GetRelationshipStatistics 关系统计
func (s *RelationshipService) GetRelationshipStatistics(userID uint) (map[string]int64, error) {
	return s.relRepo.CountByStatus(userID)
}
