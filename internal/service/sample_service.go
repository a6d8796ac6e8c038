package service

import (
	"time"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/queue"
	"github.com/yuntuike/yanxuan/internal/repository"
)

// SampleService 样品申请服务
type SampleService struct {
	sampleRepo  repository.SampleRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	notifier    *NotificationService
	returnAfter time.Duration
}

// NewSampleService 创建样品申请服务
func NewSampleService(
	sampleRepo repository.SampleRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
	notifier *NotificationService,
	returnDeadlineDays int,
) *SampleService {
	if returnDeadlineDays <= 0 {
		returnDeadlineDays = 14
	}
	return &SampleService{
		sampleRepo:  sampleRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		notifier:    notifier,
		returnAfter: time.Duration(returnDeadlineDays) * 24 * time.Hour,
	}
}

// CreateSampleInput 创建样品申请输入
type CreateSampleInput struct {
	RequesterID     uint
	ProductID       uint
	Type            string
	Quantity        int
	Reason          string
	ShippingAddress models.JSON
}

// sampleAllowedTransitions 样品申请状态流转表
var sampleAllowedTransitions = map[string]map[string]bool{
	constants.SampleStatusPending: {
		constants.SampleStatusApproved:  true,
		constants.SampleStatusRejected:  true,
		constants.SampleStatusCancelled: true,
	},
	constants.SampleStatusApproved: {
		constants.SampleStatusShipped:   true,
		constants.SampleStatusCancelled: true,
	},
	constants.SampleStatusShipped: {
		constants.SampleStatusDelivered: true,
		constants.SampleStatusCancelled: true,
	},
	constants.SampleStatusDelivered: {
		constants.SampleStatusReturned: true,
		constants.SampleStatusExpired:  true,
	},
	constants.SampleStatusExpired: {
		constants.SampleStatusReturned: true,
	},
}

// sampleMerchantTargets 商家可设置的目标状态
var sampleMerchantTargets = map[string]bool{
	constants.SampleStatusApproved: true,
	constants.SampleStatusShipped:  true,
	constants.SampleStatusRejected: true,
}

// sampleApplicantTargets 申请人可设置的目标状态
var sampleApplicantTargets = map[string]bool{
	constants.SampleStatusDelivered: true,
	constants.SampleStatusReturned:  true,
	constants.SampleStatusCancelled: true,
}

// sampleNonTerminalStatuses 同一（商品, 申请人）视为占位的状态
var sampleNonTerminalStatuses = []string{
	constants.SampleStatusPending,
	constants.SampleStatusApproved,
}

func isSampleTransitionAllowed(current, target string) bool {
	nexts, ok := sampleAllowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// canOperateSampleStatus 角色与身份双重校验：
// 管理员任意流转，商家只能审批/发货/驳回，申请人只能签收/归还/取消。
func canOperateSampleStatus(sample *models.Sample, operator *models.User, target string) bool {
	if operator.IsAdmin() {
		return true
	}
	if operator.ID == sample.MerchantID {
		return sampleMerchantTargets[target]
	}
	if operator.ID == sample.ApplicantID {
		return sampleApplicantTargets[target]
	}
	return false
}

// CreateSampleRequest 创建样品申请
func (s *SampleService) CreateSampleRequest(input CreateSampleInput) (*models.Sample, error) {
	if input.RequesterID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity < constants.SampleQuantityMin || input.Quantity > constants.SampleQuantityMax {
		return nil, ErrSampleQuantityInvalid
	}

	requester, err := s.userRepo.GetByID(input.RequesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrUserNotFound
	}
	if requester.Role != constants.RoleInfluencer && requester.Role != constants.RoleLeader {
		return nil, ErrSampleRoleNotAllowed
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.AllowSample {
		return nil, ErrSampleNotAllowed
	}

	pending, err := s.sampleRepo.CountNonTerminal(input.ProductID, input.RequesterID, sampleNonTerminalStatuses)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrDuplicatePendingSample
	}

	sample := &models.Sample{
		SampleNo:          generateSampleNo(),
		ApplicantID:       input.RequesterID,
		ProductID:         input.ProductID,
		MerchantID:        product.MerchantID,
		Type:              input.Type,
		Status:            constants.SampleStatusPending,
		Quantity:          input.Quantity,
		ApplicationReason: input.Reason,
		ShippingAddress:   input.ShippingAddress,
	}
	if sample.Type == "" {
		sample.Type = constants.SampleTypeFree
	}

	if err := s.sampleRepo.Create(sample); err != nil {
		logger.Errorw("sample_create_failed",
			"applicant_id", input.RequesterID,
			"product_id", input.ProductID,
			"error", err,
		)
		return nil, err
	}
	return sample, nil
}

// UpdateSampleStatus 更新样品申请状态
func (s *SampleService) UpdateSampleStatus(sampleID uint, newStatus string, operatorID uint, notes string) (*models.Sample, error) {
	sample, err := s.sampleRepo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, ErrSampleNotFound
	}

	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrUserNotFound
	}
	if !canOperateSampleStatus(sample, operator, newStatus) {
		return nil, ErrForbidden
	}
	if !isSampleTransitionAllowed(sample.Status, newStatus) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	switch newStatus {
	case constants.SampleStatusApproved:
		updates["approved_at"] = now
		updates["approved_by"] = operatorID
	case constants.SampleStatusRejected:
		updates["rejected_at"] = now
		updates["rejected_by"] = operatorID
	case constants.SampleStatusShipped:
		updates["shipped_at"] = now
	case constants.SampleStatusDelivered:
		updates["delivered_at"] = now
	case constants.SampleStatusReturned:
		updates["returned_at"] = now
	}

	if err := s.sampleRepo.UpdateStatus(sample.ID, newStatus, updates); err != nil {
		logger.Errorw("sample_status_update_failed",
			"sample_id", sample.ID,
			"from", sample.Status,
			"to", newStatus,
			"error", err,
		)
		return nil, err
	}

	// 签收后启动归还期限倒计时
	if newStatus == constants.SampleStatusDelivered {
		s.enqueueReturnExpire(sample.ID)
	}

	updated, err := s.sampleRepo.GetByID(sample.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifySampleStatus(updated, newStatus)
	return updated, nil
}

// enqueueReturnExpire 入队样品归还超期任务
func (s *SampleService) enqueueReturnExpire(sampleID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueSampleReturnExpire(sampleID, s.returnAfter); err != nil {
		logger.Warnw("sample_expire_task_enqueue_failed", "sample_id", sampleID, "error", err)
	}
}

// ExpireOverdueSample 将超期未归还的样品置为 expired（由异步任务触发）
func (s *SampleService) ExpireOverdueSample(sampleID uint) error {
	sample, err := s.sampleRepo.GetByID(sampleID)
	if err != nil {
		return err
	}
	if sample == nil {
		return nil
	}
	if sample.Status != constants.SampleStatusDelivered {
		return nil
	}
	now := time.Now()
	return s.sampleRepo.UpdateStatus(sample.ID, constants.SampleStatusExpired, map[string]interface{}{
		"updated_at": now,
	})
}

// SubmitSampleReview 提交样品测评（仅申请人，且样品已签收）
func (s *SampleService) SubmitSampleReview(sampleID, operatorID uint, rating int, content string, media []string) (*models.Sample, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrReviewRatingInvalid
	}
	sample, err := s.sampleRepo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, ErrSampleNotFound
	}
	if operatorID != sample.ApplicantID {
		return nil, ErrForbidden
	}
	if sample.Status != constants.SampleStatusDelivered {
		return nil, ErrSampleNotReviewable
	}

	now := time.Now()
	sample.ReviewRating = rating
	sample.ReviewContent = content
	sample.ReviewMedia = media
	sample.ReviewedAt = &now
	if err := s.sampleRepo.Update(sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// GetSample 获取样品申请详情（申请人、商家或管理员）
func (s *SampleService) GetSample(sampleID, operatorID uint) (*models.Sample, error) {
	sample, err := s.sampleRepo.GetByID(sampleID)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, ErrSampleNotFound
	}
	if operatorID != sample.ApplicantID && operatorID != sample.MerchantID {
		operator, err := s.userRepo.GetByID(operatorID)
		if err != nil {
			return nil, err
		}
		if operator == nil || !operator.IsAdmin() {
			return nil, ErrForbidden
		}
	}
	return sample, nil
}

// ListSamples 样品申请列表
func (s *SampleService) ListSamples(filter repository.SampleListFilter) ([]models.Sample, int64, error) {
	return s.sampleRepo.List(filter)
}

// GetSampleStatistics 样品申请统计
func (s *SampleService) GetSampleStatistics(applicantID, merchantID uint) (map[string]int64, error) {
	return s.sampleRepo.CountByStatus(applicantID, merchantID)
}
