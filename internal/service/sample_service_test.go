package service

import (
	"errors"
	"testing"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/models"
)

func createTestSample(t *testing.T, svc *SampleService, applicantID, productID uint) *models.Sample {
	t.Helper()
	sample, err := svc.CreateSampleRequest(CreateSampleInput{
		RequesterID: applicantID,
		ProductID:   productID,
		Quantity:    1,
		Reason:      "短视频测评",
	})
	if err != nil {
		t.Fatalf("create sample failed: %v", err)
	}
	return sample
}

func TestCreateSampleRequestValidation(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	buyer := createTestUser(t, constants.RoleUser)

	sampleable := createTestProduct(t, merchant.ID, nil)
	noSample := createTestProduct(t, merchant.ID, func(p *models.Product) { p.AllowSample = false })

	cases := []struct {
		name    string
		input   CreateSampleInput
		wantErr error
	}{
		{"role_not_allowed", CreateSampleInput{RequesterID: buyer.ID, ProductID: sampleable.ID, Quantity: 1}, ErrSampleRoleNotAllowed},
		{"product_no_sample", CreateSampleInput{RequesterID: influencer.ID, ProductID: noSample.ID, Quantity: 1}, ErrSampleNotAllowed},
		{"quantity_zero", CreateSampleInput{RequesterID: influencer.ID, ProductID: sampleable.ID, Quantity: 0}, ErrSampleQuantityInvalid},
		{"quantity_over_max", CreateSampleInput{RequesterID: influencer.ID, ProductID: sampleable.ID, Quantity: 11}, ErrSampleQuantityInvalid},
		{"unknown_product", CreateSampleInput{RequesterID: influencer.ID, ProductID: 99999, Quantity: 1}, ErrProductNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSampleRequest(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleRequestDefaults(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	leader := createTestUser(t, constants.RoleLeader)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, leader.ID, product.ID)
	if sample.Status != constants.SampleStatusPending {
		t.Fatalf("status = %q, want pending", sample.Status)
	}
	if sample.Type != constants.SampleTypeFree {
		t.Fatalf("type = %q, want free", sample.Type)
	}
	if sample.MerchantID != merchant.ID {
		t.Fatalf("merchant_id = %d, want %d", sample.MerchantID, merchant.ID)
	}
	if sample.SampleNo == "" {
		t.Fatal("sample no not generated")
	}
}

func TestCreateSampleRequestDuplicatePending(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, influencer.ID, product.ID)

	_, err := svc.CreateSampleRequest(CreateSampleInput{
		RequesterID: influencer.ID,
		ProductID:   product.ID,
		Quantity:    1,
	})
	if !errors.Is(err, ErrDuplicatePendingSample) {
		t.Fatalf("error = %v, want ErrDuplicatePendingSample", err)
	}

	// 驳回后可以再次申请
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusRejected, merchant.ID, "暂不开放"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if _, err := svc.CreateSampleRequest(CreateSampleInput{
		RequesterID: influencer.ID,
		ProductID:   product.ID,
		Quantity:    1,
	}); err != nil {
		t.Fatalf("re-apply after reject failed: %v", err)
	}
}

func TestUpdateSampleStatusPermissionMatrix(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	admin := createTestUser(t, constants.RoleAdmin)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, influencer.ID, product.ID)

	// 申请人不能自行审批
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusApproved, influencer.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("applicant approve error = %v, want ErrForbidden", err)
	}

	approved, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusApproved, merchant.ID, "")
	if err != nil {
		t.Fatalf("merchant approve failed: %v", err)
	}
	if approved.ApprovedAt == nil || approved.ApprovedBy == nil || *approved.ApprovedBy != merchant.ID {
		t.Fatalf("approval audit fields not stamped: %+v", approved)
	}

	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusShipped, merchant.ID, ""); err != nil {
		t.Fatalf("merchant ship failed: %v", err)
	}

	// 商家不能替申请人签收
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusDelivered, merchant.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("merchant deliver error = %v, want ErrForbidden", err)
	}
	delivered, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusDelivered, influencer.ID, "")
	if err != nil {
		t.Fatalf("applicant deliver failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivered_at not stamped")
	}

	// 管理员可以任意合法流转
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusReturned, admin.ID, ""); err != nil {
		t.Fatalf("admin return failed: %v", err)
	}
}

func TestUpdateSampleStatusTransitionViolations(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, influencer.ID, product.ID)

	// pending 不能直接发货
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusShipped, merchant.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending->shipped error = %v, want ErrInvalidStatus", err)
	}
	// pending 不能直接归还
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusReturned, influencer.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending->returned error = %v, want ErrInvalidStatus", err)
	}

	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusRejected, merchant.ID, ""); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	// rejected 为终态
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusApproved, merchant.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("rejected->approved error = %v, want ErrInvalidStatus", err)
	}
}

func TestSubmitSampleReview(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, influencer.ID, product.ID)

	// 未签收不能测评
	if _, err := svc.SubmitSampleReview(sample.ID, influencer.ID, 5, "很好", nil); !errors.Is(err, ErrSampleNotReviewable) {
		t.Fatalf("pending review error = %v, want ErrSampleNotReviewable", err)
	}

	for _, status := range []string{
		constants.SampleStatusApproved,
		constants.SampleStatusShipped,
	} {
		if _, err := svc.UpdateSampleStatus(sample.ID, status, merchant.ID, ""); err != nil {
			t.Fatalf("advance to %s failed: %v", status, err)
		}
	}
	if _, err := svc.UpdateSampleStatus(sample.ID, constants.SampleStatusDelivered, influencer.ID, ""); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	// 评分越界
	if _, err := svc.SubmitSampleReview(sample.ID, influencer.ID, 0, "", nil); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("rating 0 error = %v, want ErrReviewRatingInvalid", err)
	}
	if _, err := svc.SubmitSampleReview(sample.ID, influencer.ID, 6, "", nil); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("rating 6 error = %v, want ErrReviewRatingInvalid", err)
	}
	// 仅申请人可测评
	if _, err := svc.SubmitSampleReview(sample.ID, merchant.ID, 5, "", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("merchant review error = %v, want ErrForbidden", err)
	}

	reviewed, err := svc.SubmitSampleReview(sample.ID, influencer.ID, 4, "降噪不错，佩戴略紧", []string{"https://cdn.yuntuike.example/r/1.jpg"})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.ReviewRating != 4 {
		t.Fatalf("rating = %d, want 4", reviewed.ReviewRating)
	}
	if reviewed.ReviewedAt == nil {
		t.Fatal("reviewed_at not stamped")
	}
	// 测评不改变样品状态
	if reviewed.Status != constants.SampleStatusDelivered {
		t.Fatalf("status = %q, want delivered", reviewed.Status)
	}
}

func TestExpireOverdueSample(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	productA := createTestProduct(t, merchant.ID, nil)
	productB := createTestProduct(t, merchant.ID, nil)

	deliveredSample := createTestSample(t, svc, influencer.ID, productA.ID)
	for _, status := range []string{constants.SampleStatusApproved, constants.SampleStatusShipped} {
		if _, err := svc.UpdateSampleStatus(deliveredSample.ID, status, merchant.ID, ""); err != nil {
			t.Fatalf("advance to %s failed: %v", status, err)
		}
	}
	if _, err := svc.UpdateSampleStatus(deliveredSample.ID, constants.SampleStatusDelivered, influencer.ID, ""); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	pendingSample := createTestSample(t, svc, influencer.ID, productB.ID)

	if err := svc.ExpireOverdueSample(deliveredSample.ID); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	got, err := svc.GetSample(deliveredSample.ID, influencer.ID)
	if err != nil {
		t.Fatalf("get sample failed: %v", err)
	}
	if got.Status != constants.SampleStatusExpired {
		t.Fatalf("status = %q, want expired", got.Status)
	}

	// 未签收的申请不受超期任务影响
	if err := svc.ExpireOverdueSample(pendingSample.ID); err != nil {
		t.Fatalf("expire pending failed: %v", err)
	}
	got, err = svc.GetSample(pendingSample.ID, influencer.ID)
	if err != nil {
		t.Fatalf("get pending sample failed: %v", err)
	}
	if got.Status != constants.SampleStatusPending {
		t.Fatalf("pending status = %q, want pending", got.Status)
	}

	// 超期后仍可补归还
	if _, err := svc.UpdateSampleStatus(deliveredSample.ID, constants.SampleStatusReturned, influencer.ID, ""); err != nil {
		t.Fatalf("return after expire failed: %v", err)
	}
}

func TestGetSampleVisibility(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestSampleService()
	merchant := createTestUser(t, constants.RoleMerchant)
	influencer := createTestUser(t, constants.RoleInfluencer)
	stranger := createTestUser(t, constants.RoleUser)
	admin := createTestUser(t, constants.RoleAdmin)
	product := createTestProduct(t, merchant.ID, nil)

	sample := createTestSample(t, svc, influencer.ID, product.ID)

	for _, viewer := range []uint{influencer.ID, merchant.ID, admin.ID} {
		if _, err := svc.GetSample(sample.ID, viewer); err != nil {
			t.Fatalf("viewer %d failed: %v", viewer, err)
		}
	}
	if _, err := svc.GetSample(sample.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger error = %v, want ErrForbidden", err)
	}
}
