package service

import (
	"errors"
	"testing"

	"github.com/yuntuike/yanxuan/internal/constants"
)

func TestCreateRelationshipRoleMatrix(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()

	cases := []struct {
		name          string
		relType       string
		requesterRole string
		targetRole    string
		wantErr       error
	}{
		{"binding_influencer_to_merchant", constants.RelationshipTypeBinding, constants.RoleInfluencer, constants.RoleMerchant, nil},
		{"binding_leader_to_merchant", constants.RelationshipTypeBinding, constants.RoleLeader, constants.RoleMerchant, nil},
		{"binding_user_to_influencer", constants.RelationshipTypeBinding, constants.RoleUser, constants.RoleInfluencer, nil},
		{"binding_user_to_leader", constants.RelationshipTypeBinding, constants.RoleUser, constants.RoleLeader, nil},
		{"binding_merchant_to_influencer", constants.RelationshipTypeBinding, constants.RoleMerchant, constants.RoleInfluencer, ErrInvalidRelationshipType},
		{"binding_user_to_merchant", constants.RelationshipTypeBinding, constants.RoleUser, constants.RoleMerchant, ErrInvalidRelationshipType},
		{"partnership_merchant_to_leader", constants.RelationshipTypePartnership, constants.RoleMerchant, constants.RoleLeader, nil},
		{"partnership_influencer_to_merchant", constants.RelationshipTypePartnership, constants.RoleInfluencer, constants.RoleMerchant, nil},
		{"partnership_user_to_merchant", constants.RelationshipTypePartnership, constants.RoleUser, constants.RoleMerchant, ErrInvalidRelationshipType},
		{"referral_any_pair", constants.RelationshipTypeReferral, constants.RoleUser, constants.RoleUser, nil},
		{"follow_any_pair", constants.RelationshipTypeFollow, constants.RoleMerchant, constants.RoleUser, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requester := createTestUser(t, tc.requesterRole)
			target := createTestUser(t, tc.targetRole)

			_, err := svc.CreateRelationship(CreateRelationshipInput{
				RequesterID:   requester.ID,
				RelatedUserID: target.ID,
				Type:          tc.relType,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CreateRelationship() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateRelationshipWithSelf(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	user := createTestUser(t, constants.RoleUser)

	_, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   user.ID,
		RelatedUserID: user.ID,
		Type:          constants.RelationshipTypeFollow,
	})
	if !errors.Is(err, ErrSelfRelationship) {
		t.Fatalf("error = %v, want ErrSelfRelationship", err)
	}
}

func TestCreateRelationshipDuplicate(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	influencer := createTestUser(t, constants.RoleInfluencer)
	merchant := createTestUser(t, constants.RoleMerchant)

	input := CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchant.ID,
		Type:          constants.RelationshipTypeBinding,
	}
	if _, err := svc.CreateRelationship(input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateRelationship(input); !errors.Is(err, ErrDuplicateRelationship) {
		t.Fatalf("error = %v, want ErrDuplicateRelationship", err)
	}

	// 不同类型的关系不算重复
	input.Type = constants.RelationshipTypePartnership
	if _, err := svc.CreateRelationship(input); err != nil {
		t.Fatalf("different type create failed: %v", err)
	}
}

func TestCreateFollowIsImmediatelyActive(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	fan := createTestUser(t, constants.RoleUser)
	influencer := createTestUser(t, constants.RoleInfluencer)

	rel, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   fan.ID,
		RelatedUserID: influencer.ID,
		Type:          constants.RelationshipTypeFollow,
	})
	if err != nil {
		t.Fatalf("create follow failed: %v", err)
	}
	if rel.Status != constants.RelationshipStatusActive {
		t.Fatalf("status = %q, want active", rel.Status)
	}
	if rel.EffectiveDate == nil {
		t.Fatal("effective date not stamped")
	}
}

func TestUpdateRelationshipStatusTransitions(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	influencer := createTestUser(t, constants.RoleInfluencer)
	merchant := createTestUser(t, constants.RoleMerchant)

	rel, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchant.ID,
		Type:          constants.RelationshipTypeBinding,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// pending 不能直接过期
	if _, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusExpired, merchant.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending->expired error = %v, want ErrInvalidStatus", err)
	}

	updated, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusActive, merchant.ID, "审核通过")
	if err != nil {
		t.Fatalf("pending->active failed: %v", err)
	}
	if updated.Status != constants.RelationshipStatusActive {
		t.Fatalf("status = %q, want active", updated.Status)
	}
	if updated.EffectiveDate == nil {
		t.Fatal("effective date not stamped on activation")
	}

	// 同状态流转不合法
	if _, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusActive, merchant.ID, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("active->active error = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateRelationshipStatusForbidden(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	influencer := createTestUser(t, constants.RoleInfluencer)
	merchant := createTestUser(t, constants.RoleMerchant)
	stranger := createTestUser(t, constants.RoleUser)
	admin := createTestUser(t, constants.RoleAdmin)

	rel, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchant.ID,
		Type:          constants.RelationshipTypeBinding,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusActive, stranger.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusActive, admin.ID, ""); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestActivateBindingConflictsWithExistingSuperior(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	influencer := createTestUser(t, constants.RoleInfluencer)
	merchantA := createTestUser(t, constants.RoleMerchant)
	merchantB := createTestUser(t, constants.RoleMerchant)

	relA, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchantA.ID,
		Type:          constants.RelationshipTypeBinding,
	})
	if err != nil {
		t.Fatalf("create binding A failed: %v", err)
	}
	if _, err := svc.UpdateRelationshipStatus(relA.ID, constants.RelationshipStatusActive, merchantA.ID, ""); err != nil {
		t.Fatalf("activate binding A failed: %v", err)
	}

	relB, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchantB.ID,
		Type:          constants.RelationshipTypeBinding,
	})
	if err != nil {
		t.Fatalf("create binding B failed: %v", err)
	}
	if _, err := svc.UpdateRelationshipStatus(relB.ID, constants.RelationshipStatusActive, merchantB.ID, ""); !errors.Is(err, ErrUpstreamBindingConflict) {
		t.Fatalf("activate binding B error = %v, want ErrUpstreamBindingConflict", err)
	}

	// 旧绑定失效后可以再激活
	if _, err := svc.UpdateRelationshipStatus(relA.ID, constants.RelationshipStatusInactive, merchantA.ID, ""); err != nil {
		t.Fatalf("deactivate binding A failed: %v", err)
	}
	if _, err := svc.UpdateRelationshipStatus(relB.ID, constants.RelationshipStatusActive, merchantB.ID, ""); err != nil {
		t.Fatalf("activate binding B after release failed: %v", err)
	}
}

func TestGetRelationshipVisibility(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	influencer := createTestUser(t, constants.RoleInfluencer)
	merchant := createTestUser(t, constants.RoleMerchant)
	stranger := createTestUser(t, constants.RoleUser)
	admin := createTestUser(t, constants.RoleAdmin)

	rel, err := svc.CreateRelationship(CreateRelationshipInput{
		RequesterID:   influencer.ID,
		RelatedUserID: merchant.ID,
		Type:          constants.RelationshipTypeBinding,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetRelationship(rel.ID, influencer.ID); err != nil {
		t.Fatalf("requester view failed: %v", err)
	}
	if _, err := svc.GetRelationship(rel.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger view error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetRelationship(rel.ID, admin.ID); err != nil {
		t.Fatalf("admin view failed: %v", err)
	}
}

func TestGetUserBindingInfo(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestRelationshipService()
	leader := createTestUser(t, constants.RoleLeader)
	memberA := createTestUser(t, constants.RoleUser)
	memberB := createTestUser(t, constants.RoleUser)

	for _, member := range []uint{memberA.ID, memberB.ID} {
		rel, err := svc.CreateRelationship(CreateRelationshipInput{
			RequesterID:   member,
			RelatedUserID: leader.ID,
			Type:          constants.RelationshipTypeBinding,
		})
		if err != nil {
			t.Fatalf("create binding failed: %v", err)
		}
		if _, err := svc.UpdateRelationshipStatus(rel.ID, constants.RelationshipStatusActive, leader.ID, ""); err != nil {
			t.Fatalf("activate binding failed: %v", err)
		}
	}

	info, err := svc.GetUserBindingInfo(leader.ID)
	if err != nil {
		t.Fatalf("binding info failed: %v", err)
	}
	if info.Superior != nil {
		t.Fatalf("leader should have no superior, got %+v", info.Superior)
	}
	if len(info.Team) != 2 {
		t.Fatalf("team size = %d, want 2", len(info.Team))
	}
	if info.TeamPerformance.TeamSize != 3 {
		t.Fatalf("team performance size = %d, want 3 (含本人)", info.TeamPerformance.TeamSize)
	}

	memberInfo, err := svc.GetUserBindingInfo(memberA.ID)
	if err != nil {
		t.Fatalf("member binding info failed: %v", err)
	}
	if memberInfo.Superior == nil || memberInfo.Superior.RelatedUserID != leader.ID {
		t.Fatalf("member superior = %+v, want leader %d", memberInfo.Superior, leader.ID)
	}
}
