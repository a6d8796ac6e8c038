package service

import (
	"errors"
	"testing"

	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/repository"
)

func createTestCollection(t *testing.T, svc *CollectionService, ownerID uint, isPublic bool) *models.Collection {
	t.Helper()
	collection, err := svc.CreateCollection(CreateCollectionInput{
		OwnerID:  ownerID,
		Title:    "测试货盘",
		IsPublic: isPublic,
	})
	if err != nil {
		t.Fatalf("create collection failed: %v", err)
	}
	return collection
}

func TestCreateCollectionDefaults(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	influencer := createTestUser(t, constants.RoleInfluencer)

	collection := createTestCollection(t, svc, influencer.ID, true)
	if collection.Type != constants.CollectionTypeGeneral {
		t.Fatalf("type = %q, want general", collection.Type)
	}
	if collection.Status != constants.CollectionStatusActive {
		t.Fatalf("status = %q, want active", collection.Status)
	}

	if _, err := svc.CreateCollection(CreateCollectionInput{OwnerID: influencer.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty title error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateCollectionOwnerOnly(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	owner := createTestUser(t, constants.RoleInfluencer)
	other := createTestUser(t, constants.RoleInfluencer)

	collection := createTestCollection(t, svc, owner.ID, true)

	newTitle := "改名后的货盘"
	if _, err := svc.UpdateCollection(collection.ID, other.ID, UpdateCollectionInput{Title: &newTitle}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner update error = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateCollection(collection.ID, owner.ID, UpdateCollectionInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("title = %q, want %q", updated.Title, newTitle)
	}
}

func TestDeleteCollection(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	owner := createTestUser(t, constants.RoleInfluencer)
	other := createTestUser(t, constants.RoleInfluencer)

	collection := createTestCollection(t, svc, owner.ID, true)

	if err := svc.DeleteCollection(collection.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteCollection(collection.ID, owner.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.GetCollection(collection.ID, owner.ID); !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("get deleted error = %v, want ErrCollectionNotFound", err)
	}
}

func TestAddItemRules(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	merchant := createTestUser(t, constants.RoleMerchant)
	owner := createTestUser(t, constants.RoleInfluencer)
	other := createTestUser(t, constants.RoleInfluencer)
	product := createTestProduct(t, merchant.ID, nil)

	collection := createTestCollection(t, svc, owner.ID, true)

	if _, err := svc.AddItem(collection.ID, other.ID, AddCollectionItemInput{ProductID: product.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner add error = %v, want ErrForbidden", err)
	}
	if _, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{ProductID: 99999}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product error = %v, want ErrProductNotFound", err)
	}

	item, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{
		ProductID:  product.ID,
		IsFeatured: true,
	})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.CollectionID != collection.ID {
		t.Fatalf("collection_id = %d, want %d", item.CollectionID, collection.ID)
	}

	// 同一商品不能重复入盘
	if _, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{ProductID: product.ID}); !errors.Is(err, ErrProductInCollection) {
		t.Fatalf("duplicate product error = %v, want ErrProductInCollection", err)
	}

	// 停用货盘不能再加商品
	inactive := constants.CollectionStatusInactive
	if _, err := svc.UpdateCollection(collection.ID, owner.ID, UpdateCollectionInput{Status: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	another := createTestProduct(t, merchant.ID, nil)
	if _, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{ProductID: another.ID}); !errors.Is(err, ErrCollectionNotActive) {
		t.Fatalf("inactive add error = %v, want ErrCollectionNotActive", err)
	}
}

func TestRemoveItem(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	merchant := createTestUser(t, constants.RoleMerchant)
	owner := createTestUser(t, constants.RoleInfluencer)
	product := createTestProduct(t, merchant.ID, nil)

	collection := createTestCollection(t, svc, owner.ID, true)
	item, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{ProductID: product.ID})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := svc.RemoveItem(collection.ID, 99999, owner.ID); !errors.Is(err, ErrCollectionItemNotFound) {
		t.Fatalf("unknown item error = %v, want ErrCollectionItemNotFound", err)
	}
	if err := svc.RemoveItem(collection.ID, item.ID, owner.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}

	items, err := svc.ListItems(collection.ID, owner.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %d, want 0", len(items))
	}

	// 移除后同一商品可以重新入盘
	if _, err := svc.AddItem(collection.ID, owner.ID, AddCollectionItemInput{ProductID: product.ID}); err != nil {
		t.Fatalf("re-add after remove failed: %v", err)
	}
}

func TestPrivateCollectionVisibility(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	owner := createTestUser(t, constants.RoleInfluencer)
	other := createTestUser(t, constants.RoleUser)

	private := createTestCollection(t, svc, owner.ID, false)

	if _, err := svc.GetCollection(private.ID, owner.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if _, err := svc.GetCollection(private.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other get error = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListItems(private.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other list items error = %v, want ErrForbidden", err)
	}
	if err := svc.ShareCollection(private.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other share error = %v, want ErrForbidden", err)
	}
}

func TestCollectionCounters(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	owner := createTestUser(t, constants.RoleInfluencer)
	visitor := createTestUser(t, constants.RoleUser)

	collection := createTestCollection(t, svc, owner.ID, true)

	// 创建者浏览不计数
	if _, err := svc.GetCollection(collection.ID, owner.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	// 访客浏览计数
	if _, err := svc.GetCollection(collection.ID, visitor.ID); err != nil {
		t.Fatalf("visitor get failed: %v", err)
	}
	if err := svc.ShareCollection(collection.ID, visitor.ID); err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if err := svc.ShareCollection(collection.ID, visitor.ID); err != nil {
		t.Fatalf("second share failed: %v", err)
	}

	got, err := svc.GetCollection(collection.ID, owner.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("view_count = %d, want 1", got.ViewCount)
	}
	if got.ShareCount != 2 {
		t.Fatalf("share_count = %d, want 2", got.ShareCount)
	}
}

func TestSearchCollectionsVisibility(t *testing.T) {
	setupServiceTestDB(t)
	svc := newTestCollectionService()
	owner := createTestUser(t, constants.RoleInfluencer)
	other := createTestUser(t, constants.RoleLeader)

	ownPrivate := createTestCollection(t, svc, owner.ID, false)
	ownPublic := createTestCollection(t, svc, owner.ID, true)
	otherPublic := createTestCollection(t, svc, other.ID, true)
	otherPrivate := createTestCollection(t, svc, other.ID, false)

	results, total, err := svc.SearchCollections(repository.CollectionListFilter{
		CallerID: owner.ID,
		Page:     1,
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}

	visible := map[uint]bool{}
	for _, c := range results {
		visible[c.ID] = true
	}
	for _, id := range []uint{ownPrivate.ID, ownPublic.ID, otherPublic.ID} {
		if !visible[id] {
			t.Fatalf("collection %d should be visible", id)
		}
	}
	if visible[otherPrivate.ID] {
		t.Fatal("他人私有货盘不应出现在搜索结果中")
	}
}
