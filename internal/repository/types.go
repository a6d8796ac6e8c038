package repository

import "time"

// RelationshipListFilter 查询用户关系列表的过滤条件
type RelationshipListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	RelatedUserID uint
	Type          string
	Status        string
	EitherSideOf  uint
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	BuyerID     uint
	MerchantID  uint
	ReferrerID  uint
	Status      string
	OrderNo     string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SampleListFilter 查询样品申请列表的过滤条件
type SampleListFilter struct {
	Page        int
	PageSize    int
	ApplicantID uint
	MerchantID  uint
	ProductID   uint
	Status      string
	Type        string
}

// CollectionListFilter 查询货盘列表的过滤条件
type CollectionListFilter struct {
	Page      int
	PageSize  int
	CallerID  uint
	OwnerID   uint
	Type      string
	Status    string
	Keyword   string
	Tag       string
	OrderBy   string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	MerchantID uint
	Category   string
	Keyword    string
	OnlyActive bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Role        string
	Keyword     string
	OnlyActive  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
