package constants

// 用户角色常量
const (
	RoleAdmin      = "admin"
	RoleMerchant   = "merchant"
	RoleLeader     = "leader"
	RoleInfluencer = "influencer"
	RoleUser       = "user"
)

// 用户关系类型常量
const (
	RelationshipTypeBinding     = "binding"
	RelationshipTypeReferral    = "referral"
	RelationshipTypePartnership = "partnership"
	RelationshipTypeFollow      = "follow"
)

// 用户关系状态常量
const (
	RelationshipStatusPending   = "pending"
	RelationshipStatusActive    = "active"
	RelationshipStatusInactive  = "inactive"
	RelationshipStatusRejected  = "rejected"
	RelationshipStatusExpired   = "expired"
	RelationshipStatusCancelled = "cancelled"
)

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
	OrderStatusReturned  = "returned"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)

// 样品申请类型常量
const (
	SampleTypeFree     = "free"
	SampleTypePaid     = "paid"
	SampleTypeDeposit  = "deposit"
	SampleTypeExchange = "exchange"
)

// 样品申请状态常量
const (
	SampleStatusPending   = "pending"
	SampleStatusApproved  = "approved"
	SampleStatusRejected  = "rejected"
	SampleStatusShipped   = "shipped"
	SampleStatusDelivered = "delivered"
	SampleStatusReviewed  = "reviewed"
	SampleStatusReturned  = "returned"
	SampleStatusCancelled = "cancelled"
	SampleStatusExpired   = "expired"
)

// 货盘类型常量
const (
	CollectionTypeGeneral     = "general"
	CollectionTypeSeasonal    = "seasonal"
	CollectionTypePromotional = "promotional"
	CollectionTypeCategory    = "category"
	CollectionTypeBrand       = "brand"
	CollectionTypeCustom      = "custom"
)

// 货盘状态常量
const (
	CollectionStatusDraft    = "draft"
	CollectionStatusActive   = "active"
	CollectionStatusInactive = "inactive"
	CollectionStatusArchived = "archived"
)

// 单号前缀常量
const (
	OrderNoPrefix  = "YTK"
	SampleNoPrefix = "SP"
)

// 样品数量边界常量
const (
	SampleQuantityMin = 1
	SampleQuantityMax = 10
)

// 异步任务类型常量
const (
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskSampleReturnExpire = "sample:return_expire"
	TaskWechatNotify       = "wechat:notify"
)

// 异步任务队列常量
const (
	QueueDefault       = "default"
	QueueNotifications = "notifications"
)
