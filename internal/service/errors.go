package service

import "errors"

// 通用错误
var (
	ErrForbidden     = errors.New("无权执行该操作")
	ErrUserNotFound  = errors.New("用户不存在")
	ErrUserDisabled  = errors.New("账号已被禁用")
	ErrInvalidInput  = errors.New("参数不合法")
	ErrInvalidStatus = errors.New("非法的状态流转")
)

// 认证错误
var (
	ErrInvalidCredentials = errors.New("手机号或密码错误")
	ErrPhoneTaken         = errors.New("手机号已被注册")
	ErrCaptchaInvalid     = errors.New("验证码错误或已过期")
	ErrTokenInvalid       = errors.New("无效的 token")
)

// 用户关系错误
var (
	ErrRelationshipNotFound    = errors.New("用户关系不存在")
	ErrSelfRelationship        = errors.New("不能与自己建立关系")
	ErrDuplicateRelationship   = errors.New("相同类型的关系已存在")
	ErrInvalidRelationshipType = errors.New("角色组合不支持该关系类型")
	ErrUpstreamBindingConflict = errors.New("该用户已存在生效中的上级绑定")
)

// 订单错误
var (
	ErrOrderNotFound     = errors.New("订单不存在")
	ErrProductNotFound   = errors.New("商品不存在")
	ErrProductInactive   = errors.New("商品已下架")
	ErrInsufficientStock = errors.New("商品库存不足")
	ErrBelowMinimumOrder = errors.New("数量低于最小起订量")
	ErrAboveMaximumOrder = errors.New("数量超过最大限购量")
	ErrInvalidOrderItem  = errors.New("订单项不合法")
)

// 样品申请错误
var (
	ErrSampleNotFound         = errors.New("样品申请不存在")
	ErrSampleNotAllowed       = errors.New("商品不支持样品申请")
	ErrSampleRoleNotAllowed   = errors.New("仅达人或团长可申请样品")
	ErrDuplicatePendingSample = errors.New("存在未完结的同商品样品申请")
	ErrSampleQuantityInvalid  = errors.New("样品数量超出允许范围")
	ErrSampleNotReviewable    = errors.New("当前状态不可提交测评")
	ErrReviewRatingInvalid    = errors.New("评分必须在 1 到 5 之间")
)

// 货盘错误
var (
	ErrCollectionNotFound     = errors.New("货盘不存在")
	ErrCollectionNotActive    = errors.New("货盘未处于启用状态")
	ErrCollectionItemNotFound = errors.New("货盘商品不存在")
	ErrProductInCollection    = errors.New("商品已在该货盘中")
)

// 支付错误
var (
	ErrPaymentNotFound = errors.New("支付记录不存在")
	ErrOrderNotPayable = errors.New("订单当前不可支付")
	ErrPaymentGateway  = errors.New("支付网关请求失败")
)
