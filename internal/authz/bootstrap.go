package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色能力矩阵。
// 角色与路由能力的对应关系落库为 casbin 策略，鉴权中间件按角色判定。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			// 普通用户：浏览、下单、关注与绑定关系
			Role: "user",
			Policies: []Policy{
				{Object: "/users/me", Action: "*"},
				{Object: "/users/me/password", Action: "PUT"},
				{Object: "/users/me/binding-info", Action: "GET"},
				{Object: "/auth/logout", Action: "POST"},
				{Object: "/products", Action: "GET"},
				{Object: "/products/:id", Action: "GET"},
				{Object: "/relationships", Action: "GET"},
				{Object: "/relationships", Action: "POST"},
				{Object: "/relationships/:id", Action: "GET"},
				{Object: "/relationships/:id/status", Action: "PUT"},
				{Object: "/relationships/statistics", Action: "GET"},
				{Object: "/orders", Action: "GET"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id/status", Action: "PUT"},
				{Object: "/orders/:id/pay", Action: "POST"},
				{Object: "/orders/statistics", Action: "GET"},
				{Object: "/collections", Action: "GET"},
				{Object: "/collections/:id", Action: "GET"},
				{Object: "/collections/:id/items", Action: "GET"},
				{Object: "/collections/:id/share", Action: "POST"},
			},
			Immutable: true,
		},
		{
			// 达人：在普通用户之上可申请样品、维护货盘
			Role:     "influencer",
			Inherits: []string{"user"},
			Policies: []Policy{
				{Object: "/samples", Action: "GET"},
				{Object: "/samples", Action: "POST"},
				{Object: "/samples/:id", Action: "GET"},
				{Object: "/samples/:id/status", Action: "PUT"},
				{Object: "/samples/:id/review", Action: "POST"},
				{Object: "/samples/statistics", Action: "GET"},
				{Object: "/collections", Action: "POST"},
				{Object: "/collections/:id", Action: "PUT"},
				{Object: "/collections/:id", Action: "DELETE"},
				{Object: "/collections/:id/items", Action: "POST"},
				{Object: "/collections/:id/items/:item_id", Action: "DELETE"},
			},
			Immutable: true,
		},
		{
			// 团长：能力面与达人一致，另有团队视角的统计
			Role:      "leader",
			Inherits:  []string{"influencer"},
			Immutable: true,
		},
		{
			// 商家：商品管理、订单履约、样品审批
			Role:     "merchant",
			Inherits: []string{"user"},
			Policies: []Policy{
				{Object: "/products", Action: "POST"},
				{Object: "/products/:id", Action: "PUT"},
				{Object: "/products/:id", Action: "DELETE"},
				{Object: "/products/:id/stock", Action: "POST"},
				{Object: "/samples", Action: "GET"},
				{Object: "/samples/:id", Action: "GET"},
				{Object: "/samples/:id/status", Action: "PUT"},
				{Object: "/samples/statistics", Action: "GET"},
				{Object: "/collections", Action: "POST"},
				{Object: "/collections/:id", Action: "PUT"},
				{Object: "/collections/:id", Action: "DELETE"},
				{Object: "/collections/:id/items", Action: "POST"},
				{Object: "/collections/:id/items/:item_id", Action: "DELETE"},
			},
			Immutable: true,
		},
		{
			// 管理员：全量能力
			Role: "admin",
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return s.ReloadPolicy()
}
