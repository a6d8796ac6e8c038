package main

import (
	"fmt"

	"github.com/yuntuike/yanxuan/internal/authz"
	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/constants"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 预置角色能力表
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("初始化权限服务失败: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("初始化预置角色失败: %v", err)
	}
	stdLog.Println("预置角色能力表已就绪")

	// 演示账号（手机号唯一，重复执行时跳过已有账号）
	demoUsers := []struct {
		Phone    string
		Role     string
		Nickname string
		Profile  models.JSON
	}{
		{
			Phone:    "13800000001",
			Role:     constants.RoleMerchant,
			Nickname: "云图客自营旗舰店",
			Profile: models.JSON(map[string]interface{}{
				"company":  "云图客（杭州）科技有限公司",
				"category": "数码配件",
			}),
		},
		{
			Phone:    "13800000002",
			Role:     constants.RoleLeader,
			Nickname: "团长小鹿",
			Profile: models.JSON(map[string]interface{}{
				"team_name": "小鹿严选团",
				"team_size": 35,
			}),
		},
		{
			Phone:    "13800000003",
			Role:     constants.RoleInfluencer,
			Nickname: "测评师阿澄",
			Profile: models.JSON(map[string]interface{}{
				"platform":  "视频号",
				"followers": 128000,
			}),
		},
		{
			Phone:    "13800000004",
			Role:     constants.RoleUser,
			Nickname: "普通买家",
		},
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("demo123456"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("生成演示密码失败: %v", err)
	}

	userIDs := map[string]uint{}
	for _, demo := range demoUsers {
		var existing models.User
		if err := models.DB.Where("phone = ?", demo.Phone).First(&existing).Error; err == nil {
			stdLog.Printf("账号已存在: %s (%s)", demo.Phone, demo.Role)
			userIDs[demo.Role] = existing.ID
			continue
		}
		user := models.User{
			Role:         demo.Role,
			Phone:        demo.Phone,
			Nickname:     demo.Nickname,
			PasswordHash: string(passwordHash),
			ProfileJSON:  demo.Profile,
			IsActive:     true,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("创建账号 %s 失败: %v", demo.Phone, err)
			continue
		}
		stdLog.Printf("创建账号: %s (%s)", demo.Phone, demo.Role)
		userIDs[demo.Role] = user.ID
	}

	merchantID := userIDs[constants.RoleMerchant]
	influencerID := userIDs[constants.RoleInfluencer]
	if merchantID == 0 {
		stdLog.Fatalf("缺少演示商家账号，无法继续")
	}

	// 演示商品
	products := []models.Product{
		{
			MerchantID:       merchantID,
			Title:            "无线蓝牙耳机",
			Description:      "蓝牙 5.0，主动降噪，续航 24 小时",
			Category:         "数码配件",
			Brand:            "云图客",
			Price:            models.NewMoneyFromDecimal(decimal.NewFromFloat(99.90)),
			OriginalPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(129.90)),
			CommissionRate:   models.NewMoneyFromDecimal(decimal.NewFromFloat(12)),
			StockQuantity:    500,
			MinOrderQuantity: 1,
			AllowSample:      true,
			SamplePrice:      models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			Images:           models.StringArray{"https://cdn.yuntuike.example/p/earphones.jpg"},
			Tags:             models.StringArray{"耳机", "降噪", "爆款"},
			IsActive:         true,
		},
		{
			MerchantID:       merchantID,
			Title:            "便携充电宝 20000mAh",
			Description:      "22.5W 快充，双向快充，机场可携带",
			Category:         "数码配件",
			Brand:            "云图客",
			Price:            models.NewMoneyFromDecimal(decimal.NewFromFloat(79.00)),
			OriginalPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(99.00)),
			CommissionRate:   models.NewMoneyFromDecimal(decimal.NewFromFloat(10)),
			StockQuantity:    300,
			MinOrderQuantity: 1,
			MaxOrderQuantity: 5,
			AllowSample:      true,
			SamplePrice:      models.NewMoneyFromDecimal(decimal.NewFromFloat(0)),
			Images:           models.StringArray{"https://cdn.yuntuike.example/p/powerbank.jpg"},
			Tags:             models.StringArray{"充电宝", "快充"},
			IsActive:         true,
		},
		{
			MerchantID:     merchantID,
			Title:          "多功能旅行背包",
			Description:    "防泼水面料，USB 外接充电口",
			Category:       "生活用品",
			Brand:          "云图客",
			Price:          models.NewMoneyFromDecimal(decimal.NewFromFloat(159.00)),
			OriginalPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(199.00)),
			CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromFloat(15)),
			StockQuantity:  120,
			Images:         models.StringArray{"https://cdn.yuntuike.example/p/backpack.jpg"},
			Tags:           models.StringArray{"背包", "旅行"},
			IsActive:       true,
		},
	}

	productIDs := make([]uint, 0, len(products))
	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("merchant_id = ? AND title = ?", prod.MerchantID, prod.Title).First(&existing).Error; err == nil {
			stdLog.Printf("商品已存在: %s", prod.Title)
			productIDs = append(productIDs, existing.ID)
			continue
		}
		if err := models.DB.Create(&prod).Error; err != nil {
			stdLog.Printf("创建商品 %s 失败: %v", prod.Title, err)
			continue
		}
		stdLog.Printf("创建商品: %s", prod.Title)
		productIDs = append(productIDs, prod.ID)
	}

	// 演示货盘（达人创建，挂上全部演示商品）
	if influencerID != 0 && len(productIDs) > 0 {
		var collection models.Collection
		if err := models.DB.Where("owner_id = ? AND title = ?", influencerID, "阿澄的数码好物清单").First(&collection).Error; err != nil {
			collection = models.Collection{
				OwnerID:     influencerID,
				Title:       "阿澄的数码好物清单",
				Description: "本月实测好用的数码配件合集",
				Type:        constants.CollectionTypeGeneral,
				Status:      constants.CollectionStatusActive,
				IsPublic:    true,
				Tags:        models.StringArray{"数码", "好物推荐"},
			}
			if err := models.DB.Create(&collection).Error; err != nil {
				stdLog.Printf("创建货盘失败: %v", err)
			} else {
				stdLog.Printf("创建货盘: %s", collection.Title)
			}
		} else {
			stdLog.Printf("货盘已存在: %s", collection.Title)
		}

		if collection.ID != 0 {
			for i, productID := range productIDs {
				var existing models.CollectionItem
				if err := models.DB.Where("collection_id = ? AND product_id = ?", collection.ID, productID).First(&existing).Error; err == nil {
					continue
				}
				item := models.CollectionItem{
					CollectionID: collection.ID,
					ProductID:    productID,
					SortOrder:    (len(productIDs) - i) * 10,
					IsFeatured:   i == 0,
				}
				if err := models.DB.Create(&item).Error; err != nil {
					stdLog.Printf("货盘添加商品 %d 失败: %v", productID, err)
				}
			}
			stdLog.Printf("货盘商品已就绪: %d 件", len(productIDs))
		}
	}

	fmt.Println("\n✅ 演示数据初始化完成")
	fmt.Println("概要:")
	fmt.Println("- 预置角色能力表 (user/influencer/leader/merchant/admin)")
	fmt.Println("- 4 个演示账号（密码 demo123456）")
	fmt.Println("- 3 件演示商品（商家旗舰店）")
	fmt.Println("- 1 个公开货盘（达人）")
}
