package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var companyID int64
	var companyName string
	var year int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 创建演示公司及管理员, 2: 插入随机员工, 3: 插入默认节假日)")
	flag.IntVar(&n, "n", 5, "要插入的员工数量")
	flag.Int64Var(&companyID, "company-id", 0, "员工或节假日所属的公司 ID")
	flag.StringVar(&companyName, "company-name", "演示公司", "演示公司的名称")
	flag.IntVar(&year, "year", time.Now().Year(), "节假日所在的年份")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(dbpool); err != nil {
			logger.Error("数据库迁移失败", "error", err)
			return
		}
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		company, admin, err := seed.SeedCompany(context.Background(), repo, cfg, companyName)
		if err != nil {
			slog.Error("无法创建演示公司", slog.String("error", err.Error()))
			return
		}
		slog.Info("创建演示公司成功", slog.Int64("company_id", company.ID), slog.String("admin_email", admin.Email), slog.String("password", cfg.Seed.User.Password))
	case 2:
		if n <= 0 || companyID <= 0 {
			slog.Error("请输入合法的员工数量和公司 ID")
			return
		}
		cnt := seed.SeedEmployees(context.Background(), repo, cfg, companyID, n)
		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 3:
		if companyID <= 0 {
			slog.Error("请输入合法的公司 ID")
			return
		}
		cnt := seed.SeedHolidays(context.Background(), repo, companyID, year)
		slog.Info("插入节假日成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
