package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// Postgres 数据库连接
type Postgres struct {
	db *gorm.DB
}

// NewPostgres 创建数据库连接并迁移引擎相关表
func NewPostgres(cfg *config.Config) (*Postgres, error) {
	dbCfg := cfg.Database.Postgres

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	// 迁移引擎拥有的表；监控配置表由外围CRUD层写入，这里只保证结构存在
	if err := db.AutoMigrate(
		&model.WatchlistEntry{},
		&model.ActivityPattern{},
		&model.AlertCooldown{},
		&model.AlertRecord{},
	); err != nil {
		return nil, fmt.Errorf("迁移数据表失败: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close 关闭数据库连接
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
