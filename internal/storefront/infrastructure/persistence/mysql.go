package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/storefront/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotModel 快照表
type SnapshotModel struct {
	Key       string    `gorm:"column:snapshot_key;type:varchar(191);primaryKey"`
	Data      []byte    `gorm:"column:data;type:blob;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 表名
func (SnapshotModel) TableName() string { return "storefront_snapshots" }

// MySQLStore 基于 gorm 的快照存储
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore 创建存储并迁移表结构
func NewMySQLStore(db *gorm.DB) (*MySQLStore, error) {
	if err := db.AutoMigrate(&SnapshotModel{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

// Get 读取快照
func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var m SnapshotModel
	err := s.db.WithContext(ctx).Where("snapshot_key = ?", key).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.Data, nil
}

// Put 按键覆盖写入
func (s *MySQLStore) Put(ctx context.Context, key string, data []byte) error {
	m := SnapshotModel{Key: key, Data: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&m).Error
}
