package whitelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"inspection-review-service/service/models"
	"inspection-review-service/service/operator"
	"io"
	"sort"

	"gorm.io/gorm"
)

// Repository 白名单查询
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建白名单查询
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RosterIndex 一次性加载全部白名单作为只读快照
func (r *Repository) RosterIndex(ctx context.Context) (models.RosterIndex, error) {
	stores, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(models.RosterIndex, len(stores))
	for _, s := range stores {
		index[s.StoreID] = s
	}
	return index, nil
}

// Get 按门店ID查询
func (r *Repository) Get(ctx context.Context, storeID string) (*models.StoreWhitelist, error) {
	var store models.StoreWhitelist
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询门店失败: %w", err)
	}
	return &store, nil
}

// List 全部门店，按门店ID排序
func (r *Repository) List(ctx context.Context) ([]models.StoreWhitelist, error) {
	var stores []models.StoreWhitelist
	if err := r.db.WithContext(ctx).Order("store_id").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("查询白名单失败: %w", err)
	}
	return stores, nil
}

// Count 门店数量
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StoreWhitelist{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计白名单失败: %w", err)
	}
	return count, nil
}

// Operators 全部负责运营（不含未分配），已排序
func (r *Repository) Operators(ctx context.Context) ([]string, error) {
	stores, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	operators := make([]string, 0)
	for _, s := range stores {
		op := operator.Resolve(s)
		if op == models.OperatorUnassigned {
			continue
		}
		if _, ok := seen[op]; ok {
			continue
		}
		seen[op] = struct{}{}
		operators = append(operators, op)
	}
	sort.Strings(operators)
	return operators, nil
}

// StoresByOperator 指定运营负责的门店ID
func (r *Repository) StoresByOperator(ctx context.Context, op string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.StoreWhitelist{}).
		Where(operator.SQLExpr+" = ?", op).
		Order("store_id").
		Pluck("store_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("查询运营门店失败: %w", err)
	}
	return ids, nil
}

// StoreSummary 门店导出摘要
type StoreSummary struct {
	StoreID         string `json:"store_id"`
	StoreName       string `json:"store_name"`
	City            string `json:"city"`
	WarZone         string `json:"war_zone"`
	RegionalManager string `json:"regional_manager"`
}

// DumpJSON 将门店摘要写为JSON数组
func (r *Repository) DumpJSON(ctx context.Context, w io.Writer) (int, error) {
	stores, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	out := make([]StoreSummary, 0, len(stores))
	for _, s := range stores {
		out = append(out, StoreSummary{
			StoreID:         s.StoreID,
			StoreName:       s.StoreName,
			City:            s.City,
			WarZone:         s.WarZone,
			RegionalManager: s.RegionalManager,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("写入门店JSON失败: %w", err)
	}
	return len(out), nil
}
