package inspection

import (
	"context"
	"fmt"
	"inspection-review-service/service/models"
	"inspection-review-service/service/operator"
	"inspection-review-service/service/sheet"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
)

// RosterSource 提供白名单只读快照
type RosterSource interface {
	RosterIndex(ctx context.Context) (models.RosterIndex, error)
}

// Snapshot 某一时刻的检查项集合，创建后只读
type Snapshot struct {
	items []models.ChecklistItem
	byID  map[string]int
}

// NewSnapshot 由检查项列表构建快照
func NewSnapshot(items []models.ChecklistItem) *Snapshot {
	s := &Snapshot{
		items: items,
		byID:  make(map[string]int, len(items)),
	}
	for i, item := range items {
		s.byID[item.ID] = i
	}
	return s
}

// Len 检查项数量
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items 全部检查项（保持文件顺序）
func (s *Snapshot) Items() []models.ChecklistItem {
	if s == nil {
		return nil
	}
	out := make([]models.ChecklistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get 按检查项ID查找
func (s *Snapshot) Get(id string) (models.ChecklistItem, bool) {
	if s == nil {
		return models.ChecklistItem{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return models.ChecklistItem{}, false
	}
	return s.items[i], true
}

// FilterByOperator 按负责运营筛选，"全部"或空表示不筛选，结果按门店编号数值排序
func (s *Snapshot) FilterByOperator(op string) []models.ChecklistItem {
	var out []models.ChecklistItem
	for _, item := range s.Items() {
		if operator.IsAll(op) || item.AssignedOperator == op {
			out = append(out, item)
		}
	}
	SortByStoreID(out)
	return out
}

// Operators 检查项中出现的负责运营（不含未分配），已排序
func (s *Snapshot) Operators() []string {
	seen := make(map[string]struct{})
	for _, item := range s.Items() {
		if item.AssignedOperator == models.OperatorUnassigned || item.AssignedOperator == "" {
			continue
		}
		seen[item.AssignedOperator] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for op := range seen {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

// SortByStoreID 按门店编号数值升序，非数字编号视为0
func SortByStoreID(items []models.ChecklistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return storeOrder(items[i].StoreID) < storeOrder(items[j].StoreID)
	})
}

func storeOrder(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ItemCache 当前周期的检查项缓存
type ItemCache struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	roster   RosterSource
}

// NewItemCache 创建检查项缓存
func NewItemCache(roster RosterSource) *ItemCache {
	return &ItemCache{
		snapshot: NewSnapshot(nil),
		roster:   roster,
	}
}

// Parse 解析检查项文件但不替换当前快照
func (c *ItemCache) Parse(ctx context.Context, r io.Reader, filename string) (*Snapshot, int, error) {
	table, err := sheet.Read(r, filename)
	if err != nil {
		return nil, 0, models.NewImportError(models.ErrorTypeParse, "读取检查项文件失败", err)
	}

	var roster models.RosterIndex
	if c.roster != nil {
		roster, err = c.roster.RosterIndex(ctx)
		if err != nil {
			return nil, 0, models.NewImportError(models.ErrorTypeStorage, "加载白名单失败", err)
		}
	}

	result, err := Transform(table, roster)
	if err != nil {
		return nil, 0, err
	}
	return NewSnapshot(result.Items), result.SkippedRows, nil
}

// Swap 替换当前快照
func (c *ItemCache) Swap(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
}

// Reload 解析文件并替换当前快照，解析失败时保留旧快照
func (c *ItemCache) Reload(ctx context.Context, r io.Reader, filename string) (*Snapshot, error) {
	snapshot, skipped, err := c.Parse(ctx, r, filename)
	if err != nil {
		return nil, fmt.Errorf("加载检查项失败: %w", err)
	}
	c.Swap(snapshot)
	slog.Info("检查项加载完成", "file", filename, "items", snapshot.Len(), "skipped", skipped)
	return snapshot, nil
}

// CurrentSnapshot 当前快照
func (c *ItemCache) CurrentSnapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
