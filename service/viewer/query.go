package viewer

import (
	"context"
	"fmt"
	"inspection-review-service/service/models"
	"inspection-review-service/service/operator"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	defaultPerPage = 9
	maxPerPage     = 100
)

// Filters 筛选项
type Filters struct {
	WarZones      []string `json:"war_zones"`
	Provinces     []string `json:"provinces"`
	Cities        []string `json:"cities"`
	StoreTags     []string `json:"store_tags"`
	ReviewResults []string `json:"review_results"`
}

// SearchParams 审核结果检索条件
type SearchParams struct {
	StoreQuery   string `json:"store_query"`
	WarZone      string `json:"war_zone"`
	Province     string `json:"province"`
	City         string `json:"city"`
	ReviewResult string `json:"review_result"`
	StoreTag     string `json:"store_tag"`
	Operator     string `json:"operator"`
	Page         int    `json:"page"`
	PerPage      int    `json:"per_page"`
}

// SearchResult 分页检索结果
type SearchResult struct {
	Results    []models.ViewerReviewResult `json:"results"`
	TotalCount int64                       `json:"total_count"`
	Page       int                         `json:"page"`
	PerPage    int                         `json:"per_page"`
	TotalPages int                         `json:"total_pages"`
	HasMore    bool                        `json:"has_more"`
}

// UnmatchedItem 未匹配门店下的检查项
type UnmatchedItem struct {
	ItemName     string     `json:"item_name"`
	ReviewResult string     `json:"review_result"`
	ReviewTime   *time.Time `json:"review_time"`
}

// UnmatchedStore 未匹配门店
type UnmatchedStore struct {
	StoreID   string          `json:"store_id"`
	StoreName string          `json:"store_name"`
	Items     []UnmatchedItem `json:"items"`
}

// UnmatchedReport 未匹配门店报告
type UnmatchedReport struct {
	Stores      []UnmatchedStore `json:"stores"`
	TotalStores int              `json:"total_stores"`
	TotalItems  int              `json:"total_items"`
}

// QueryService 展示系统查询服务
type QueryService struct {
	db *gorm.DB
}

// NewQueryService 创建查询服务
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// Filters 从白名单读取筛选项
func (s *QueryService) Filters(ctx context.Context) (*Filters, error) {
	f := &Filters{
		ReviewResults: []string{string(models.ReviewPass), string(models.ReviewFail)},
	}
	var err error
	if f.WarZones, err = s.distinctRoster(ctx, "war_zone", "", ""); err != nil {
		return nil, err
	}
	if f.Provinces, err = s.distinctRoster(ctx, "province", "", ""); err != nil {
		return nil, err
	}
	if f.Cities, err = s.distinctRoster(ctx, "city", "", ""); err != nil {
		return nil, err
	}
	if f.StoreTags, err = s.distinctRoster(ctx, "store_tag", "", ""); err != nil {
		return nil, err
	}
	return f, nil
}

// ProvincesByWarZone 战区下的省份，战区为空时返回全部省份
func (s *QueryService) ProvincesByWarZone(ctx context.Context, warZone string) ([]string, error) {
	return s.distinctRoster(ctx, "province", "war_zone", warZone)
}

// CitiesByProvince 省份下的城市，省份为空时返回全部城市
func (s *QueryService) CitiesByProvince(ctx context.Context, province string) ([]string, error) {
	return s.distinctRoster(ctx, "city", "province", province)
}

func (s *QueryService) distinctRoster(ctx context.Context, column, filterColumn, filterValue string) ([]string, error) {
	query := s.db.WithContext(ctx).
		Model(&models.StoreWhitelist{}).
		Distinct(column).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", column, column))
	if filterColumn != "" && strings.TrimSpace(filterValue) != "" {
		query = query.Where(filterColumn+" = ?", strings.TrimSpace(filterValue))
	}

	values := []string{}
	if err := query.Order(column).Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("查询%s失败: %w", column, err)
	}
	return values, nil
}

// Search 分页检索审核结果
func (s *QueryService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var total int64
	if err := s.searchQuery(ctx, params).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计审核结果失败: %w", err)
	}

	rows := []models.ViewerReviewResult{}
	err := s.searchQuery(ctx, params).
		Select("viewer_review_results.*").
		Order("viewer_review_results.store_id ASC").
		Order("CASE WHEN viewer_review_results.review_time IS NULL THEN 1 ELSE 0 END").
		Order("viewer_review_results.review_time DESC").
		Order("viewer_review_results.id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询审核结果失败: %w", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &SearchResult{
		Results:    rows,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// likeEscaper 转义 LIKE 通配符，门店名称中的 % 和 _ 按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// searchQuery 每次调用返回新的查询，计数与分页查询互不影响
func (s *QueryService) searchQuery(ctx context.Context, params SearchParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.ViewerReviewResult{})

	if q := strings.TrimSpace(params.StoreQuery); q != "" {
		query = query.Where(`(viewer_review_results.store_name LIKE ? ESCAPE '\' OR viewer_review_results.store_id = ?)`, "%"+likeEscaper.Replace(q)+"%", q)
	}
	if v := strings.TrimSpace(params.WarZone); v != "" {
		query = query.Where("viewer_review_results.war_zone = ?", v)
	}
	if v := strings.TrimSpace(params.Province); v != "" {
		query = query.Where("viewer_review_results.province = ?", v)
	}
	if v := strings.TrimSpace(params.City); v != "" {
		query = query.Where("viewer_review_results.city = ?", v)
	}
	if v := strings.TrimSpace(params.ReviewResult); v != "" {
		query = query.Where("viewer_review_results.review_result = ?", v)
	}

	tag := strings.TrimSpace(params.StoreTag)
	byOperator := !operator.IsAll(params.Operator)
	if tag != "" || byOperator {
		query = query.Joins("JOIN store_whitelist ON store_whitelist.store_id = viewer_review_results.store_id")
		if tag != "" {
			query = query.Where("store_whitelist.store_tag = ?", tag)
		}
		if byOperator {
			query = query.Where(operator.SQLExpr+" = ?", strings.TrimSpace(params.Operator))
		}
	}
	return query
}

// UnmatchedStores 未匹配门店报告，按门店分组
func (s *QueryService) UnmatchedStores(ctx context.Context) (*UnmatchedReport, error) {
	var rows []models.ViewerReviewResult
	err := s.db.WithContext(ctx).
		Where("match_state = ? OR war_zone = ? OR province = ? OR city = ?",
			models.MatchStateUnmatched, models.GeoUnmatched, models.GeoUnmatched, models.GeoUnmatched).
		Order("store_id ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询未匹配门店失败: %w", err)
	}

	report := &UnmatchedReport{Stores: []UnmatchedStore{}}
	position := make(map[string]int)
	for _, row := range rows {
		idx, ok := position[row.StoreID]
		if !ok {
			idx = len(report.Stores)
			position[row.StoreID] = idx
			report.Stores = append(report.Stores, UnmatchedStore{
				StoreID:   row.StoreID,
				StoreName: row.StoreName,
			})
		}
		report.Stores[idx].Items = append(report.Stores[idx].Items, UnmatchedItem{
			ItemName:     row.ItemName,
			ReviewResult: row.ReviewResult,
			ReviewTime:   row.ReviewTime,
		})
	}
	report.TotalStores = len(report.Stores)
	report.TotalItems = len(rows)
	return report, nil
}

// Count 展示表记录数
func (s *QueryService) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.ViewerReviewResult{}).Count(&total).Error
	return total, err
}
