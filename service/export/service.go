package export

import (
	"context"
	"fmt"
	"inspection-review-service/service/inspection"
	"inspection-review-service/service/metrics"
	"inspection-review-service/service/models"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DecisionSource 审核决定来源
type DecisionSource interface {
	ByItemID(ctx context.Context) (map[string]models.ReviewDecision, error)
}

// ItemSource 当前周期检查项来源
type ItemSource interface {
	CurrentSnapshot() *inspection.Snapshot
}

// RosterSource 白名单来源
type RosterSource interface {
	RosterIndex(ctx context.Context) (models.RosterIndex, error)
}

// File 导出结果
type File struct {
	Name       string `json:"name"`
	Content    string `json:"-"`
	Rows       int    `json:"rows"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

// Service 导出服务
type Service struct {
	decisions DecisionSource
	items     ItemSource
	roster    RosterSource
	archiver  Archiver
	now       func() time.Time
}

// NewService 创建导出服务，archiver 为 nil 时不归档
func NewService(decisions DecisionSource, items ItemSource, roster RosterSource, archiver Archiver) *Service {
	return &Service{
		decisions: decisions,
		items:     items,
		roster:    roster,
		archiver:  archiver,
		now:       time.Now,
	}
}

// Generate 生成导出文件，归档失败只记录日志
func (s *Service) Generate(ctx context.Context) (*File, error) {
	decisions, err := s.decisions.ByItemID(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster.RosterIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载白名单失败: %w", err)
	}

	content, rows, err := Export(decisions, s.items.CurrentSnapshot().Items(), roster)
	if err != nil {
		return nil, err
	}
	file := &File{Name: Filename(s.now()), Content: content, Rows: rows}
	metrics.ExportsTotal.Inc()

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, file.Name, []byte(content))
		if err != nil {
			slog.Warn("导出文件归档失败", "file", file.Name, "error", err)
		} else {
			file.ArchiveKey = key
		}
	}
	slog.Info("审核结果已导出", "file", file.Name, "rows", rows, "archive_key", file.ArchiveKey)
	return file, nil
}

// WriteTo 生成导出文件并写入目录，返回文件路径
func (s *Service) WriteTo(ctx context.Context, dir string) (string, *File, error) {
	file, err := s.Generate(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("创建导出目录失败: %w", err)
	}
	target := filepath.Join(dir, file.Name)
	if err := os.WriteFile(target, []byte(file.Content), 0o644); err != nil {
		return "", nil, fmt.Errorf("写入导出文件失败: %w", err)
	}
	return target, file, nil
}
