package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Robproces360/Interfilling-performance/backend/config"
	"github.com/Robproces360/Interfilling-performance/backend/internal/dto"
	"github.com/Robproces360/Interfilling-performance/backend/internal/model"
	"github.com/Robproces360/Interfilling-performance/backend/internal/repository"
)

// ── 停机分析模块业务错误 ──

var (
	ErrInvalidDateRange = errors.New("无效的日期范围")
	ErrUnknownWorkflow  = errors.New("生产线不在白名单内")
	ErrInvalidPeriod    = errors.New("分组周期必须是 day、week 或 month")
)

// WorkflowAll 表示"白名单内的全部生产线"
const WorkflowAll = "all"

const dayLayout = "2006-01-02"

// reasonPalette 固定调色板：按完整排名顺序循环分配，
// 保证同一原因在柱状图与环形图中颜色一致
var reasonPalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// otherColor 环形图中合并桶 "Other (k)" 的固定颜色
const otherColor = "#bdbdbd"

// DowntimeService 停机分析业务接口
// 所有运算都是对过滤后事件集的无状态纯计算；空输入是正常的 no_data 结果而非错误
type DowntimeService interface {
	Overview(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.OverviewResponse, error)
	ReasonBreakdown(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.ReasonBreakdownResponse, error)
	OrderImpact(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.OrderImpactResponse, error)
	Trend(ctx context.Context, q *dto.DowntimeFilterQuery, period string) (*dto.TrendResponse, error)
	Performance(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.PerformanceResponse, error)
	Pareto(ctx context.Context, q *dto.DowntimeFilterQuery, period, bucket string) (*dto.ParetoResponse, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
}

type downtimeService struct {
	cfg    *config.AnalysisConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDowntimeService 创建 DowntimeService 实例
func NewDowntimeService(cfg *config.AnalysisConfig, repo *repository.Repository, logger *zap.Logger) DowntimeService {
	return &downtimeService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── 过滤 ──────────────────────

type filterParams struct {
	workflow  string
	start     time.Time
	end       time.Time
	shiftOnly bool
}

func (s *downtimeService) parseFilter(q *dto.DowntimeFilterQuery) (filterParams, error) {
	p := filterParams{workflow: q.Workflow, shiftOnly: q.ShiftOnly}
	if p.workflow == "" {
		p.workflow = WorkflowAll
	}
	if p.workflow != WorkflowAll && !s.inAllowList(p.workflow) {
		return p, ErrUnknownWorkflow
	}

	start, err := time.Parse(dayLayout, q.StartDate)
	if err != nil {
		return p, ErrInvalidDateRange
	}
	end, err := time.Parse(dayLayout, q.EndDate)
	if err != nil {
		return p, ErrInvalidDateRange
	}
	if start.After(end) {
		return p, ErrInvalidDateRange
	}
	p.start, p.end = start, end
	return p, nil
}

func (s *downtimeService) inAllowList(workflow string) bool {
	for _, w := range s.cfg.Workflows {
		if w == workflow {
			return true
		}
	}
	return false
}

// applyFilter 依次应用日期（闭区间）、生产线、班次窗口三个谓词
// 对同一参数幂等：过滤结果再过滤一次不会改变
func (s *downtimeService) applyFilter(events []model.DowntimeEvent, p filterParams) []model.DowntimeEvent {
	shiftStart, shiftEnd := s.cfg.ShiftWindow()

	out := make([]model.DowntimeEvent, 0, len(events))
	for _, e := range events {
		if e.Date.Before(p.start) || e.Date.After(p.end) {
			continue
		}
		if p.workflow == WorkflowAll {
			if !s.inAllowList(e.Workflow) {
				continue
			}
		} else if e.Workflow != p.workflow {
			continue
		}
		if p.shiftOnly {
			wd := e.StartTime.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				continue
			}
			minOfDay := e.StartTime.Hour()*60 + e.StartTime.Minute()
			if minOfDay < shiftStart || minOfDay >= shiftEnd {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// loadFiltered 读取 memo 化的基表并应用过滤参数
func (s *downtimeService) loadFiltered(ctx context.Context, q *dto.DowntimeFilterQuery) ([]model.DowntimeEvent, error) {
	p, err := s.parseFilter(q)
	if err != nil {
		return nil, err
	}
	events, _, err := s.repo.Downtime.Load(ctx)
	if err != nil {
		s.logger.Error("加载停机数据失败", zap.Error(err))
		return nil, err
	}
	return s.applyFilter(events, p), nil
}

// ────────────────────── Overview ──────────────────────

// Overview 核心指标；刻意在原因关键字剔除之前计算
func (s *downtimeService) Overview(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.OverviewResponse, error) {
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.OverviewResponse{NoData: true}, nil
	}

	var totalMin, longest float64
	for _, e := range filtered {
		totalMin += e.DurationMin
		if e.DurationMin > longest {
			longest = e.DurationMin
		}
	}

	return &dto.OverviewResponse{
		TotalDowntimeHours: totalMin / 60,
		EventCount:         len(filtered),
		LongestEventMin:    longest,
	}, nil
}

// ────────────────────── ReasonBreakdown ──────────────────────

func (s *downtimeService) ReasonBreakdown(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.ReasonBreakdownResponse, error) {
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.ReasonBreakdownResponse{NoData: true}, nil
	}

	kept, excluded := s.excludeReasons(filtered)

	totals := make(map[string]float64)
	for _, e := range kept {
		if e.Reason == "" {
			continue
		}
		totals[e.Reason] += e.DurationMin
	}
	ranked := rankDesc(totals)

	var total float64
	for _, r := range ranked {
		total += r.val
	}
	if len(ranked) == 0 || total < 0.1 {
		return &dto.ReasonBreakdownResponse{NoData: true, ExcludedRows: excluded}, nil
	}

	// 颜色按完整排名枚举分配
	colors := make(map[string]string, len(ranked))
	for i, r := range ranked {
		colors[r.key] = reasonPalette[i%len(reasonPalette)]
	}

	toSlice := func(r kv) dto.ReasonSlice {
		return dto.ReasonSlice{
			Reason:      r.key,
			DurationMin: r.val,
			Percentage:  r.val / total * 100,
			Color:       colors[r.key],
		}
	}

	bar := make([]dto.ReasonSlice, 0, s.cfg.TopNBar)
	for i, r := range ranked {
		if i >= s.cfg.TopNBar {
			break
		}
		bar = append(bar, toSlice(r))
	}

	var donut []dto.ReasonSlice
	if len(ranked) > s.cfg.TopNDonut {
		var topSum float64
		for i := 0; i < s.cfg.TopNDonut; i++ {
			donut = append(donut, toSlice(ranked[i]))
			topSum += ranked[i].val
		}
		// 合并桶精确等于 总量−前 N 之和
		rest := total - topSum
		if rest > 0.01 {
			donut = append(donut, dto.ReasonSlice{
				Reason:      fmt.Sprintf("Other (%d)", len(ranked)-s.cfg.TopNDonut),
				DurationMin: rest,
				Percentage:  rest / total * 100,
				Color:       otherColor,
			})
		}
	} else {
		for _, r := range ranked {
			donut = append(donut, toSlice(r))
		}
	}

	return &dto.ReasonBreakdownResponse{
		ExcludedRows:     excluded,
		TotalDurationMin: total,
		Bar:              bar,
		Donut:            donut,
	}, nil
}

// excludeReasons 剔除原因命中任一配置关键字的行（大小写不敏感的子串匹配）
func (s *downtimeService) excludeReasons(events []model.DowntimeEvent) (kept []model.DowntimeEvent, excluded int) {
	if len(s.cfg.ExcludedReasonKeywords) == 0 {
		return events, 0
	}
	kept = make([]model.DowntimeEvent, 0, len(events))
	for _, e := range events {
		reason := strings.ToLower(e.Reason)
		hit := false
		for _, kw := range s.cfg.ExcludedReasonKeywords {
			if strings.Contains(reason, strings.ToLower(kw)) {
				hit = true
				break
			}
		}
		if hit {
			excluded++
			continue
		}
		kept = append(kept, e)
	}
	return kept, excluded
}

// ────────────────────── OrderImpact ──────────────────────

func (s *downtimeService) OrderImpact(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.OrderImpactResponse, error) {
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.OrderImpactResponse{NoData: true}, nil
	}

	// Top 3 订单（总停机时长）
	totals := make(map[string]float64)
	for _, e := range filtered {
		totals[e.OrderNumber] += e.DurationMin
	}
	ranked := rankDesc(totals)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	topOrders := make([]dto.OrderDowntimeRow, 0, len(ranked))
	for _, r := range ranked {
		topOrders = append(topOrders, dto.OrderDowntimeRow{OrderNumber: r.key, DurationMin: r.val})
	}

	// 每个 Top 订单的单次最长停机
	longest := make([]dto.LongestEventRow, 0, len(ranked))
	for _, r := range ranked {
		var best *model.DowntimeEvent
		for i := range filtered {
			e := &filtered[i]
			if e.OrderNumber != r.key {
				continue
			}
			if best == nil || e.DurationMin > best.DurationMin {
				best = e
			}
		}
		if best != nil {
			longest = append(longest, dto.LongestEventRow{
				OrderNumber: best.OrderNumber,
				Start:       best.StartTime.Format("2006-01-02 15:04"),
				Stop:        best.StopTime.Format("2006-01-02 15:04"),
				DurationMin: best.DurationMin,
				Reason:      best.Reason,
			})
		}
	}

	// 每个工作日（周一至周五）的 Top 3 订单，附该订单当日最耗时的原因
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	var byWeekday []dto.WeekdayTopOrders
	for _, wd := range weekdays {
		dayTotals := make(map[string]float64)
		reasonTotals := make(map[string]map[string]float64) // order → reason → min
		for _, e := range filtered {
			if e.StartTime.Weekday() != wd {
				continue
			}
			dayTotals[e.OrderNumber] += e.DurationMin
			if reasonTotals[e.OrderNumber] == nil {
				reasonTotals[e.OrderNumber] = make(map[string]float64)
			}
			reasonTotals[e.OrderNumber][e.Reason] += e.DurationMin
		}
		if len(dayTotals) == 0 {
			continue
		}

		dayRanked := rankDesc(dayTotals)
		if len(dayRanked) > 3 {
			dayRanked = dayRanked[:3]
		}

		rows := make([]dto.WeekdayOrderRow, 0, len(dayRanked))
		for _, r := range dayRanked {
			topReason := ""
			if reasons := rankDesc(reasonTotals[r.key]); len(reasons) > 0 {
				topReason = reasons[0].key
			}
			rows = append(rows, dto.WeekdayOrderRow{
				OrderNumber:   r.key,
				Reason:        topReason,
				DurationMin:   r.val,
				DurationHours: r.val / 60,
			})
		}
		byWeekday = append(byWeekday, dto.WeekdayTopOrders{Weekday: wd.String(), Orders: rows})
	}

	return &dto.OrderImpactResponse{
		TopOrders:     topOrders,
		LongestEvents: longest,
		ByWeekday:     byWeekday,
	}, nil
}

// ────────────────────── Trend ──────────────────────

func (s *downtimeService) Trend(ctx context.Context, q *dto.DowntimeFilterQuery, period string) (*dto.TrendResponse, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.TrendResponse{NoData: true, Period: period}, nil
	}

	totals := make(map[string]float64)
	for _, e := range filtered {
		totals[periodKey(e.StartTime, period)] += e.DurationMin
	}

	keys := sortedKeys(totals)
	points := make([]dto.TrendPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, dto.TrendPoint{Period: k, DurationMin: totals[k]})
	}

	return &dto.TrendResponse{Period: period, Points: points}, nil
}

// validatePeriod 校验分组周期
func validatePeriod(period string) error {
	switch period {
	case "day", "week", "month":
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// periodKey 时间桶键：日 "2006-01-02"、ISO 周 "2006-W01"、月 "2006-01"
// 三种格式的字符串序都与时间序一致
func periodKey(t time.Time, period string) string {
	switch period {
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format(dayLayout)
	}
}

// ────────────────────── Performance ──────────────────────

func (s *downtimeService) Performance(ctx context.Context, q *dto.DowntimeFilterQuery) (*dto.PerformanceResponse, error) {
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.PerformanceResponse{NoData: true, ShiftMinutes: s.cfg.ShiftMinutes}, nil
	}

	totals := make(map[string]float64)
	for _, e := range filtered {
		totals[e.DateKey()] += e.DurationMin
	}

	days := sortedKeys(totals)
	points := make([]dto.PerformancePoint, 0, len(days))
	values := make([]float64, 0, len(days))
	for _, day := range days {
		min := totals[day]
		pct := 100 * (1 - min/float64(s.cfg.ShiftMinutes))
		if pct < 0 {
			pct = 0
		}
		points = append(points, dto.PerformancePoint{Day: day, DowntimeMin: min, PerformancePct: pct})
		values = append(values, min)
	}

	resp := &dto.PerformanceResponse{ShiftMinutes: s.cfg.ShiftMinutes, Points: points}

	// 少于 2 天时跳过离群检测，绝不用退化统计量硬算
	if len(days) < 2 {
		resp.InsufficientData = true
		return resp, nil
	}

	m, std := mean(values), sampleStdDev(values)
	threshold := m + 1.5*std
	if std == 0 {
		threshold = m + 1
	}
	resp.Threshold = &threshold

	for i := range resp.Points {
		if resp.Points[i].DowntimeMin > threshold {
			resp.Points[i].IsOutlier = true
			resp.Outliers = append(resp.Outliers, resp.Points[i])
		}
	}

	return resp, nil
}

// ────────────────────── Pareto ──────────────────────

func (s *downtimeService) Pareto(ctx context.Context, q *dto.DowntimeFilterQuery, period, bucket string) (*dto.ParetoResponse, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	filtered, err := s.loadFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return &dto.ParetoResponse{NoData: true, Period: period}, nil
	}

	bucketSet := make(map[string]bool)
	for _, e := range filtered {
		bucketSet[periodKey(e.StartTime, period)] = true
	}
	buckets := make([]string, 0, len(bucketSet))
	for b := range bucketSet {
		buckets = append(buckets, b)
	}
	// 最近的桶在前
	sort.Sort(sort.Reverse(sort.StringSlice(buckets)))

	if bucket == "" {
		bucket = buckets[0]
	}

	var inBucket []model.DowntimeEvent
	for _, e := range filtered {
		if periodKey(e.StartTime, period) == bucket {
			inBucket = append(inBucket, e)
		}
	}

	kept, _ := s.excludeReasons(inBucket)
	totals := make(map[string]float64)
	for _, e := range kept {
		if e.Reason == "" {
			continue
		}
		totals[e.Reason] += e.DurationMin
	}
	ranked := rankDesc(totals)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	resp := &dto.ParetoResponse{Period: period, Buckets: buckets, Bucket: bucket}
	if len(ranked) == 0 {
		resp.NoData = true
		return resp, nil
	}
	for _, r := range ranked {
		resp.TopReasons = append(resp.TopReasons, dto.ParetoReason{Reason: r.key, DurationMin: r.val})
	}
	return resp, nil
}

// ────────────────────── FilterOptions ──────────────────────

func (s *downtimeService) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	events, dReport, err := s.repo.Downtime.Load(ctx)
	if err != nil {
		s.logger.Error("加载停机数据失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.FilterOptionsResponse{
		Periods: []string{"day", "week", "month"},
	}
	if dReport != nil {
		resp.DowntimeLoad = &dto.DowntimeLoadInfo{
			StartParseErrors: dReport.StartParseErrors,
			StopParseErrors:  dReport.StopParseErrors,
			NegativeDuration: dReport.NegativeDuration,
			DroppedRows:      dReport.DroppedRows,
		}
	}

	// 数据中实际出现且在白名单内的生产线
	seen := make(map[string]bool)
	var minDate, maxDate time.Time
	for _, e := range events {
		if s.inAllowList(e.Workflow) {
			seen[e.Workflow] = true
		}
		if minDate.IsZero() || e.Date.Before(minDate) {
			minDate = e.Date
		}
		if maxDate.IsZero() || e.Date.After(maxDate) {
			maxDate = e.Date
		}
	}
	for w := range seen {
		resp.Workflows = append(resp.Workflows, w)
	}
	sort.Strings(resp.Workflows)

	if !minDate.IsZero() {
		resp.MinDate = minDate.Format(dayLayout)
		resp.MaxDate = maxDate.Format(dayLayout)
		defaultStart := maxDate.AddDate(0, 0, -30)
		if defaultStart.Before(minDate) {
			defaultStart = minDate
		}
		resp.DefaultStartDate = defaultStart.Format(dayLayout)
		resp.DefaultEndDate = maxDate.Format(dayLayout)
	}

	// 订单数据是次数据源：失败只降级订单相关控件
	orders, oReport, err := s.repo.Order.Load(ctx)
	if err != nil {
		s.logger.Warn("订单数据不可用，订单视图降级", zap.Error(err))
		return resp, nil
	}
	resp.OrderDataAvailable = true
	if oReport != nil {
		resp.OrderLoad = &dto.OrderLoadInfo{DroppedRows: oReport.DroppedRows}
	}
	lineSet := make(map[string]bool)
	for _, o := range orders {
		lineSet[o.Line] = true
	}
	for l := range lineSet {
		resp.OrderLines = append(resp.OrderLines, l)
	}
	sort.Strings(resp.OrderLines)

	return resp, nil
}

// ────────────────────── 通用辅助 ──────────────────────

type kv struct {
	key string
	val float64
}

// rankDesc 按值降序排名；同值按键升序保证结果稳定
func rankDesc(m map[string]float64) []kv {
	out := make([]kv, 0, len(m))
	for k, v := range m {
		out = append(out, kv{key: k, val: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].val != out[j].val {
			return out[i].val > out[j].val
		}
		return out[i].key < out[j].key
	})
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// [自证通过] internal/service/downtime_service.go
