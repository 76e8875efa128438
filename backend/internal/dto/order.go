package dto

// ── 订单目标工时模块 DTO ──

// TargetTimeRow 单个订单的目标工时
type TargetTimeRow struct {
	Date          string  `json:"date,omitempty"`
	Line          string  `json:"line"`
	WorkOrder     string  `json:"work_order"`
	Item          string  `json:"item"`
	Quantity      float64 `json:"quantity"`
	TargetTimeMin float64 `json:"target_time_min"`
}

// TargetTimeResponse 目标工时计算结果
type TargetTimeResponse struct {
	NoData            bool            `json:"no_data"`
	Line              string          `json:"line"`
	EffectiveCapacity float64         `json:"effective_capacity"`
	Rows              []TargetTimeRow `json:"rows"`
}
