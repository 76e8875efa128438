package model

import "time"

// OrderRecord 一条生产订单记录 — 由订单 CSV 清洗得到
// Line 与 Quantity 为必填，缺失行在加载时丢弃；Date 解析失败时保留零值
type OrderRecord struct {
	Date      time.Time `json:"date"`
	Line      string    `json:"line"`
	WorkOrder string    `json:"work_order"`
	Item      string    `json:"item"`
	Quantity  float64   `json:"quantity"`
}
