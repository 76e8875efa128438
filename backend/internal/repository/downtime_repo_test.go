package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

const downtimeHeader = "jobId,orderNumber,workflow,declaredBy,reason,comment,startTime,stopTime,duration,excludedFromProductivity,subType,options"

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时 CSV 失败: %v", err)
	}
	return path
}

func TestDowntimeRepo_Load(t *testing.T) {
	content := downtimeHeader + "\n" +
		"J1,W001,VMPT 1,Rob,Storing vulmachine,geen,01/01/24 08:00:00,01/01/24 08:15:00,15m,false,auto,\n" +
		"J2,W002,Cosmo,Anna,  ,,02/01/24 09:30:00,02/01/24 09:35:00,5m,false,auto,\n"
	path := writeTempCSV(t, "downtime.csv", content)

	events, report, err := NewDowntimeRepo(path, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if report.TotalRows != 2 || report.DroppedRows != 0 {
		t.Fatalf("期望 2 行 0 丢弃，实际 %+v", report)
	}

	e := events[0]
	// 产线名称规范化：大写并去空格
	if e.Workflow != "VMPT1" {
		t.Errorf("产线期望 VMPT1，实际 %q", e.Workflow)
	}
	if e.DurationMin != 15 || e.DurationSec != 900 {
		t.Errorf("时长期望 15 分钟，实际 %.1f 分钟 %.0f 秒", e.DurationMin, e.DurationSec)
	}
	// 日在前的时间戳格式
	if e.StartTime.Day() != 1 || e.StartTime.Month() != time.January || e.StartTime.Year() != 2024 {
		t.Errorf("开始时间解析错误: %v", e.StartTime)
	}
	if e.DateKey() != "2024-01-01" {
		t.Errorf("日期键期望 2024-01-01，实际 %s", e.DateKey())
	}

	// 空白原因归入 Unknown
	if events[1].Reason != "Unknown" {
		t.Errorf("空白原因期望 Unknown，实际 %q", events[1].Reason)
	}
	if events[1].Workflow != "COSMO" {
		t.Errorf("产线期望 COSMO，实际 %q", events[1].Workflow)
	}
}

func TestDowntimeRepo_LeadingIndexColumn(t *testing.T) {
	// 导出工具会带一个无名的前导索引列
	content := "," + downtimeHeader + "\n" +
		"0,J1,W001,VMPT5,Rob,Jam,,01/01/24 08:00:00,01/01/24 08:10:00,10m,false,auto,\n"
	path := writeTempCSV(t, "downtime.csv", content)

	events, _, err := NewDowntimeRepo(path, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if len(events) != 1 || events[0].JobID != "J1" || events[0].Workflow != "VMPT5" {
		t.Fatalf("索引列未正确跳过: %+v", events)
	}
}

func TestDowntimeRepo_DropsBadRows(t *testing.T) {
	content := downtimeHeader + "\n" +
		"J1,W001,VMPT1,Rob,Jam,,01/01/24 08:00:00,01/01/24 08:10:00,10m,false,auto,\n" +
		"J2,W002,VMPT1,Rob,Jam,,not-a-date,01/01/24 09:00:00,,false,auto,\n" +
		"J3,W003,VMPT1,Rob,Jam,,01/01/24 10:00:00,bad,,false,auto,\n" +
		"J4,W004,VMPT1,Rob,Jam,,01/01/24 11:00:00,01/01/24 10:00:00,,false,auto,\n"
	path := writeTempCSV(t, "downtime.csv", content)

	events, report, err := NewDowntimeRepo(path, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("期望仅 1 条有效事件，实际 %d", len(events))
	}
	if report.StartParseErrors != 1 || report.StopParseErrors != 1 {
		t.Errorf("解析错误计数期望 1/1，实际 %d/%d", report.StartParseErrors, report.StopParseErrors)
	}
	// 负时长的行丢弃而不是截断
	if report.NegativeDuration != 1 {
		t.Errorf("负时长计数期望 1，实际 %d", report.NegativeDuration)
	}
	if report.DroppedRows != 3 {
		t.Errorf("丢弃行数期望 3，实际 %d", report.DroppedRows)
	}
}

func TestDowntimeRepo_BadSchema(t *testing.T) {
	path := writeTempCSV(t, "downtime.csv", "a,b,c\n1,2,3\n")

	_, _, err := NewDowntimeRepo(path, zap.NewNop()).Load(context.Background())
	if !errors.Is(err, ErrDowntimeBadSchema) {
		t.Fatalf("期望 ErrDowntimeBadSchema，实际 %v", err)
	}
}

func TestDowntimeRepo_FileNotFound(t *testing.T) {
	repo := NewDowntimeRepo(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	_, _, err := repo.Load(context.Background())
	if !errors.Is(err, ErrDowntimeFileNotFound) {
		t.Fatalf("期望 ErrDowntimeFileNotFound，实际 %v", err)
	}
}

func TestDowntimeRepo_Memoization(t *testing.T) {
	content := downtimeHeader + "\n" +
		"J1,W001,VMPT1,Rob,Jam,,01/01/24 08:00:00,01/01/24 08:10:00,10m,false,auto,\n"
	path := writeTempCSV(t, "downtime.csv", content)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat 失败: %v", err)
	}
	origMod := info.ModTime()

	repo := NewDowntimeRepo(path, zap.NewNop())
	ctx := context.Background()

	first, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("首次 Load 失败: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("期望 1 条事件，实际 %d", len(first))
	}

	// 改写文件但保持 mtime 不变：应返回缓存
	twoRows := content + "J2,W002,VMPT1,Rob,Jam,,02/01/24 08:00:00,02/01/24 08:10:00,10m,false,auto,\n"
	if err := os.WriteFile(path, []byte(twoRows), 0o644); err != nil {
		t.Fatalf("改写文件失败: %v", err)
	}
	if err := os.Chtimes(path, origMod, origMod); err != nil {
		t.Fatalf("Chtimes 失败: %v", err)
	}
	cached, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("二次 Load 失败: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("mtime 未变化时应命中缓存，实际返回 %d 条", len(cached))
	}

	// mtime 前进：应重新解析
	newMod := origMod.Add(2 * time.Second)
	if err := os.Chtimes(path, newMod, newMod); err != nil {
		t.Fatalf("Chtimes 失败: %v", err)
	}
	fresh, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("三次 Load 失败: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("mtime 变化后应重新解析，期望 2 条，实际 %d", len(fresh))
	}
}

// [自证通过] internal/repository/downtime_repo_test.go
