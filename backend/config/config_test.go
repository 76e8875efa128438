package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Data:   DataConfig{DowntimePath: "downtime.csv", OrderPath: "orders.csv"},
		Analysis: AnalysisConfig{
			Workflows:              []string{"VMPT1", "VMPT5", "COSMO"},
			ShiftStart:             "07:30",
			ShiftEnd:               "16:00",
			ShiftMinutes:           480,
			ExcludedReasonKeywords: []string{"Pauze"},
			TopNBar:                10,
			TopNDonut:              5,
			EffectiveCapacity:      19.6,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}
	start, end := cfg.Analysis.ShiftWindow()
	if start != 7*60+30 || end != 16*60 {
		t.Errorf("班次窗口期望 450~960，实际 %d~%d", start, end)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		keyword string
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"停机数据路径为空", func(c *Config) { c.Data.DowntimePath = "" }, "downtime_path"},
		{"白名单为空", func(c *Config) { c.Analysis.Workflows = nil }, "workflows"},
		{"产能非正", func(c *Config) { c.Analysis.EffectiveCapacity = 0 }, "effective_capacity"},
		{"产能为负", func(c *Config) { c.Analysis.EffectiveCapacity = -1 }, "effective_capacity"},
		{"班次时长非正", func(c *Config) { c.Analysis.ShiftMinutes = 0 }, "shift_minutes"},
		{"TopN 非正", func(c *Config) { c.Analysis.TopNBar = 0 }, "top_n"},
		{"班次起点格式错误", func(c *Config) { c.Analysis.ShiftStart = "7h30" }, "shift_start"},
		{"班次终点格式错误", func(c *Config) { c.Analysis.ShiftEnd = "25:00" }, "shift_end"},
		{"班次起点晚于终点", func(c *Config) { c.Analysis.ShiftStart = "17:00" }, "班次"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("期望校验失败，实际通过")
			}
			if !strings.Contains(err.Error(), c.keyword) {
				t.Errorf("错误信息应包含 %q，实际 %q", c.keyword, err.Error())
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
server:
  port: 9090
data:
  downtime_path: /data/downtime.csv
analysis:
  effective_capacity: 20.5
  excluded_reason_keywords: ["Pauze", "Lunch"]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("端口期望 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.Data.DowntimePath != "/data/downtime.csv" {
		t.Errorf("停机数据路径错误: %q", cfg.Data.DowntimePath)
	}
	if cfg.Analysis.EffectiveCapacity != 20.5 {
		t.Errorf("产能期望 20.5，实际 %v", cfg.Analysis.EffectiveCapacity)
	}
	if len(cfg.Analysis.ExcludedReasonKeywords) != 2 {
		t.Errorf("剔除关键字期望 2 个，实际 %v", cfg.Analysis.ExcludedReasonKeywords)
	}
	// 文件未覆盖的项使用默认值
	if cfg.Analysis.ShiftMinutes != 480 {
		t.Errorf("班次时长默认值期望 480，实际 %d", cfg.Analysis.ShiftMinutes)
	}
	if len(cfg.Analysis.Workflows) != 3 {
		t.Errorf("白名单默认值期望 3 条，实际 %v", cfg.Analysis.Workflows)
	}
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	content := `
analysis:
  effective_capacity: -5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("非法产能配置应在 Load 时失败")
	}
}

// [自证通过] config/config_test.go
