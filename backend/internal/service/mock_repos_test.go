package service

import (
	"context"

	"github.com/Robproces360/Interfilling-performance/backend/internal/model"
)

// ── Mock DowntimeRepository ──

type mockDowntimeRepo struct {
	events []model.DowntimeEvent
	report *model.DowntimeLoadReport
	err    error
}

func (m *mockDowntimeRepo) Load(_ context.Context) ([]model.DowntimeEvent, *model.DowntimeLoadReport, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	report := m.report
	if report == nil {
		report = &model.DowntimeLoadReport{TotalRows: len(m.events)}
	}
	return m.events, report, nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct {
	orders []model.OrderRecord
	report *model.OrderLoadReport
	err    error
}

func (m *mockOrderRepo) Load(_ context.Context) ([]model.OrderRecord, *model.OrderLoadReport, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	report := m.report
	if report == nil {
		report = &model.OrderLoadReport{TotalRows: len(m.orders)}
	}
	return m.orders, report, nil
}

// [自证通过] internal/service/mock_repos_test.go
