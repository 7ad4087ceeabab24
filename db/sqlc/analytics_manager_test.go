package sqlc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"
)

var testIpNet = net.IPNet{IP: net.IPv4(10, 0, 0, 7).To4(), Mask: net.CIDRMask(24, 32)}

func newMockedAnalytics(t *testing.T) (*AnalyticsManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return NewDbManager(New(db), testIpNet).Analytics, mock
}

func TestAnalyticsIncrement(t *testing.T) {
	analytics, mock := newMockedAnalytics(t)
	serverIp := pqtype.Inet{IPNet: testIpNet, Valid: true}

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_created\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_finished\)`).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()

	if err := analytics.IncrementGamesCreatedCount(ctx); err != nil {
		t.Fatal(err)
	}
	if err := analytics.IncrementGamesFinishedCount(ctx); err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestAnalyticsGetCounts(t *testing.T) {
	analytics, mock := newMockedAnalytics(t)
	serverIp := pqtype.Inet{IPNet: testIpNet, Valid: true}

	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(serverIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(3))
	mock.ExpectQuery(`SELECT games_finished FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(serverIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_finished"}).AddRow(2))

	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()

	created, err := analytics.GetGamesCreatedCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if created != 3 {
		t.Fatalf("expected games created: %d\tgot: %d", 3, created)
	}

	finished, err := analytics.GetGamesFinishedCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if finished != 2 {
		t.Fatalf("expected games finished: %d\tgot: %d", 2, finished)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestAnalyticsQueryError(t *testing.T) {
	analytics, mock := newMockedAnalytics(t)
	dbErr := errors.New("connection refused")

	mock.ExpectExec(`INSERT INTO game_server_analytics`).WillReturnError(dbErr)

	if err := analytics.IncrementGamesCreatedCount(context.Background()); !errors.Is(err, dbErr) {
		t.Fatalf("expected error: %v\tgot: %v", dbErr, err)
	}
}

func TestAnalyticsDisabled(t *testing.T) {
	analytics := NewDbManager(nil, testIpNet).Analytics
	if analytics.Enabled() {
		t.Fatal("analytics without a querier must be disabled")
	}

	if err := analytics.IncrementGamesCreatedCount(context.Background()); err != nil {
		t.Fatalf("disabled increment must be a no-op: %v", err)
	}
	if _, err := analytics.GetGamesCreatedCount(context.Background()); !errors.Is(err, ErrAnalyticsDisabled) {
		t.Fatalf("expected error: %v\tgot: %v", ErrAnalyticsDisabled, err)
	}

	var nilAnalytics *AnalyticsManager
	if nilAnalytics.Enabled() {
		t.Fatal("nil analytics must be disabled")
	}
}
