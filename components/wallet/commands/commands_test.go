package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type stubTelemetry struct {
	calls  int
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.events = append(s.events, event)
}

type stubNotifier struct {
	message string
	kind    wallet.NotificationKind
	ttl     time.Duration
}

func (s *stubNotifier) Show(_ context.Context, message string, kind wallet.NotificationKind, ttl time.Duration) wallet.Notification {
	s.message, s.kind, s.ttl = message, kind, ttl
	return wallet.Notification{ID: "n1", Message: message, Kind: kind, TTL: ttl}
}

func newService(t *testing.T) *wallet.Service {
	t.Helper()
	svc, err := wallet.NewService(context.Background(), wallet.Options{
		Surfaces:  wallet.NewRecorderRegistry(),
		Activity:  wallet.NewSeededActivitySource(1),
		Scheduler: func(time.Duration, func()) func() { return func() {} },
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestThemeCommands(t *testing.T) {
	svc := newService(t)
	telemetry := &stubTelemetry{}

	if err := NewToggleThemeCommand(svc.Theme(), telemetry).Execute(context.Background(), ToggleThemeInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Theme().Current() != wallet.ThemeLight {
		t.Fatalf("expected light theme, got %s", svc.Theme().Current())
	}

	set := NewSetThemeCommand(svc.Theme(), telemetry)
	if err := set.Execute(context.Background(), SetThemeInput{Theme: "sepia"}); !errors.Is(err, wallet.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if err := set.Execute(context.Background(), SetThemeInput{Theme: "dark"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Theme().Current() != wallet.ThemeDark {
		t.Fatalf("expected dark theme")
	}
	if telemetry.calls != 2 {
		t.Fatalf("expected 2 telemetry events, got %d", telemetry.calls)
	}
}

func TestNavigationCommands(t *testing.T) {
	svc := newService(t)

	nav := NewNavigateCommand(svc, nil)
	if err := nav.Execute(context.Background(), NavigateInput{Page: "history"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := nav.Execute(context.Background(), NavigateInput{Page: "settings"}); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
	if svc.Pages().Current() != wallet.PageHistory {
		t.Fatalf("expected history page, got %s", svc.Pages().Current())
	}

	swipe := NewSwipeCommand(svc, nil)
	if err := swipe.Execute(context.Background(), SwipeInput{DX: 120}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Pages().Current() != wallet.PageAnalytics {
		t.Fatalf("expected analytics after right swipe, got %s", svc.Pages().Current())
	}
}

func TestSelectPeriodCommand(t *testing.T) {
	svc := newService(t)
	telemetry := &stubTelemetry{}
	cmd := NewSelectPeriodCommand(svc, telemetry)
	if err := cmd.Execute(context.Background(), SelectPeriodInput{Period: "yearly"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Period() != wallet.PeriodYear {
		t.Fatalf("expected year period, got %s", svc.Period())
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestShowNotificationCommand(t *testing.T) {
	notes := &stubNotifier{}
	cmd := NewShowNotificationCommand(notes, nil)

	if err := cmd.Execute(context.Background(), ShowNotificationInput{Message: "Halo", Kind: "bogus"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if notes.kind != wallet.KindInfo || notes.ttl != 4*time.Second {
		t.Fatalf("expected info default, got %s %s", notes.kind, notes.ttl)
	}

	ttl := time.Duration(0)
	if err := cmd.Execute(context.Background(), ShowNotificationInput{Message: "Tetap", Kind: "error", TTL: &ttl}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if notes.ttl != 0 || notes.kind != wallet.KindError {
		t.Fatalf("expected persistent error toast, got %s %s", notes.kind, notes.ttl)
	}

	if err := cmd.Execute(context.Background(), ShowNotificationInput{Message: "  "}); err == nil {
		t.Fatalf("expected blank message to fail")
	}
}

func TestBalanceAndChartCommands(t *testing.T) {
	svc := newService(t)

	if err := NewToggleBalanceCommand(svc.Wallet(), nil).Execute(context.Background(), ToggleBalanceInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !svc.Wallet().Account().BalanceHidden {
		t.Fatalf("expected balance hidden")
	}
	if err := NewRefreshBalanceCommand(svc.Wallet(), nil).Execute(context.Background(), RefreshBalanceInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Wallet().Account().Balance < 2500000 {
		t.Fatalf("unexpected balance %d", svc.Wallet().Account().Balance)
	}

	toggle := NewToggleChartCommand(svc, nil)
	if err := toggle.Execute(context.Background(), ToggleChartInput{Chart: wallet.SurfaceTrend}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.ChartVisible(wallet.SurfaceTrend) {
		t.Fatalf("expected trend hidden")
	}
	if err := toggle.Execute(context.Background(), ToggleChartInput{}); err == nil {
		t.Fatalf("expected missing chart id to fail")
	}
}

func TestCommandsRequireService(t *testing.T) {
	if err := NewNavigateCommand(nil, nil).Execute(context.Background(), NavigateInput{Page: "home"}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := NewSelectPeriodCommand(nil, nil).Execute(context.Background(), SelectPeriodInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}
