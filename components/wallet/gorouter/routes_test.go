package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	router "github.com/goliatone/go-router"

	wallet "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/components/wallet/httpapi"
)

func newService(t *testing.T) *wallet.Service {
	t.Helper()
	svc, err := wallet.NewService(context.Background(), wallet.Options{
		Surfaces:  wallet.NewRecorderRegistry(),
		Activity:  wallet.NewSeededActivitySource(2),
		Scheduler: func(time.Duration, func()) func() { return func() {} },
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func register(t *testing.T, svc *wallet.Service) *mockRouter {
	t.Helper()
	mock := newMockRouter()
	err := Register(Config[struct{}]{
		Router:     mock,
		Controller: wallet.NewController(wallet.ControllerOptions{Service: svc, Renderer: &stubRenderer{}}),
		Handlers:   httpapi.NewHandlers(svc, nil),
		Bus:        svc.Bus(),
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	return mock
}

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
	if err := Register(Config[struct{}]{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when controller missing")
	}
}

func TestRegisterMountsRoutes(t *testing.T) {
	mock := register(t, newService(t))

	for _, key := range []string{
		"GET:/wallet/",
		"GET:/wallet/api/shell",
		"GET:/wallet/api/analytics",
		"POST:/wallet/api/analytics/period",
		"GET:/wallet/api/transactions",
		"POST:/wallet/api/theme",
		"POST:/wallet/api/theme/toggle",
		"POST:/wallet/api/pages/navigate",
		"POST:/wallet/api/pages/swipe",
		"POST:/wallet/api/notifications",
		"POST:/wallet/api/account/balance/toggle",
		"POST:/wallet/api/account/balance/refresh",
		"POST:/wallet/api/charts/:id/toggle",
	} {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/wallet/ws"]; !ok {
		t.Fatalf("expected websocket route to be registered")
	}
}

func TestHTMLRoute(t *testing.T) {
	mock := register(t, newService(t))
	ctx := newMockContext()
	if err := mock.routes["GET:/wallet/"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected response body")
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ctx.headers["Content-Type"])
	}
}

func TestShellRoute(t *testing.T) {
	mock := register(t, newService(t))
	ctx := newMockContext()
	if err := mock.routes["GET:/wallet/api/shell"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var shell wallet.Shell
	if err := json.Unmarshal(ctx.body, &shell); err != nil {
		t.Fatalf("decode shell: %v", err)
	}
	if ctx.status != 200 || shell.Balance != "Rp 2.500.000" {
		t.Fatalf("unexpected shell response %d %+v", ctx.status, shell.Balance)
	}
}

func TestCommandRoutes(t *testing.T) {
	svc := newService(t)
	mock := register(t, svc)

	ctx := newMockContext()
	if err := mock.routes["POST:/wallet/api/theme/toggle"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 200 || svc.Theme().Current() != wallet.ThemeLight {
		t.Fatalf("expected light theme, got %d %s", ctx.status, svc.Theme().Current())
	}

	ctx = newMockContext()
	ctx.request = []byte(`{"theme":"sepia"}`)
	mock.routes["POST:/wallet/api/theme"](ctx)
	if ctx.status != 400 {
		t.Fatalf("expected 400 for invalid theme, got %d", ctx.status)
	}

	ctx = newMockContext()
	ctx.request = []byte(`{"page":"history"}`)
	mock.routes["POST:/wallet/api/pages/navigate"](ctx)
	if ctx.status != 200 || svc.Pages().Current() != wallet.PageHistory {
		t.Fatalf("expected history page, got %d %s", ctx.status, svc.Pages().Current())
	}

	ctx = newMockContext()
	ctx.params["id"] = wallet.SurfaceTrend
	mock.routes["POST:/wallet/api/charts/:id/toggle"](ctx)
	if ctx.status != 200 || svc.ChartVisible(wallet.SurfaceTrend) {
		t.Fatalf("expected trend chart hidden, got %d", ctx.status)
	}

	ctx = newMockContext()
	ctx.request = []byte(`{"message":"Halo","kind":"success","ttl_ms":1500}`)
	mock.routes["POST:/wallet/api/notifications"](ctx)
	if ctx.status != 201 {
		t.Fatalf("expected 201, got %d", ctx.status)
	}
	visible := svc.Notifications().Visible()
	if len(visible) == 0 || visible[len(visible)-1].TTL != 1500*time.Millisecond {
		t.Fatalf("expected toast with 1.5s ttl, got %+v", visible)
	}
}

func TestMissingCommanderIsNotImplemented(t *testing.T) {
	svc := newService(t)
	mock := newMockRouter()
	handlers := httpapi.NewHandlers(svc, nil)
	handlers.ToggleBalance = nil
	if err := Register(Config[struct{}]{
		Router:     mock,
		Controller: wallet.NewController(wallet.ControllerOptions{Service: svc, Renderer: &stubRenderer{}}),
		Handlers:   handlers,
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, ok := mock.ws["/wallet/ws"]; ok {
		t.Fatalf("expected no websocket route without a bus")
	}

	ctx := newMockContext()
	mock.routes["POST:/wallet/api/account/balance/toggle"](ctx)
	if ctx.status != 501 {
		t.Fatalf("expected 501, got %d", ctx.status)
	}
}

// --- Test helpers ---

// mockRouter records handlers. The embedded interface covers the router
// methods the wallet routes never call.
type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	m.routes[method+":"+m.prefix+path] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[m.prefix+path] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct {
	router.RouteInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

// routerContext aliases router.Context so the embedded field does not clash
// with the Context() method below.
type routerContext = router.Context

type mockContext struct {
	routerContext
	ctx     context.Context
	headers map[string]string
	request []byte
	body    []byte
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.request }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

type stubRenderer struct{}

func (stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", nil
}
