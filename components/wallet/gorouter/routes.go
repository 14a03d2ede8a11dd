package gorouter

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	wallet "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/components/wallet/commands"
	"github.com/goliatone/go-wallet/components/wallet/httpapi"
	"github.com/goliatone/go-wallet/components/wallet/queries"
)

// Config wires go-router with the wallet controller, handlers and event bus.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *wallet.Controller
	Handlers   *httpapi.Handlers
	Bus        *wallet.EventBus
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for wallet endpoints.
type RouteConfig struct {
	HTML           string
	Shell          string
	Analytics      string
	Period         string
	Transactions   string
	Theme          string
	ThemeToggle    string
	Navigate       string
	Swipe          string
	Notifications  string
	BalanceToggle  string
	BalanceRefresh string
	ChartToggle    string
	WebSocket      string
}

var errNotConfigured = errors.New("gorouter: handler not configured")

// Register mounts the wallet page, JSON API and event WebSocket on a
// go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/wallet"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.Handlers != nil {
		registerAPI(group, cfg.Handlers, routes)
	}
	if cfg.Bus != nil {
		registerWebSocket(group, cfg.Bus, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], h *httpapi.Handlers, routes RouteConfig) {
	r.Get(routes.Shell, router.WrapHandler(func(ctx router.Context) error {
		return query(ctx, h.Shell, queries.ShellInput{})
	}))

	r.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		return query(ctx, h.Analytics, queries.AnalyticsInput{Period: ctx.Query("period")})
	}))

	r.Post(routes.Period, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SelectPeriodInput
		if err := h.DecodeBody(ctx.Body(), wallet.SchemaPeriod, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return execute(ctx, h.SelectPeriod, payload, http.StatusOK, "updated")
	}))

	r.Get(routes.Transactions, router.WrapHandler(func(ctx router.Context) error {
		if h.Transactions == nil {
			return respondError(ctx, http.StatusNotImplemented, errNotConfigured)
		}
		input := queries.TransactionsInput{Query: ctx.Query("q"), Filter: ctx.Query("filter")}
		if err := h.ValidateSearch(input); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		view, err := h.Transactions.Query(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, httpapi.TransactionsPayload(view))
	}))

	r.Post(routes.ThemeToggle, router.WrapHandler(func(ctx router.Context) error {
		return execute(ctx, h.ToggleTheme, commands.ToggleThemeInput{}, http.StatusOK, "toggled")
	}))

	r.Post(routes.Theme, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetThemeInput
		if err := h.DecodeBody(ctx.Body(), wallet.SchemaTheme, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return execute(ctx, h.SetTheme, payload, http.StatusOK, "saved")
	}))

	r.Post(routes.Navigate, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.NavigateInput
		if err := h.DecodeBody(ctx.Body(), wallet.SchemaNavigate, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return execute(ctx, h.Navigate, payload, http.StatusOK, "navigated")
	}))

	r.Post(routes.Swipe, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SwipeInput
		if err := h.DecodeBody(ctx.Body(), wallet.SchemaSwipe, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return execute(ctx, h.Swipe, payload, http.StatusOK, "swiped")
	}))

	r.Post(routes.Notifications, router.WrapHandler(func(ctx router.Context) error {
		input, err := h.DecodeNotification(ctx.Body())
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return execute(ctx, h.Notify, input, http.StatusCreated, "queued")
	}))

	r.Post(routes.BalanceToggle, router.WrapHandler(func(ctx router.Context) error {
		return execute(ctx, h.ToggleBalance, commands.ToggleBalanceInput{}, http.StatusOK, "toggled")
	}))

	r.Post(routes.BalanceRefresh, router.WrapHandler(func(ctx router.Context) error {
		return execute(ctx, h.RefreshBalance, commands.RefreshBalanceInput{}, http.StatusAccepted, "refreshed")
	}))

	r.Post(routes.ChartToggle, router.WrapHandler(func(ctx router.Context) error {
		input := commands.ToggleChartInput{Chart: ctx.Param("id")}
		return execute(ctx, h.ToggleChart, input, http.StatusOK, "toggled")
	}))
}

func registerWebSocket[T any](r router.Router[T], bus *wallet.EventBus, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := bus.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func query[T, R any](ctx router.Context, q gocommand.Querier[T, R], msg T) error {
	if q == nil {
		return respondError(ctx, http.StatusNotImplemented, errNotConfigured)
	}
	result, err := q.Query(requestContext(ctx), msg)
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func execute[T any](ctx router.Context, cmd gocommand.Commander[T], msg T, status int, label string) error {
	if cmd == nil {
		return respondError(ctx, http.StatusNotImplemented, errNotConfigured)
	}
	if err := cmd.Execute(requestContext(ctx), msg); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(status, map[string]string{"status": label})
}

func requestContext(ctx router.Context) context.Context {
	if c := ctx.Context(); c != nil {
		return c
	}
	return context.Background()
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&routes.HTML, "/")
	set(&routes.Shell, "/api/shell")
	set(&routes.Analytics, "/api/analytics")
	set(&routes.Period, "/api/analytics/period")
	set(&routes.Transactions, "/api/transactions")
	set(&routes.Theme, "/api/theme")
	set(&routes.ThemeToggle, "/api/theme/toggle")
	set(&routes.Navigate, "/api/pages/navigate")
	set(&routes.Swipe, "/api/pages/swipe")
	set(&routes.Notifications, "/api/notifications")
	set(&routes.BalanceToggle, "/api/account/balance/toggle")
	set(&routes.BalanceRefresh, "/api/account/balance/refresh")
	set(&routes.ChartToggle, "/api/charts/:id/toggle")
	set(&routes.WebSocket, "/ws")
	return routes
}
