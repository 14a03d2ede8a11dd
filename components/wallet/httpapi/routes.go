package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// DefaultScanTimeout bounds a single scan request.
const DefaultScanTimeout = 15 * time.Second

// Config wires a fiber router with the wallet controller, handlers and
// event bus.
type Config struct {
	Router      fiber.Router
	Service     *wallet.Service
	Controller  *wallet.Controller
	Handlers    *Handlers
	Logger      *zerolog.Logger
	BasePath    string
	Routes      RouteConfig
	ScanTimeout time.Duration
}

// RouteConfig customizes the relative paths used for wallet endpoints.
type RouteConfig struct {
	HTML          string
	Shell         string
	Analytics     string
	Period        string
	Chart         string
	ChartToggle   string
	Theme         string
	ThemeToggle   string
	Notifications string
	Notification  string
	Loading       string
	Pages         string
	Navigate      string
	Swipe         string
	Back          string
	Transactions  string
	Account       string
	BalanceToggle string
	Refresh       string
	QR            string
	QRImage       string
	Scan          string
	Pay           string
	Flash         string
	WebSocket     string
}

// Register mounts the wallet routes (HTML, JSON, WebSocket) on a fiber router.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("httpapi: router is required")
	}
	if cfg.Service == nil {
		return errors.New("httpapi: service is required")
	}
	handlers := cfg.Handlers
	if handlers == nil {
		handlers = NewHandlers(cfg.Service, nil)
	}
	routes := defaultRouteConfig(cfg.Routes)
	scanTimeout := cfg.ScanTimeout
	if scanTimeout <= 0 {
		scanTimeout = DefaultScanTimeout
	}
	svc := cfg.Service

	r := cfg.Router
	if base := strings.TrimRight(cfg.BasePath, "/"); base != "" {
		r = r.Group(base)
	}
	if cfg.Logger != nil {
		r.Use(RequestLogger(*cfg.Logger))
	}

	if cfg.Controller != nil {
		r.Get(routes.HTML, func(c *fiber.Ctx) error {
			var buf bytes.Buffer
			if err := cfg.Controller.RenderTemplate(requestContext(c), &buf); err != nil {
				return respondError(c, http.StatusInternalServerError, err)
			}
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Send(buf.Bytes())
		})
	}

	r.Get(routes.Shell, handlers.HandleShell)
	r.Get(routes.Analytics, handlers.HandleAnalytics)
	r.Post(routes.Period, handlers.HandleSelectPeriod)
	r.Get(routes.Transactions, handlers.HandleTransactions)

	r.Get(routes.Theme, func(c *fiber.Ctx) error {
		palette := svc.Theme().Palette()
		return c.JSON(fiber.Map{
			"theme":       palette.Theme,
			"tokens":      palette.Tokens,
			"chart_theme": palette.ChartTheme,
		})
	})
	r.Post(routes.ThemeToggle, handlers.HandleToggleTheme)
	r.Post(routes.Theme, handlers.HandleSetTheme)

	r.Get(routes.Notifications, func(c *fiber.Ctx) error {
		return c.JSON(svc.Notifications().Visible())
	})
	r.Post(routes.Notifications, handlers.HandleNotify)
	r.Delete(routes.Notification, func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !svc.Notifications().Remove(requestContext(c), id) {
			return respondError(c, http.StatusNotFound, fmt.Errorf("notification %q not found", id))
		}
		return c.SendStatus(http.StatusNoContent)
	})
	r.Get(routes.Loading, func(c *fiber.Ctx) error {
		return c.JSON(svc.Loading().State())
	})

	r.Get(routes.Pages, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"current": svc.Pages().Current(), "nav": svc.Pages().Nav()})
	})
	r.Post(routes.Navigate, handlers.HandleNavigate)
	r.Post(routes.Swipe, handlers.HandleSwipe)
	r.Post(routes.Back, func(c *fiber.Ctx) error {
		page := svc.Pages().Back(requestContext(c))
		return c.JSON(fiber.Map{"current": page})
	})

	r.Post(routes.ChartToggle, handlers.HandleToggleChart)
	r.Get(routes.Chart, func(c *fiber.Ctx) error {
		file := c.Params("file")
		id := strings.TrimSuffix(file, path.Ext(file))
		switch path.Ext(file) {
		case ".png":
			var buf bytes.Buffer
			if err := svc.ChartPNG(requestContext(c), id, &buf); err != nil {
				return respondError(c, StatusFor(err), err)
			}
			c.Set(fiber.HeaderContentType, "image/png")
			return c.Send(buf.Bytes())
		case ".html", "":
			html, err := svc.ChartHTML(requestContext(c), id)
			if err != nil {
				return respondError(c, StatusFor(err), err)
			}
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.SendString(html)
		default:
			return respondError(c, http.StatusNotFound, fmt.Errorf("%w: %s", wallet.ErrUnknownChart, file))
		}
	})

	r.Get(routes.Account, func(c *fiber.Ctx) error {
		w := svc.Wallet()
		return c.JSON(fiber.Map{
			"account": w.Account(),
			"balance": w.BalanceText(),
			"points":  w.PointsText(),
			"tier":    w.TierText(),
		})
	})
	r.Post(routes.BalanceToggle, handlers.HandleToggleBalance)
	r.Post(routes.Refresh, handlers.HandleRefreshBalance)

	r.Post(routes.QR, func(c *fiber.Ctx) error {
		code, ok := svc.GenerateQR(requestContext(c))
		if !ok {
			return respondError(c, http.StatusServiceUnavailable, errors.New("qr surface not attached"))
		}
		return c.Status(http.StatusCreated).JSON(code)
	})
	r.Get(routes.QRImage, func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := svc.ShareQR(requestContext(c), &buf); err != nil {
			return respondError(c, StatusFor(err), err)
		}
		if buf.Len() == 0 {
			return respondError(c, http.StatusNotFound, errors.New("qr code not generated"))
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	})
	r.Post(routes.Scan, func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(requestContext(c), scanTimeout)
		defer cancel()
		req, err := svc.QR().Scan(ctx)
		if err != nil {
			return respondError(c, StatusFor(err), err)
		}
		return c.JSON(req)
	})
	r.Post(routes.Pay, func(c *fiber.Ctx) error {
		var req wallet.PaymentRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, http.StatusBadRequest, err)
		}
		if req.ID == "" || req.Amount <= 0 {
			return respondError(c, http.StatusBadRequest, fmt.Errorf("%w: payment id and amount are required", wallet.ErrInvalidRequest))
		}
		if err := svc.QR().ProcessPayment(requestContext(c), req); err != nil {
			return respondError(c, StatusFor(err), err)
		}
		return c.JSON(fiber.Map{"status": "paid", "id": req.ID})
	})
	r.Post(routes.Flash, func(c *fiber.Ctx) error {
		on, err := svc.QR().ToggleFlash()
		if err != nil {
			return respondError(c, StatusFor(err), err)
		}
		return c.JSON(fiber.Map{"flash": on})
	})

	if bus := svc.Bus(); bus != nil {
		registerWebSocket(r, bus, routes.WebSocket)
	}
	return nil
}

func registerWebSocket(r fiber.Router, bus *wallet.EventBus, route string) {
	r.Use(route, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get(route, websocket.New(func(conn *websocket.Conn) {
		events, cancel := bus.Subscribe()
		defer cancel()

		// the client never sends; a read error means it went away
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
}

// RequestLogger logs each request with zerolog.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		event := logger.Info()
		if err != nil {
			event = logger.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("wallet request")
		return err
	}
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&routes.HTML, "/")
	set(&routes.Shell, "/api/wallet/shell")
	set(&routes.Analytics, "/api/wallet/analytics")
	set(&routes.Period, "/api/wallet/analytics/period")
	set(&routes.Chart, "/api/wallet/charts/:file")
	set(&routes.ChartToggle, "/api/wallet/charts/:id/toggle")
	set(&routes.Theme, "/api/wallet/theme")
	set(&routes.ThemeToggle, "/api/wallet/theme/toggle")
	set(&routes.Notifications, "/api/wallet/notifications")
	set(&routes.Notification, "/api/wallet/notifications/:id")
	set(&routes.Loading, "/api/wallet/loading")
	set(&routes.Pages, "/api/wallet/pages")
	set(&routes.Navigate, "/api/wallet/pages/navigate")
	set(&routes.Swipe, "/api/wallet/pages/swipe")
	set(&routes.Back, "/api/wallet/pages/back")
	set(&routes.Transactions, "/api/wallet/transactions")
	set(&routes.Account, "/api/wallet/account")
	set(&routes.BalanceToggle, "/api/wallet/account/balance/toggle")
	set(&routes.Refresh, "/api/wallet/account/balance/refresh")
	set(&routes.QR, "/api/wallet/qr")
	set(&routes.QRImage, "/api/wallet/qr.png")
	set(&routes.Scan, "/api/wallet/qr/scan")
	set(&routes.Pay, "/api/wallet/qr/pay")
	set(&routes.Flash, "/api/wallet/qr/flash")
	set(&routes.WebSocket, "/api/wallet/ws")
	return routes
}
