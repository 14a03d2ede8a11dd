package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	gocommand "github.com/goliatone/go-command"

	wallet "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/components/wallet/commands"
	"github.com/goliatone/go-wallet/components/wallet/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Validator wallet.RequestValidator

	ToggleTheme    gocommand.Commander[commands.ToggleThemeInput]
	SetTheme       gocommand.Commander[commands.SetThemeInput]
	Navigate       gocommand.Commander[commands.NavigateInput]
	Swipe          gocommand.Commander[commands.SwipeInput]
	SelectPeriod   gocommand.Commander[commands.SelectPeriodInput]
	Notify         gocommand.Commander[commands.ShowNotificationInput]
	ToggleBalance  gocommand.Commander[commands.ToggleBalanceInput]
	RefreshBalance gocommand.Commander[commands.RefreshBalanceInput]
	ToggleChart    gocommand.Commander[commands.ToggleChartInput]

	Shell        gocommand.Querier[queries.ShellInput, wallet.Shell]
	Analytics    gocommand.Querier[queries.AnalyticsInput, wallet.Snapshot]
	Transactions gocommand.Querier[queries.TransactionsInput, wallet.TransactionView]
}

// NewHandlers wires the default commands and queries around svc.
func NewHandlers(svc *wallet.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Validator:      svc.Validator(),
		ToggleTheme:    commands.NewToggleThemeCommand(svc.Theme(), telemetry),
		SetTheme:       commands.NewSetThemeCommand(svc.Theme(), telemetry),
		Navigate:       commands.NewNavigateCommand(svc, telemetry),
		Swipe:          commands.NewSwipeCommand(svc, telemetry),
		SelectPeriod:   commands.NewSelectPeriodCommand(svc, telemetry),
		Notify:         commands.NewShowNotificationCommand(svc.Notifications(), telemetry),
		ToggleBalance:  commands.NewToggleBalanceCommand(svc.Wallet(), telemetry),
		RefreshBalance: commands.NewRefreshBalanceCommand(svc.Wallet(), telemetry),
		ToggleChart:    commands.NewToggleChartCommand(svc, telemetry),
		Shell:          queries.NewShellQuery(svc),
		Analytics:      queries.NewAnalyticsQuery(svc),
		Transactions:   queries.NewTransactionsQuery(svc),
	}
}

var errNotConfigured = errors.New("httpapi: handler not configured")

func (h *Handlers) HandleShell(c *fiber.Ctx) error {
	if h.Shell == nil {
		return respondError(c, http.StatusNotImplemented, errNotConfigured)
	}
	shell, err := h.Shell.Query(requestContext(c), queries.ShellInput{})
	if err != nil {
		return respondError(c, StatusFor(err), err)
	}
	return c.JSON(shell)
}

func (h *Handlers) HandleAnalytics(c *fiber.Ctx) error {
	if h.Analytics == nil {
		return respondError(c, http.StatusNotImplemented, errNotConfigured)
	}
	snapshot, err := h.Analytics.Query(requestContext(c), queries.AnalyticsInput{Period: c.Query("period")})
	if err != nil {
		return respondError(c, StatusFor(err), err)
	}
	return c.JSON(snapshot)
}

func (h *Handlers) HandleTransactions(c *fiber.Ctx) error {
	if h.Transactions == nil {
		return respondError(c, http.StatusNotImplemented, errNotConfigured)
	}
	input := queries.TransactionsInput{Query: c.Query("q"), Filter: c.Query("filter")}
	if err := h.ValidateSearch(input); err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	view, err := h.Transactions.Query(requestContext(c), input)
	if err != nil {
		return respondError(c, StatusFor(err), err)
	}
	return c.JSON(TransactionsPayload(view))
}

// ValidateSearch checks the history query parameters against SchemaSearch.
func (h *Handlers) ValidateSearch(input queries.TransactionsInput) error {
	payload := map[string]any{}
	if input.Query != "" {
		payload["q"] = input.Query
	}
	if input.Filter != "" {
		payload["filter"] = strings.ToLower(input.Filter)
	}
	return h.validate(wallet.SchemaSearch, payload)
}

// TransactionsPayload is the JSON body of the history endpoint.
func TransactionsPayload(view wallet.TransactionView) map[string]any {
	income, expense := view.Totals()
	return map[string]any{
		"view":    view,
		"income":  income,
		"expense": expense,
	}
}

func (h *Handlers) HandleSelectPeriod(c *fiber.Ctx) error {
	var payload commands.SelectPeriodInput
	if err := h.decode(c, wallet.SchemaPeriod, &payload); err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	return execute(c, h.SelectPeriod, payload, http.StatusOK, "updated")
}

func (h *Handlers) HandleSetTheme(c *fiber.Ctx) error {
	var payload commands.SetThemeInput
	if err := h.decode(c, wallet.SchemaTheme, &payload); err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	return execute(c, h.SetTheme, payload, http.StatusOK, "saved")
}

func (h *Handlers) HandleToggleTheme(c *fiber.Ctx) error {
	return execute(c, h.ToggleTheme, commands.ToggleThemeInput{}, http.StatusOK, "toggled")
}

func (h *Handlers) HandleNavigate(c *fiber.Ctx) error {
	var payload commands.NavigateInput
	if err := h.decode(c, wallet.SchemaNavigate, &payload); err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	return execute(c, h.Navigate, payload, http.StatusOK, "navigated")
}

func (h *Handlers) HandleSwipe(c *fiber.Ctx) error {
	var payload commands.SwipeInput
	if err := h.decode(c, wallet.SchemaSwipe, &payload); err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	return execute(c, h.Swipe, payload, http.StatusOK, "swiped")
}

type notificationBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	TTLMS   *int64 `json:"ttl_ms"`
}

func (h *Handlers) HandleNotify(c *fiber.Ctx) error {
	input, err := h.DecodeNotification(c.Body())
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	return execute(c, h.Notify, input, http.StatusCreated, "queued")
}

// DecodeNotification validates a toast request and converts ttl_ms.
func (h *Handlers) DecodeNotification(body []byte) (commands.ShowNotificationInput, error) {
	var payload notificationBody
	if err := h.DecodeBody(body, wallet.SchemaNotification, &payload); err != nil {
		return commands.ShowNotificationInput{}, err
	}
	input := commands.ShowNotificationInput{Message: payload.Message, Kind: payload.Kind}
	if payload.TTLMS != nil {
		ttl := time.Duration(*payload.TTLMS) * time.Millisecond
		input.TTL = &ttl
	}
	return input, nil
}

func (h *Handlers) HandleToggleBalance(c *fiber.Ctx) error {
	return execute(c, h.ToggleBalance, commands.ToggleBalanceInput{}, http.StatusOK, "toggled")
}

func (h *Handlers) HandleRefreshBalance(c *fiber.Ctx) error {
	return execute(c, h.RefreshBalance, commands.RefreshBalanceInput{}, http.StatusAccepted, "refreshed")
}

func (h *Handlers) HandleToggleChart(c *fiber.Ctx) error {
	input := commands.ToggleChartInput{Chart: c.Params("id")}
	return execute(c, h.ToggleChart, input, http.StatusOK, "toggled")
}

func (h *Handlers) decode(c *fiber.Ctx, schema string, out any) error {
	return h.DecodeBody(c.Body(), schema, out)
}

// DecodeBody parses body into a generic document, validates it against
// schema and then decodes it into out. An empty body validates as {}.
func (h *Handlers) DecodeBody(body []byte, schema string, out any) error {
	payload := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return errors.Join(wallet.ErrInvalidRequest, err)
		}
	}
	if err := h.validate(schema, payload); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Join(wallet.ErrInvalidRequest, err)
	}
	return nil
}

func (h *Handlers) validate(schema string, payload map[string]any) error {
	if h.Validator == nil {
		return nil
	}
	return h.Validator.Validate(schema, payload)
}

func execute[T any](c *fiber.Ctx, cmd gocommand.Commander[T], msg T, status int, label string) error {
	if cmd == nil {
		return respondError(c, http.StatusNotImplemented, errNotConfigured)
	}
	if err := cmd.Execute(requestContext(c), msg); err != nil {
		return respondError(c, StatusFor(err), err)
	}
	return c.Status(status).JSON(fiber.Map{"status": label})
}

func requestContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrInvalidRequest),
		errors.Is(err, wallet.ErrInvalidTheme),
		errors.Is(err, wallet.ErrInvalidPayload),
		errors.Is(err, commands.ErrUnknownPage):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrUnknownChart):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrNoStream), errors.Is(err, wallet.ErrScanActive):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrShareUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, wallet.ErrCameraUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
