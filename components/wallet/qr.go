package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-wallet/components/wallet/chart"
)

// PaymentMarker identifies simulated wallet payment payloads.
const PaymentMarker = "UKI-WALLET-PAYMENT"

const (
	defaultPollInterval      = 100 * time.Millisecond
	defaultProcessDelay      = 2 * time.Second
	defaultDetectProbability = 0.1
	demoMerchant             = "Toko ABC"
)

var (
	// ErrCameraUnavailable is returned when the camera cannot be opened.
	ErrCameraUnavailable = errors.New("wallet: camera unavailable")
	// ErrInvalidPayload is returned for scanned codes that are not wallet payments.
	ErrInvalidPayload = errors.New("wallet: invalid QR payload")
	// ErrScanActive is returned when a scan is already running.
	ErrScanActive = errors.New("wallet: scan already running")
	// ErrNoStream is returned by ToggleFlash when no scan is running.
	ErrNoStream = errors.New("wallet: camera stream not open")
	// ErrShareUnsupported is returned when the QR surface cannot be encoded.
	ErrShareUnsupported = errors.New("wallet: surface cannot be exported")
)

// CameraStream is an open capture stream.
type CameraStream interface {
	TorchSupported() bool
	SetTorch(on bool) error
	Close() error
}

// Camera opens capture streams. Denied access is reported as an error.
type Camera interface {
	Open(ctx context.Context) (CameraStream, error)
}

// Detector is polled during a scan and reports a payload once one is seen.
type Detector interface {
	Detect() (payload string, ok bool)
}

// Notifier shows toast messages.
type Notifier interface {
	Show(ctx context.Context, message string, kind NotificationKind, ttl time.Duration) Notification
}

// Loader drives the global loading overlay.
type Loader interface {
	Show(ctx context.Context, message, style string) string
	Hide(ctx context.Context, token string)
}

// PaymentRequest is the dialog shown after a payment code is scanned.
type PaymentRequest struct {
	ID       string `json:"id"`
	Merchant string `json:"merchant"`
	Amount   int64  `json:"amount"`
	Payload  string `json:"payload"`
}

// GeneratedQR describes a receive-payment code.
type GeneratedQR struct {
	Payload     string `json:"payload"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// SimulatedCamera is a stand-in camera. Denied makes Open fail.
type SimulatedCamera struct {
	Denied bool
	Torch  bool
}

// Open returns a simulated stream.
func (c SimulatedCamera) Open(ctx context.Context) (CameraStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Denied {
		return nil, errors.New("permission denied")
	}
	return &simulatedStream{torch: c.Torch}, nil
}

type simulatedStream struct {
	mu     sync.Mutex
	torch  bool
	lit    bool
	closed bool
}

func (s *simulatedStream) TorchSupported() bool { return s.torch }

func (s *simulatedStream) SetTorch(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNoStream
	}
	s.lit = on
	return nil
}

func (s *simulatedStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// RandomDetector reports Payload with the given probability per poll.
type RandomDetector struct {
	mu          sync.Mutex
	rnd         *rand.Rand
	probability float64
	payload     string
}

// NewRandomDetector builds a detector that hits with probability p.
func NewRandomDetector(rnd *rand.Rand, p float64, payload string) *RandomDetector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if payload == "" {
		payload = PaymentMarker + "-12345"
	}
	return &RandomDetector{rnd: rnd, probability: p, payload: payload}
}

// Detect rolls once.
func (d *RandomDetector) Detect() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rnd.Float64() < d.probability {
		return d.payload, true
	}
	return "", false
}

// QROptions configures a QRSimulator.
type QROptions struct {
	Camera       Camera
	Detector     Detector
	Notifier     Notifier
	Loader       Loader
	Publisher    Publisher
	Telemetry    Telemetry
	Formatter    *Formatter
	Rand         *rand.Rand
	Now          func() time.Time
	PollInterval time.Duration
	// ProcessDelay defaults to 2s; a negative value skips the wait.
	ProcessDelay time.Duration
	DarkColor    string
	LightColor   string
}

// QRSimulator fakes the scan-to-pay and receive-QR flows. Detection is a
// random stub; no image decoding happens.
type QRSimulator struct {
	mu        sync.Mutex
	stream    CameraStream
	flash     bool
	camera    Camera
	detector  Detector
	notifier  Notifier
	loader    Loader
	publisher Publisher
	telemetry Telemetry
	formatter *Formatter
	rnd       *rand.Rand
	rndMu     sync.Mutex
	now       func() time.Time
	poll      time.Duration
	delay     time.Duration
	dark      string
	light     string
}

type noopNotifier struct{}

func (noopNotifier) Show(_ context.Context, message string, kind NotificationKind, ttl time.Duration) Notification {
	return Notification{Message: message, Kind: kind, TTL: ttl}
}

type noopLoader struct{}

func (noopLoader) Show(context.Context, string, string) string { return "" }
func (noopLoader) Hide(context.Context, string)                {}

// NewQRSimulator applies defaults: simulated camera, 10% detector, 100ms
// polling and a 2s processing delay.
func NewQRSimulator(opts QROptions) *QRSimulator {
	q := &QRSimulator{
		camera:    opts.Camera,
		detector:  opts.Detector,
		notifier:  opts.Notifier,
		loader:    opts.Loader,
		publisher: normalizePublisher(opts.Publisher),
		telemetry: normalizeTelemetry(opts.Telemetry),
		formatter: normalizeFormatter(opts.Formatter),
		rnd:       opts.Rand,
		now:       opts.Now,
		poll:      opts.PollInterval,
		delay:     opts.ProcessDelay,
		dark:      opts.DarkColor,
		light:     opts.LightColor,
	}
	if q.rnd == nil {
		q.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if q.camera == nil {
		q.camera = SimulatedCamera{Torch: true}
	}
	if q.detector == nil {
		q.detector = NewRandomDetector(rand.New(rand.NewSource(q.rnd.Int63())), defaultDetectProbability, "")
	}
	if q.notifier == nil {
		q.notifier = noopNotifier{}
	}
	if q.loader == nil {
		q.loader = noopLoader{}
	}
	if q.now == nil {
		q.now = time.Now
	}
	if q.poll <= 0 {
		q.poll = defaultPollInterval
	}
	if q.delay < 0 {
		q.delay = 0
	} else if opts.ProcessDelay == 0 {
		q.delay = defaultProcessDelay
	}
	if _, err := chart.ParseHex(q.dark); err != nil {
		q.dark = "#000000"
	}
	if _, err := chart.ParseHex(q.light); err != nil {
		q.light = "#FFFFFF"
	}
	return q
}

func (q *QRSimulator) notify(ctx context.Context, kind NotificationKind, message string) {
	q.notifier.Show(ctx, message, kind, DefaultTTL(kind))
}

func (q *QRSimulator) randInt63n(n int64) int64 {
	q.rndMu.Lock()
	defer q.rndMu.Unlock()
	return q.rnd.Int63n(n)
}

// Scan opens the camera and polls the detector until a code is seen or ctx
// ends. Camera failures raise a single error toast and abort the scan.
func (q *QRSimulator) Scan(ctx context.Context) (PaymentRequest, error) {
	q.mu.Lock()
	if q.stream != nil {
		q.mu.Unlock()
		return PaymentRequest{}, ErrScanActive
	}
	stream, err := q.camera.Open(ctx)
	if err != nil {
		q.mu.Unlock()
		q.notify(ctx, KindError, "Tidak dapat mengakses kamera")
		q.telemetry.Record(ctx, "wallet.qr.camera_failed", map[string]any{"error": err.Error()})
		return PaymentRequest{}, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	q.stream = stream
	q.mu.Unlock()
	defer q.Stop()

	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return PaymentRequest{}, ctx.Err()
		case <-ticker.C:
			payload, ok := q.detector.Detect()
			if !ok {
				continue
			}
			q.Stop()
			return q.handleDetected(ctx, payload)
		}
	}
}

func (q *QRSimulator) handleDetected(ctx context.Context, payload string) (PaymentRequest, error) {
	req, err := q.ParsePayload(payload)
	if err != nil {
		q.notify(ctx, KindError, "QR Code tidak valid")
		return PaymentRequest{}, err
	}
	q.telemetry.Record(ctx, "wallet.qr.detected", map[string]any{"payment_id": req.ID, "amount": req.Amount})
	published := req
	q.publisher.Publish(ctx, Event{Type: EventPaymentDetected, Payment: &published})
	return req, nil
}

// ParsePayload turns a scanned payload into a payment request. The payment id
// is the segment after the last '-'.
func (q *QRSimulator) ParsePayload(payload string) (PaymentRequest, error) {
	if !strings.Contains(payload, PaymentMarker) {
		return PaymentRequest{}, fmt.Errorf("%w: %q", ErrInvalidPayload, payload)
	}
	id := payload[strings.LastIndex(payload, "-")+1:]
	return PaymentRequest{
		ID:       id,
		Merchant: demoMerchant,
		Amount:   10000 + q.randInt63n(500000),
		Payload:  payload,
	}, nil
}

// ProcessPayment shows progress, waits the processing delay and confirms.
func (q *QRSimulator) ProcessPayment(ctx context.Context, req PaymentRequest) error {
	token := q.loader.Show(ctx, "Memproses pembayaran...", "")
	defer q.loader.Hide(ctx, token)
	q.notify(ctx, KindInfo, "Memproses pembayaran...")

	if q.delay > 0 {
		timer := time.NewTimer(q.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	q.notify(ctx, KindSuccess, fmt.Sprintf("Pembayaran %s berhasil!", q.formatter.FormatCurrency(req.Amount)))
	q.telemetry.Record(ctx, "wallet.qr.paid", map[string]any{"payment_id": req.ID, "amount": req.Amount})
	return nil
}

// Generate draws a receive-payment code onto surface. A nil surface is a
// no-op and returns ok=false.
func (q *QRSimulator) Generate(ctx context.Context, surface chart.Surface) (GeneratedQR, bool) {
	if surface == nil {
		return GeneratedQR{}, false
	}
	code := GeneratedQR{
		Payload:     fmt.Sprintf("%s-%d", PaymentMarker, q.now().UnixMilli()),
		Amount:      50000 + q.randInt63n(1000000),
		Description: "Scan untuk membayar",
	}
	surface.Clear()
	chart.DrawQR(surface, code.Payload, chart.MustHex(q.dark), chart.MustHex(q.light))
	q.notify(ctx, KindSuccess, "QR Code berhasil dibuat!")
	return code, true
}

type pngEncoder interface {
	EncodePNG(w io.Writer) error
}

// Share writes the QR surface as PNG. Failures raise an error toast.
func (q *QRSimulator) Share(ctx context.Context, surface chart.Surface, w io.Writer) error {
	if surface == nil {
		return nil
	}
	enc, ok := surface.(pngEncoder)
	if !ok {
		q.notify(ctx, KindError, "Gagal membagikan QR Code")
		return ErrShareUnsupported
	}
	if err := enc.EncodePNG(w); err != nil {
		q.notify(ctx, KindError, "Gagal membagikan QR Code")
		return fmt.Errorf("wallet: share QR: %w", err)
	}
	return nil
}

// ToggleFlash flips the torch when the stream supports it.
func (q *QRSimulator) ToggleFlash() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stream == nil {
		return false, ErrNoStream
	}
	if !q.stream.TorchSupported() {
		return q.flash, nil
	}
	if err := q.stream.SetTorch(!q.flash); err != nil {
		return q.flash, err
	}
	q.flash = !q.flash
	return q.flash, nil
}

// Scanning reports whether a camera stream is open.
func (q *QRSimulator) Scanning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stream != nil
}

// Stop closes the camera stream if one is open.
func (q *QRSimulator) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stream == nil {
		return
	}
	_ = q.stream.Close()
	q.stream = nil
	q.flash = false
}
