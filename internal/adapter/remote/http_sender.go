package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const cartPath = "/cart.json"

// HTTPCartSender пишет корзину в удалённое JSON-хранилище одним PUT-запросом.
// Повторов нет: одна попытка на одно изменение.
type HTTPCartSender struct {
	BaseURL string
	Client  *http.Client
	Log     logrus.FieldLogger
}

func NewHTTPCartSender(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPCartSender {
	return &HTTPCartSender{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

func (s *HTTPCartSender) SendCart(ctx context.Context, cart domain.Cart) error {
	body, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(domain.ErrSyncFailed, err.Error())
	}
	ctx, span := s.tracer().Start(ctx, "PUT "+cartPath, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.BaseURL+cartPath, bytes.NewReader(body))
	if err != nil {
		return s.fail(span, err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client().Do(req)
	if err != nil {
		return s.fail(span, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.fail(span, errors.Errorf("unexpected status %d", resp.StatusCode))
	}
	s.logger().WithFields(logrus.Fields{"items": len(cart.Items), "bytes": len(body)}).Debug("cart sent")
	return nil
}

// FetchCart читает сохранённую корзину; отсутствующий документ (null или 404)
// возвращается как пустая корзина.
func (s *HTTPCartSender) FetchCart(ctx context.Context) (domain.Cart, error) {
	ctx, span := s.tracer().Start(ctx, "GET "+cartPath, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+cartPath, nil)
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "build request")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client().Do(req)
	if err != nil {
		span.RecordError(err)
		return domain.Cart{}, errors.Wrap(err, "fetch cart")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Cart{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Cart{}, errors.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "read cart")
	}
	var cart domain.Cart
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return cart, nil
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}, errors.Wrap(err, "decode cart")
	}
	return cart, nil
}

func (s *HTTPCartSender) fail(span trace.Span, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	return errors.Wrap(domain.ErrSyncFailed, cause.Error())
}

func (s *HTTPCartSender) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *HTTPCartSender) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

func (s *HTTPCartSender) tracer() trace.Tracer {
	return otel.Tracer("github.com/example/cart-sync-service/internal/adapter/remote")
}

var _ domain.CartSender = (*HTTPCartSender)(nil)
