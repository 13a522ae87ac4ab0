package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/telemetry"
)

// ErrUnexpectedStatus indica uma resposta HTTP fora do contrato do serviço
var ErrUnexpectedStatus = errors.New("unexpected status")

// Rotas dos serviços de estoque e pagamento
const (
	AvailabilityPath = "/api/stock/availability"
	DebitPath        = "/api/stock/debit"
	AuthorizePath    = "/api/payments/authorize"
	CancelPath       = "/api/payments/cancel"
)

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	// W3C traceparent além dos ids no payload
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
		return nil
	})

	return client
}

func unexpectedStatus(operation string, resp *resty.Response) error {
	return fmt.Errorf("%s: %w %d: %s", operation, ErrUnexpectedStatus, resp.StatusCode(), resp.String())
}

// StockClient implementa o serviço de estoque sobre HTTP
type StockClient struct {
	client *resty.Client
}

// NewStockClient cria uma nova instância de StockClient
func NewStockClient(baseURL string, timeout time.Duration) *StockClient {
	return &StockClient{
		client: newRestyClient(baseURL, timeout),
	}
}

func newStockRequest(ctx context.Context, productIDs, quantities []int64) *StockRequest {
	traceID, spanID := telemetry.TraceIDs(ctx)
	return &StockRequest{
		ProductIDs: productIDs,
		Quantities: quantities,
		TraceID:    traceID,
		SpanID:     spanID,
	}
}

// CheckAvailability consulta o estoque sem reservar nada
func (s *StockClient) CheckAvailability(ctx context.Context, productIDs, quantities []int64) (domain.AvailabilityResult, error) {
	var result domain.AvailabilityResult

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(newStockRequest(ctx, productIDs, quantities)).
		SetResult(&result).
		Post(AvailabilityPath)
	if err != nil {
		return domain.AvailabilityResult{}, fmt.Errorf("stock availability request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.AvailabilityResult{}, unexpectedStatus("stock availability", resp)
	}

	return result, nil
}

// Debit baixa o estoque. 409 é a recusa de negócio do serviço e vira Success=false.
func (s *StockClient) Debit(ctx context.Context, productIDs, quantities []int64) (domain.DebitResult, error) {
	var result domain.DebitResult

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(newStockRequest(ctx, productIDs, quantities)).
		SetResult(&result).
		Post(DebitPath)
	if err != nil {
		return domain.DebitResult{}, fmt.Errorf("stock debit request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return result, nil
	case http.StatusConflict:
		return domain.DebitResult{Success: false}, nil
	default:
		return domain.DebitResult{}, unexpectedStatus("stock debit", resp)
	}
}

// PaymentClient implementa o serviço de pagamento sobre HTTP
type PaymentClient struct {
	client *resty.Client
}

// NewPaymentClient cria uma nova instância de PaymentClient
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		client: newRestyClient(baseURL, timeout),
	}
}

// Authorize pede a autorização do valor. 409 é a recusa do pagamento.
func (p *PaymentClient) Authorize(ctx context.Context, customerID int64, amount decimal.Decimal) (domain.PaymentResult, error) {
	traceID, spanID := telemetry.TraceIDs(ctx)
	var result domain.PaymentResult

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&AuthorizeRequest{
			CustomerID: customerID,
			Amount:     amount,
			TraceID:    traceID,
			SpanID:     spanID,
		}).
		SetResult(&result).
		Post(AuthorizePath)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("payment authorize request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return result, nil
	case http.StatusConflict:
		return domain.PaymentResult{Authorized: false}, nil
	default:
		return domain.PaymentResult{}, unexpectedStatus("payment authorize", resp)
	}
}

// Cancel desfaz uma autorização; qualquer resposta diferente de 200 é erro
func (p *PaymentClient) Cancel(ctx context.Context, customerID, transactionID int64) error {
	traceID, spanID := telemetry.TraceIDs(ctx)

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&CancelRequest{
			CustomerID:    customerID,
			TransactionID: transactionID,
			TraceID:       traceID,
			SpanID:        spanID,
		}).
		Post(CancelPath)
	if err != nil {
		return fmt.Errorf("payment cancel request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return unexpectedStatus("payment cancel", resp)
	}

	return nil
}
