package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/reponha/backend/internal/domain/procurement"
)

// maxResponseSize is the maximum allowed response size from the Bling API (1MB)
const maxResponseSize = 1 * 1024 * 1024

var (
	// ErrBlingUnavailable indicates the Bling API could not be reached
	ErrBlingUnavailable = errors.New("bling: service unavailable")
	// ErrBlingRequestFailed indicates the Bling API rejected the request
	ErrBlingRequestFailed = errors.New("bling: request failed")
	// ErrBlingInvalidResponse indicates an unparseable Bling API response
	ErrBlingInvalidResponse = errors.New("bling: invalid response")
)

// BlingAdapter implements the ERPGateway interface against the Bling API
type BlingAdapter struct {
	config     *BlingConfig
	httpClient *http.Client
}

// NewBlingAdapter creates a new Bling adapter with the given configuration
func NewBlingAdapter(config *BlingConfig) (*BlingAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &BlingAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// SyncOrder registers a finalized purchase order in Bling and returns the
// foreign identifier it was registered under.
func (a *BlingAdapter) SyncOrder(ctx context.Context, req procurement.ERPSyncRequest) (*procurement.ERPSyncResult, error) {
	payload := blingOrderRequest{
		Number:      req.OrderNumber,
		SupplierRef: req.SupplierRef,
		Total:       req.Total.StringFixed(2),
		Items:       make([]blingOrderItem, 0, len(req.Lines)),
	}
	for _, line := range req.Lines {
		payload.Items = append(payload.Items, blingOrderItem{
			Ref:         line.ExternalRef,
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.StringFixed(4),
		})
	}
	for _, inst := range req.Installments {
		payload.Payments = append(payload.Payments, blingInstallment{
			DueDate: inst.DueDate.Format("2006-01-02"),
			Value:   inst.Value.StringFixed(2),
		})
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/pedidos/compras", payload)
	if err != nil {
		return nil, err
	}

	var resp blingOrderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlingInvalidResponse, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s - %s", ErrBlingRequestFailed, resp.Error.Code, resp.Error.Message)
	}
	if resp.Data.ID == "" {
		return nil, ErrBlingInvalidResponse
	}

	return &procurement.ERPSyncResult{ForeignID: resp.Data.ID}, nil
}

// FetchOrderStatus retrieves the fulfillment status of a registered order
func (a *BlingAdapter) FetchOrderStatus(ctx context.Context, foreignID string) (procurement.ExternalStatus, error) {
	if foreignID == "" {
		return "", fmt.Errorf("%w: empty foreign ID", ErrBlingRequestFailed)
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/pedidos/compras/"+foreignID, nil)
	if err != nil {
		return "", err
	}

	var resp blingStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBlingInvalidResponse, err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s - %s", ErrBlingRequestFailed, resp.Error.Code, resp.Error.Message)
	}

	return mapBlingSituation(resp.Data.Situation)
}

func (a *BlingAdapter) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("bling: failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("bling: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlingUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("bling: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrBlingRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// mapBlingSituation maps Bling's situation strings onto the coarser
// fulfillment statuses the order aggregate records.
func mapBlingSituation(situation string) (procurement.ExternalStatus, error) {
	switch situation {
	case "em_aberto", "aberto":
		return procurement.ExternalStatusOpen, nil
	case "em_andamento", "atendido_parcial":
		return procurement.ExternalStatusInProgress, nil
	case "atendido", "concluido":
		return procurement.ExternalStatusFulfilled, nil
	case "cancelado":
		return procurement.ExternalStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: unknown situation %q", ErrBlingInvalidResponse, situation)
	}
}

// Ensure BlingAdapter implements ERPGateway
var _ procurement.ERPGateway = (*BlingAdapter)(nil)
