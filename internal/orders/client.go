// Package orders talks to the external order-creation endpoint.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/domain"
)

// Client submits orders to the backend. Outcomes are discriminated by error
// type: nil error with a result, *domain.StockConflictError on a 409, and
// *domain.TransportError for network failures and unexpected statuses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// no timeout beyond the transport's own defaults
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type conflictPayload struct {
	Error string `json:"error"`
}

// Create posts the order request and interprets the response.
func (c *Client) Create(ctx context.Context, in domain.OrderRequest) (*domain.OrderResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	url := c.baseURL + "/public/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("request_id", requestID).Warn("order request failed")
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var result domain.OrderResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, &domain.TransportError{Err: fmt.Errorf("decode order response: %w", err)}
		}
		c.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"order_token": result.OrderToken,
		}).Info("order created")
		return &result, nil
	case http.StatusConflict:
		var conflict conflictPayload
		if err := json.Unmarshal(body, &conflict); err != nil || conflict.Error == "" {
			conflict.Error = string(body)
		}
		return nil, &domain.StockConflictError{Message: conflict.Error}
	default:
		c.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     resp.StatusCode,
		}).Warn("order backend returned unexpected status")
		return nil, &domain.TransportError{Status: resp.StatusCode}
	}
}
