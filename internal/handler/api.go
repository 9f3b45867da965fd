package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

// SkuLister is the read surface of the repository used by the API.
type SkuLister interface {
	ListSkus(ctx context.Context) ([]domain.SkuCounter, error)
}

// RestockEnqueuer hands restock work to the restock worker's queue.
type RestockEnqueuer interface {
	SendRestock(ctx context.Context, fact domain.SkuRestock) error
}

// API is the API Gateway controller for the synchronous surfaces:
// listing SKU counters and accepting restock requests. Thin adapter; all
// invariants live below.
type API struct {
	skus    SkuLister
	restock RestockEnqueuer
	log     *zap.Logger
}

// NewAPI creates the API controller.
func NewAPI(skus SkuLister, restock RestockEnqueuer, log *zap.Logger) *API {
	return &API{skus: skus, restock: restock, log: log}
}

type restockRequest struct {
	Units int64  `json:"units"`
	LotID string `json:"lotId"`
}

type skuResponse struct {
	SKU       string `json:"sku"`
	Units     int64  `json:"units"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Handle routes one API Gateway proxy request.
func (a *API) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch {
	case req.HTTPMethod == http.MethodGet && req.Resource == "/skus":
		return a.listSkus(ctx)
	case req.HTTPMethod == http.MethodPost && req.Resource == "/skus/{sku}/restock":
		return a.restockSku(ctx, req)
	default:
		return jsonResponse(http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (a *API) listSkus(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	counters, err := a.skus.ListSkus(ctx)
	if err != nil {
		a.log.Error("failed to list skus", zap.Error(err))
		return jsonResponse(http.StatusBadGateway, map[string]string{"error": "storage unavailable"})
	}

	out := make([]skuResponse, 0, len(counters))
	for _, c := range counters {
		out = append(out, skuResponse{
			SKU:       c.SKU,
			Units:     c.Units,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{"skus": out})
}

func (a *API) restockSku(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	sku := req.PathParameters["sku"]

	var body restockRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	fact, err := domain.NewSkuRestock(sku, body.LotID, body.Units)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := a.restock.SendRestock(ctx, fact); err != nil {
		a.log.Error("failed to enqueue restock",
			zap.String("sku", fact.SKU),
			zap.String("lot_id", fact.LotID),
			zap.Error(err),
		)
		if apperr.KindOf(err) == apperr.KindInvalidInput {
			return jsonResponse(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return jsonResponse(http.StatusBadGateway, map[string]string{"error": "queue unavailable"})
	}

	return jsonResponse(http.StatusAccepted, map[string]string{
		"sku":   fact.SKU,
		"lotId": fact.LotID,
	})
}

func jsonResponse(status int, body interface{}) (events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}, nil
}
