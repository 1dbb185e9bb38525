// Package api exposes the unified reporting data and sync controls over HTTP.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/cloudboard/aggregator/pkg/app/errors"
	apphttp "github.com/cloudboard/aggregator/pkg/app/http"
	"github.com/cloudboard/aggregator/pkg/syncer"
	"github.com/cloudboard/aggregator/pkg/unified"
	"github.com/cloudboard/aggregator/pkg/unifiedstore"
)

// defaultLogLimit bounds the sync log listing when the caller passes no limit.
const defaultLogLimit = 50

// Store is the read side of the unified store served over HTTP, plus the
// remark upsert.
type Store interface {
	ListExpiringResources(ctx context.Context, thresholdDays int, order string) ([]unified.Resource, error)
	ListAccountBalances(ctx context.Context) ([]unified.AccountBalance, error)
	ListBillingDetails(ctx context.Context) ([]unified.Bill, error)
	UpsertResourceRemark(ctx context.Context, provider, resourceID, remark string) error
	ListSyncLogs(ctx context.Context, limit int) ([]unified.SyncLogEntry, error)
}

// Trigger runs one on-demand sync cycle.
type Trigger interface {
	SynchronizeAll(ctx context.Context) (*syncer.CycleSummary, error)
}

// Options tunes the HTTP handlers.
type Options struct {
	// DefaultExpiryDays is the threshold used when the expiring-resources
	// query carries no days parameter.
	DefaultExpiryDays int
	// CycleTimeout bounds a manually triggered sync cycle.
	CycleTimeout time.Duration
}

// HTTP wraps the store and the sync trigger to provide HTTP endpoints
type HTTP struct {
	store   Store
	trigger Trigger
	logger  *zap.Logger
	opts    Options
}

// RegisterRoutes registers the query and sync endpoints on the given chi router
func RegisterRoutes(r chi.Router, store Store, trigger Trigger, logger *zap.Logger, opts Options) {
	h := &HTTP{
		store:   store,
		trigger: trigger,
		logger:  logger,
		opts:    opts,
	}

	r.Get("/resources/expiring", apphttp.HandleError(h.listExpiringResources))
	r.Put("/resources/remark", apphttp.HandleError(h.upsertRemark))
	r.Get("/accounts/balances", apphttp.HandleError(h.listAccountBalances))
	r.Get("/bills", apphttp.HandleError(h.listBills))
	r.Post("/sync", apphttp.HandleError(h.triggerSync))
	r.Get("/sync/logs", apphttp.HandleError(h.listSyncLogs))
}

type resourcePayload struct {
	CloudProvider string     `json:"cloud_provider"`
	AccountName   string     `json:"account_name"`
	ResourceType  string     `json:"resource_type"`
	ResourceID    string     `json:"resource_id"`
	ResourceName  string     `json:"resource_name"`
	ProjectName   string     `json:"project_name,omitempty"`
	Region        string     `json:"region,omitempty"`
	Zone          string     `json:"zone,omitempty"`
	ExpireTime    *time.Time `json:"expire_time"`
	RemainingDays int        `json:"remaining_days"`
	Status        string     `json:"status,omitempty"`
	Remark        string     `json:"remark"`
}

type resourceListResponse struct {
	Count     int               `json:"count"`
	Resources []resourcePayload `json:"resources"`
}

// listExpiringResources handles GET /resources/expiring?days=&order=
func (h *HTTP) listExpiringResources(w http.ResponseWriter, r *http.Request) error {
	days := h.opts.DefaultExpiryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.BadRequestError(err, "days must be a non-negative integer")
		}
		days = parsed
	}

	order := r.URL.Query().Get("order")
	switch order {
	case "", unifiedstore.OrderAsc:
		order = unifiedstore.OrderAsc
	case unifiedstore.OrderDesc:
	default:
		return apperrors.BadRequestError(nil, "order must be asc or desc")
	}

	resources, err := h.store.ListExpiringResources(r.Context(), days, order)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	resp := resourceListResponse{
		Count:     len(resources),
		Resources: make([]resourcePayload, len(resources)),
	}
	for i, res := range resources {
		resp.Resources[i] = resourcePayload{
			CloudProvider: res.CloudProvider,
			AccountName:   res.AccountName,
			ResourceType:  res.ResourceType,
			ResourceID:    res.ResourceID,
			ResourceName:  res.ResourceName,
			ProjectName:   res.ProjectName,
			Region:        res.Region,
			Zone:          res.Zone,
			ExpireTime:    res.ExpireTime,
			RemainingDays: res.RemainingDays,
			Status:        res.Status,
			Remark:        res.Remark,
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

type remarkRequest struct {
	CloudProvider string `json:"cloud_provider"`
	ResourceID    string `json:"resource_id"`
	Remark        string `json:"remark"`
}

// upsertRemark handles PUT /resources/remark
func (h *HTTP) upsertRemark(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req remarkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	if req.CloudProvider == "" || req.ResourceID == "" {
		return apperrors.BadRequestError(nil, "cloud_provider and resource_id are required")
	}

	if err := h.store.UpsertResourceRemark(r.Context(), req.CloudProvider, req.ResourceID, req.Remark); err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	return nil
}

type balancePayload struct {
	CloudProvider string     `json:"cloud_provider"`
	AccountName   string     `json:"account_name"`
	Balance       string     `json:"balance"`
	Currency      string     `json:"currency"`
	BalanceType   string     `json:"balance_type"`
	CardID        string     `json:"card_id,omitempty"`
	ExpireTime    *time.Time `json:"expire_time,omitempty"`
}

type balanceListResponse struct {
	Count    int              `json:"count"`
	Balances []balancePayload `json:"balances"`
}

// listAccountBalances handles GET /accounts/balances
func (h *HTTP) listAccountBalances(w http.ResponseWriter, r *http.Request) error {
	balances, err := h.store.ListAccountBalances(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}

	resp := balanceListResponse{
		Count:    len(balances),
		Balances: make([]balancePayload, len(balances)),
	}
	for i, bal := range balances {
		resp.Balances[i] = balancePayload{
			CloudProvider: bal.CloudProvider,
			AccountName:   bal.AccountName,
			Balance:       bal.Balance.String(),
			Currency:      bal.Currency,
			BalanceType:   string(bal.BalanceType),
			CardID:        bal.CardID,
			ExpireTime:    bal.ExpireTime,
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

type billPayload struct {
	CloudProvider string     `json:"cloud_provider"`
	AccountName   string     `json:"account_name"`
	ProjectName   string     `json:"project_name"`
	ServiceType   string     `json:"service_type"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	BillingCycle  string     `json:"billing_cycle,omitempty"`
	BillingDate   *time.Time `json:"billing_date"`
}

type billListResponse struct {
	Count int           `json:"count"`
	Bills []billPayload `json:"bills"`
}

// listBills handles GET /bills
func (h *HTTP) listBills(w http.ResponseWriter, r *http.Request) error {
	bills, err := h.store.ListBillingDetails(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}

	resp := billListResponse{
		Count: len(bills),
		Bills: make([]billPayload, len(bills)),
	}
	for i, bill := range bills {
		resp.Bills[i] = billPayload{
			CloudProvider: bill.CloudProvider,
			AccountName:   bill.AccountName,
			ProjectName:   bill.ProjectName,
			ServiceType:   bill.ServiceType,
			Amount:        bill.Amount.String(),
			Currency:      bill.Currency,
			BillingCycle:  bill.BillingCycle,
			BillingDate:   bill.BillingDate,
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

// triggerSync handles POST /sync. The cycle runs in the background; the
// response only acknowledges the trigger. Concurrent triggers queue behind
// the running cycle rather than overlapping it.
func (h *HTTP) triggerSync(w http.ResponseWriter, r *http.Request) error {
	go func() {
		ctx := context.Background()
		if h.opts.CycleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.opts.CycleTimeout)
			defer cancel()
		}

		summary, err := h.trigger.SynchronizeAll(ctx)
		if err != nil {
			h.logger.Error("manual sync failed", zap.Error(err))
			return
		}
		h.logger.Info("manual sync completed",
			zap.String("batch_id", summary.BatchID),
			zap.Int("attempts", summary.Attempts))
	}()

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	return nil
}

type syncLogPayload struct {
	SyncType     string    `json:"sync_type"`
	BatchID      string    `json:"batch_id"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

type syncLogListResponse struct {
	Count int              `json:"count"`
	Logs  []syncLogPayload `json:"logs"`
}

// listSyncLogs handles GET /sync/logs?limit=
func (h *HTTP) listSyncLogs(w http.ResponseWriter, r *http.Request) error {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperrors.BadRequestError(err, "limit must be a positive integer")
		}
		limit = parsed
	}

	logs, err := h.store.ListSyncLogs(r.Context(), limit)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	resp := syncLogListResponse{
		Count: len(logs),
		Logs:  make([]syncLogPayload, len(logs)),
	}
	for i, entry := range logs {
		resp.Logs[i] = syncLogPayload{
			SyncType:     entry.SyncType,
			BatchID:      entry.BatchID,
			StartedAt:    entry.StartedAt,
			EndedAt:      entry.EndedAt,
			Status:       string(entry.Status),
			ErrorMessage: entry.ErrorMessage,
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
