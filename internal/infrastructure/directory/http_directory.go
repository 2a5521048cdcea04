// Package directory implements occupancy.TenantDirectory, the source of
// authoritative tenant names and contact details.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTenantNotFound is returned when the directory has no such tenant
var ErrTenantNotFound = shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found in directory")

// tenantPayload is the directory's JSON representation of a tenant
type tenantPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// HTTPDirectory looks tenants up over the directory service's REST API:
// GET {base_url}/tenants/{id}
type HTTPDirectory struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPDirectory creates a directory client from configuration
func NewHTTPDirectory(cfg config.DirectoryConfig, logger *zap.Logger) *HTTPDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPDirectory{
		client: client,
		logger: logger.Named("directory"),
	}
}

// Lookup fetches a tenant's profile. A 404 maps to ErrTenantNotFound; any
// other failure is returned wrapped.
func (d *HTTPDirectory) Lookup(ctx context.Context, tenantID uuid.UUID) (*occupancy.TenantProfile, error) {
	var payload tenantPayload
	resp, err := d.client.R().
		SetContext(ctx).
		SetPathParam("id", tenantID.String()).
		SetResult(&payload).
		Get("/tenants/{id}")
	if err != nil {
		d.logger.Warn("Directory request failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("directory request: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, ErrTenantNotFound.WithDetail("tenant_id", tenantID.String())
	case resp.IsError():
		d.logger.Warn("Directory returned error",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode())
	}

	if payload.ID != "" && payload.ID != tenantID.String() {
		return nil, fmt.Errorf("directory returned tenant %s for %s", payload.ID, tenantID)
	}
	return &occupancy.TenantProfile{
		TenantID: tenantID,
		Name:     strings.TrimSpace(payload.Name),
		Contact:  strings.TrimSpace(payload.Contact),
	}, nil
}

var _ occupancy.TenantDirectory = (*HTTPDirectory)(nil)
