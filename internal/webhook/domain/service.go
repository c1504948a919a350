package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, groupID, policyID, webhookID string) (*Response, error)
	MarkDeleted(ctx context.Context, groupID, policyID, webhookID string) error
	ListByPolicy(ctx context.Context, groupID, policyID string) ([]Response, error)

	// ResolveByKey maps a raw capability key to its webhook. Used by the
	// anonymous execution endpoint; the endpoint must not leak whether a
	// key exists, so callers translate any error into the same reply.
	ResolveByKey(ctx context.Context, version, rawKey string) (*Response, error)
}

type CreateRequest struct {
	GroupID  string         `json:"group_id"`
	PolicyID string         `json:"policy_id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

type Response struct {
	ID       string         `json:"id"`
	TenantID string         `json:"tenant_id"`
	GroupID  string         `json:"group_id"`
	PolicyID string         `json:"policy_id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`

	CapabilityVersion string `json:"capability_version"`
	// CapabilityKey is populated only by Create.
	CapabilityKey string `json:"capability_key,omitempty"`

	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidWebhookID = errors.New("invalid_webhook_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrNotFound         = errors.New("webhook_not_found")
	ErrUnknownKey       = errors.New("unknown_capability_key")
)
