package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, groupID, policyID string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	MarkDeleted(ctx context.Context, groupID, policyID string) error
	ListByGroup(ctx context.Context, groupID string) ([]Response, error)
}

type CreateRequest struct {
	GroupID string `json:"group_id"`
	Data    string `json:"data"`
}

type UpdateRequest struct {
	GroupID  string `json:"group_id"`
	PolicyID string `json:"policy_id"`
	Data     string `json:"data"`
}

type Response struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	GroupID   string    `json:"group_id"`
	Data      string    `json:"data"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidPolicyID = errors.New("invalid_policy_id")
	ErrNotFound        = errors.New("policy_not_found")
	ErrGroupNotFound   = errors.New("scaling_group_not_found")
)
