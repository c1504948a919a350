package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/autoscale/internal/config"
	configrepository "github.com/smallbiznis/autoscale/internal/scalingconfig/repository"
	configservice "github.com/smallbiznis/autoscale/internal/scalingconfig/service"
	policyrepository "github.com/smallbiznis/autoscale/internal/scalingpolicy/repository"
	policyservice "github.com/smallbiznis/autoscale/internal/scalingpolicy/service"
	webhookrepository "github.com/smallbiznis/autoscale/internal/webhook/repository"
	webhookservice "github.com/smallbiznis/autoscale/internal/webhook/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE scaling_config (
		tenant_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		data TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (tenant_id, group_id)
	)`).Error)
	require.NoError(t, db.Exec(`CREATE INDEX deleted_scaling_config ON scaling_config (deleted)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE scaling_policies (
		id BIGINT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		data TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE policy_webhooks (
		id BIGINT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		policy_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		metadata TEXT,
		capability_version TEXT NOT NULL,
		key_hash TEXT NOT NULL UNIQUE,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zap.NewNop()
	configRepo := configrepository.Provide()
	policyRepo := policyrepository.Provide()

	cfg := config.Config{Environment: "test", HTTPAddr: ":0"}
	return NewServer(ServerParams{
		Gin: NewEngine(cfg),
		Cfg: cfg,
		ConfigSvc: configservice.New(configservice.Params{
			DB:   db,
			Log:  logger,
			Repo: configRepo,
		}),
		PolicySvc: policyservice.New(policyservice.Params{
			DB:         db,
			Log:        logger,
			GenID:      node,
			Repo:       policyRepo,
			ConfigRepo: configRepo,
		}),
		WebhookSvc: webhookservice.New(webhookservice.Params{
			DB:         db,
			Log:        logger,
			GenID:      node,
			Repo:       webhookrepository.Provide(),
			PolicyRepo: policyRepo,
		}),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestPutGetDeleteGroupConfig(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config",
		gin.H{"data": gin.H{"cooldown": 60}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups/grp-A/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "acct-1", data["tenant_id"])
	assert.Equal(t, "grp-A", data["group_id"])
	assert.JSONEq(t, `{"cooldown":60}`, data["data"].(string))
	assert.Equal(t, false, data["deleted"])

	rec = doJSON(t, s, http.MethodDelete, "/v1/tenants/acct-1/groups/grp-A/config", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// a deleted group still reads back, flagged
	rec = doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups/grp-A/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeData(t, rec)["deleted"])
}

func TestGetUnknownGroupConfig(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups/nope/config", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutGroupConfigRequiresData(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGroupConfigsScopedToTenant(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPut, "/v1/tenants/acct-2/groups/grp-B/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "grp-A", envelope.Data[0]["group_id"])
}

func TestAdminListDeletedConfigs(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodDelete, "/v1/tenants/acct-1/groups/grp-A/config", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/admin/scaling-configs?deleted=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "grp-A", envelope.Data[0]["group_id"])

	rec = doJSON(t, s, http.MethodGet, "/v1/admin/scaling-configs?deleted=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPolicyLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies",
		gin.H{"data": gin.H{"change": 2}})
	require.Equal(t, http.StatusCreated, rec.Code)
	policyID := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups/grp-A/policies/"+policyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/v1/tenants/acct-1/groups/grp-A/policies/"+policyID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/tenants/acct-1/groups/grp-A/policies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data)
}

func TestPolicyRequiresLiveGroup(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies",
		gin.H{"data": gin.H{"change": 2}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExecuteAlwaysAccepted(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusCreated, rec.Code)
	policyID := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies/"+policyID+"/webhooks",
		gin.H{"name": "scale-up"})
	require.Equal(t, http.StatusCreated, rec.Code)
	key := decodeData(t, rec)["capability_key"].(string)
	version := decodeData(t, rec)["capability_version"].(string)

	rec = doJSON(t, s, http.MethodPost, "/v1/execute/"+version+"/"+key, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// an unknown key gets the same reply
	rec = doJSON(t, s, http.MethodPost, "/v1/execute/"+version+"/feedfacefeedface", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWebhookKeyShownOnlyOnCreate(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/v1/tenants/acct-1/groups/grp-A/config", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies", gin.H{"data": gin.H{}})
	require.Equal(t, http.StatusCreated, rec.Code)
	policyID := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, s, http.MethodPost, "/v1/tenants/acct-1/groups/grp-A/policies/"+policyID+"/webhooks",
		gin.H{"name": "scale-up"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData(t, rec)
	require.NotEmpty(t, created["capability_key"])
	webhookID := created["id"].(string)

	rec = doJSON(t, s, http.MethodGet,
		"/v1/tenants/acct-1/groups/grp-A/policies/"+policyID+"/webhooks/"+webhookID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, present := decodeData(t, rec)["capability_key"]
	assert.False(t, present)
}
