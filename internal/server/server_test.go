package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	assignmentrepository "github.com/moonstead/moonstead/internal/assignment/repository"
	assignmentservice "github.com/moonstead/moonstead/internal/assignment/service"
	"github.com/moonstead/moonstead/internal/catalog"
	"github.com/moonstead/moonstead/internal/clock"
	"github.com/moonstead/moonstead/internal/config"
	journaldomain "github.com/moonstead/moonstead/internal/journal/domain"
	journalrepository "github.com/moonstead/moonstead/internal/journal/repository"
	journalservice "github.com/moonstead/moonstead/internal/journal/service"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	kidrepository "github.com/moonstead/moonstead/internal/kid/repository"
	kidservice "github.com/moonstead/moonstead/internal/kid/service"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	ledgerrepository "github.com/moonstead/moonstead/internal/ledger/repository"
	ledgerservice "github.com/moonstead/moonstead/internal/ledger/service"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
	purchaserepository "github.com/moonstead/moonstead/internal/purchase/repository"
	purchaseservice "github.com/moonstead/moonstead/internal/purchase/service"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
	rewardrepository "github.com/moonstead/moonstead/internal/reward/repository"
	rewardservice "github.com/moonstead/moonstead/internal/reward/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testDBSeq int

type testEnv struct {
	srv     *Server
	db      *gorm.DB
	kidRepo kiddomain.Repository
	node    *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDBSeq++
	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&kiddomain.Kid{},
		&ledgerdomain.MoonTransaction{},
		&purchasedomain.KidAvatarItem{},
		&purchasedomain.KidAvatar{},
		&purchasedomain.KidWorldPack{},
		&assignmentdomain.Assignment{},
		&journaldomain.JournalEntry{},
		&rewarddomain.Reward{},
		&rewarddomain.RewardRedemption{},
	))

	cat, err := catalog.Load()
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	kidRepo := kidrepository.Provide()
	ledgerRepo := ledgerrepository.Provide()

	kidSvc := kidservice.New(kidservice.Params{DB: db, Log: log, GenID: node, Repo: kidRepo})
	ledgerSvc := ledgerservice.New(ledgerservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: ledgerRepo, KidRepo: kidRepo,
	})
	purchaseSvc := purchaseservice.New(purchaseservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Catalog: cat,
		Repo: purchaserepository.Provide(), KidRepo: kidRepo, LedgerRepo: ledgerRepo,
	})
	assignmentSvc := assignmentservice.New(assignmentservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: assignmentrepository.Provide(), KidRepo: kidRepo, Ledger: ledgerSvc,
	})
	journalSvc := journalservice.New(journalservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: journalrepository.Provide(), KidRepo: kidRepo, Ledger: ledgerSvc,
	})
	rewardSvc := rewardservice.New(rewardservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: rewardrepository.Provide(), KidRepo: kidRepo, LedgerRepo: ledgerRepo,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:           engine,
		Cfg:           config.Config{AppName: "moonstead-test"},
		DB:            db,
		Log:           log,
		GenID:         node,
		Catalog:       cat,
		KidSvc:        kidSvc,
		LedgerSvc:     ledgerSvc,
		PurchaseSvc:   purchaseSvc,
		AssignmentSvc: assignmentSvc,
		JournalSvc:    journalSvc,
		RewardSvc:     rewardSvc,
	})

	return &testEnv{srv: srv, db: db, kidRepo: kidRepo, node: node}
}

func (e *testEnv) createKid(t *testing.T, moons int) *kiddomain.Kid {
	t.Helper()

	now := time.Now().UTC()
	kid := &kiddomain.Kid{
		ID:          e.node.Generate(),
		DisplayName: "Pip",
		AvatarID:    "fox",
		Moons:       moons,
		Tier:        1,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.kidRepo.Insert(context.Background(), e.db, kid))
	return kid
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func TestPurchaseAvatarItemEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 20)

	rec, body := env.do(t, http.MethodPost, "/api/avatar-items/purchase", gin.H{
		"kidId":   kid.ID.String(),
		"itemKey": "wizard_hat",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 5, body["newMoonBalance"])
	require.NotNil(t, body["unlockedItem"])

	// Buying it again is rejected before any charge.
	rec, body = env.do(t, http.MethodPost, "/api/avatar-items/purchase", gin.H{
		"kidId":   kid.ID.String(),
		"itemKey": "wizard_hat",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Item already owned", body["error"])
}

func TestPurchaseAvatarItemEndpoint_Failures(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 5)

	rec, body := env.do(t, http.MethodPost, "/api/avatar-items/purchase", gin.H{
		"kidId":   kid.ID.String(),
		"itemKey": "wizard_hat",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough moons", body["error"])

	rec, body = env.do(t, http.MethodPost, "/api/avatar-items/purchase", gin.H{
		"kidId":   kid.ID.String(),
		"itemKey": "no_such_item",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", body["error"])

	rec, body = env.do(t, http.MethodPost, "/api/avatar-items/purchase", gin.H{
		"kidId":   env.node.Generate().String(),
		"itemKey": "wizard_hat",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Kid not found", body["error"])
}

func TestPurchaseAvatarEndpoint_Free(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 0)

	rec, body := env.do(t, http.MethodPost, "/api/avatars/purchase", gin.H{
		"kidId":    kid.ID.String(),
		"avatarId": "owl",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isFree"])
}

func TestUnlockTierEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 50)

	rec, body := env.do(t, http.MethodPost, "/api/kids/"+kid.ID.String()+"/tier", gin.H{
		"targetTier": 3,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid tier upgrade", body["error"])

	rec, body = env.do(t, http.MethodPost, "/api/kids/"+kid.ID.String()+"/tier", gin.H{
		"targetTier": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["newTier"])
	assert.EqualValues(t, 10, body["newMoonBalance"])
	require.NotNil(t, body["tierLimits"])
}

func TestAwardBonusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 0)

	rec, body := env.do(t, http.MethodPost, "/api/moons", gin.H{
		"kidId":  kid.ID.String(),
		"amount": 101,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Amount must be between 1 and 100", body["error"])

	rec, _ = env.do(t, http.MethodPost, "/api/moons", gin.H{
		"kidId":  kid.ID.String(),
		"amount": 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/moons", gin.H{
		"kidId":  kid.ID.String(),
		"amount": 30,
		"note":   "Great week",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	award, ok := body["award"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 30, award["newMoonBalance"])
}

func TestAwardBonusEndpoint_IdempotentWithRef(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 0)

	payload := gin.H{
		"kidId":     kid.ID.String(),
		"amount":    10,
		"sourceRef": "weekly-chores",
	}

	rec, _ := env.do(t, http.MethodPost, "/api/moons", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodPost, "/api/moons", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already awarded", body["message"])

	stored, err := env.kidRepo.FindByID(context.Background(), env.db, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Moons)
}

func TestMoonHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 0)

	rec, _ := env.do(t, http.MethodPost, "/api/moons", gin.H{
		"kidId":  kid.ID.String(),
		"amount": 12,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/moons/history?kidId="+kid.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 12, body["totalMoons"])
	txns, ok := body["transactions"].([]any)
	require.True(t, ok)
	assert.Len(t, txns, 1)

	rec, body = env.do(t, http.MethodGet, "/api/moons/history?kidId=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestWorldPackEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 40)

	rec, body := env.do(t, http.MethodPost, "/api/world/"+kid.ID.String()+"/packs", gin.H{
		"packId": "forest_glade",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, body["newMoonBalance"])
}

func TestAssignmentCompleteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	kid := env.createKid(t, 0)

	rec, body := env.do(t, http.MethodPost, "/api/assignments", gin.H{
		"kidId":     kid.ID.String(),
		"title":     "Essay draft",
		"subject":   "writing",
		"moonValue": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assignment, ok := body["assignment"].(map[string]any)
	require.True(t, ok)
	assignmentID, ok := assignment["id"].(string)
	require.True(t, ok)

	rec, body = env.do(t, http.MethodPost, "/api/assignments/"+assignmentID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["awarded"])
	assert.EqualValues(t, 20, body["newMoonBalance"])
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/catalog/avatar-items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items, ok := body["avatarItems"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 10)

	rec, body = env.do(t, http.MethodGet, "/api/catalog/tiers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tiers, ok := body["tiers"].([]any)
	require.True(t, ok)
	assert.Len(t, tiers, 4)
}
