package middlewares

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(issuer *utils.TokenIssuer, log *slog.Logger, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	chain := []gin.HandlerFunc{RequireAuth(issuer)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(ctx *gin.Context) {
		claims, _ := CurrentClaims(ctx)
		ctx.JSON(http.StatusOK, gin.H{"accountId": claims.AccountID, "sid": claims.SessionID})
	})
	r.GET("/private", chain...)
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := newEngine(issuer, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	token, claims, err := issuer.Issue(models.Account{ID: 7, Role: models.RoleBuyer})
	require.NoError(t, err)

	w := get(r, "/private", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body["accountId"])
	assert.Equal(t, claims.SessionID, body["sid"])

	for _, auth := range []string{"", "Bearer", "Basic " + token, "Bearer nope"} {
		w := get(r, "/private", auth)
		assert.Equal(t, http.StatusUnauthorized, w.Code, auth)
		assert.Contains(t, w.Body.String(), "message")
	}
}

func TestRequireRole(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := newEngine(issuer, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), models.RoleSeller, models.RoleAdmin)

	buyer, _, err := issuer.Issue(models.Account{ID: 1, Role: models.RoleBuyer})
	require.NoError(t, err)
	seller, _, err := issuer.Issue(models.Account{ID: 2, Role: models.RoleSeller})
	require.NoError(t, err)
	admin, _, err := issuer.Issue(models.Account{ID: 3, Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/private", "Bearer "+buyer).Code)
	assert.Equal(t, http.StatusOK, get(r, "/private", "Bearer "+seller).Code)
	assert.Equal(t, http.StatusOK, get(r, "/private", "Bearer "+admin).Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(models.RoleAdmin), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	r := newEngine(utils.NewTokenIssuer("secret", time.Hour), log)

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())

	out := logs.String()
	assert.Contains(t, out, `"msg":"panic recovered"`)
	assert.Contains(t, out, `"path":"/panic"`)
	assert.Contains(t, out, `"status":500`)
}
