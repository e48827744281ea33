package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/models"
)

const (
	msgUserCreated  = "Account created successfully."
	msgLoggedOut    = "Logged out, cart cleared."
	msgInvalidLogin = "email and password are required"
)

// Register handles account creation for buyers and sellers.
func (c *Controller) Register(ctx *gin.Context) {
	var registration models.Registration
	if err := ctx.ShouldBindJSON(&registration); err != nil {
		c.Log.Debug("register bind error", "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	account, err := c.Accounts.Register(ctx.Request.Context(), registration)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}

	c.Log.Info("account registered", "accountId", account.ID, "role", account.Role)
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "account": account})
}

// Login checks credentials and opens a new cart session.
func (c *Controller) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidLogin)
		return
	}

	account, err := c.Accounts.Authenticate(ctx.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		c.respondWithError(ctx, err)
		return
	}

	token, claims, err := c.Tokens.Issue(account)
	if err != nil {
		c.Log.Error("JWT generation error", "accountId", account.ID, "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": claims.ExpiresAt.Time,
		"account":   account,
	})
}

// Logout drops the session cart. The token itself stays valid until expiry.
func (c *Controller) Logout(ctx *gin.Context) {
	claims, ok := claimsOrAbort(ctx)
	if !ok {
		return
	}
	if err := c.Carts.Clear(ctx.Request.Context(), claims.SessionID); err != nil {
		c.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}
