package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/service"
	"go.uber.org/zap"
)

// Client facing error messages
const (
	msgMissingField     = "walletAddress, message and signature are required."
	msgInvalidBody      = "Invalid request body."
	msgInvalidSignature = "Invalid signature."
	msgAddressMismatch  = "Signature does not match wallet address."
	msgInvalidChallenge = "Message is not a valid challenge."
	msgNonceReused      = "Challenge nonce has already been used."
	msgMissingWallet    = "wallet param is required"
	msgInternal         = "Internal server error."
)

// VerifyRequest is the body of a wallet verification request
type VerifyRequest struct {
	WalletAddress string `json:"walletAddress"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// ChallengeResponse carries a freshly built challenge
type ChallengeResponse struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// TrustScoreResponse is the body of a trust score response
type TrustScoreResponse struct {
	Wallet string          `json:"wallet"`
	Score  int             `json:"score"`
	Level  core.TrustLevel `json:"level"`
	Reason string          `json:"reason,omitempty"`
}

// Handlers contains HTTP handlers for verification and trust score endpoints
type Handlers struct {
	verification *service.VerificationService
	trust        *service.TrustService
	log          *zap.Logger
}

// NewHandlers creates new handlers
func NewHandlers(verification *service.VerificationService, trust *service.TrustService, log *zap.Logger) *Handlers {
	return &Handlers{
		verification: verification,
		trust:        trust,
		log:          log,
	}
}

// Challenge returns a challenge message for the wallet to sign
func (h *Handlers) Challenge(c *gin.Context) {
	challenge := h.verification.CreateChallenge()

	c.JSON(http.StatusOK, ChallengeResponse{
		Message: challenge.Message(),
		Nonce:   challenge.Nonce,
	})
}

// Verify handles the wallet verification request
func (h *Handlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	err := h.verification.Verify(c.Request.Context(), core.SignatureProof{
		WalletAddress: req.WalletAddress,
		Message:       req.Message,
		Signature:     req.Signature,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		errorMsg := ""

		// Map domain errors to client messages
		switch {
		case errors.Is(err, core.ErrMissingField):
			errorMsg = msgMissingField
		case errors.Is(err, core.ErrInvalidSignature):
			errorMsg = msgInvalidSignature
		case errors.Is(err, core.ErrAddressMismatch):
			errorMsg = msgAddressMismatch
		case errors.Is(err, core.ErrInvalidChallenge):
			errorMsg = msgInvalidChallenge
		case errors.Is(err, core.ErrNonceReused):
			errorMsg = msgNonceReused
		default:
			h.log.Error("wallet verification failed", zap.Error(err))
			statusCode = http.StatusInternalServerError
			errorMsg = msgInternal
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrustScore returns the trust score of the wallet given in the query
func (h *Handlers) TrustScore(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingWallet})
		return
	}

	result, err := h.trust.TrustScore(c.Request.Context(), wallet)
	if err != nil {
		h.log.Error("trust score failed", zap.String("wallet", wallet), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, TrustScoreResponse{
		Wallet: wallet,
		Score:  result.Score,
		Level:  result.Level,
		Reason: result.Reason,
	})
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
