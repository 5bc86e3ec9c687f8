package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/relay"
	pkgResponse "jira-chat-relay/pkg/response"
)

// HandleTrackerWebhook processes tracker webhook events
func (h *Handler) HandleTrackerWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Read body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Check IP whitelist
	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "Webhook IP rejected: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	// Verify signature
	signature := c.GetHeader("X-Tracker-Signature-256")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "Webhook signature verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	// Check rate limit
	if err := h.security.CheckRateLimit(extractIP(c.Request)); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	// Reject structurally broken payloads before acknowledging
	if !json.Valid(body) {
		h.l.Errorf(ctx, "Rejected webhook body: %v", relay.ErrMalformedPayload)
		pkgResponse.Error(c, relay.ErrMalformedPayload, nil)
		return
	}

	// Process in background
	go h.processWebhookAsync(body)

	// Acknowledge immediately
	pkgResponse.OK(c, gin.H{"status": "accepted"})
}

// HandleGenerationSwitch switches the active parser generation
func (h *Handler) HandleGenerationSwitch(c *gin.Context) {
	ctx := c.Request.Context()

	var req generationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Errorf(ctx, "Failed to parse generation request: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	gen := model.Generation(req.Generation)
	if gen != model.GenerationLegacy && gen != model.GenerationMetadata {
		err := fmt.Errorf("unknown generation %q", req.Generation)
		h.l.Errorf(ctx, "Rejected generation switch: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	h.relayUC.SetGeneration(gen)
	h.l.Infof(ctx, "Parser generation switched to %q", gen)

	pkgResponse.OK(c, gin.H{"generation": req.Generation})
}

// processWebhookAsync processes webhook in background
func (h *Handler) processWebhookAsync(body []byte) {
	// Create background context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	output, err := h.relayUC.Process(ctx, relay.ProcessInput{Body: body})
	if err != nil {
		if errors.Is(err, relay.ErrMalformedPayload) {
			h.l.Warnf(ctx, "Dropped webhook body: %v", err)
			return
		}
		h.l.Errorf(ctx, "Webhook processing failed: %v", err)
		return
	}

	if output.Ignored {
		h.l.Debugf(ctx, "Webhook event %q ignored", output.Event)
		return
	}
	h.l.Infof(ctx, "Webhook event %q delivered", output.Event)
}
