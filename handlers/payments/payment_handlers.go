package payments

import (
	"errors"
	"net/http"

	"contesthub/middleware"
	"contesthub/realtime"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CreatePaymentIntent opens a hosted checkout for the caller
// @Summary Start checkout
// @Description Creates a checkout session for the contest's entry fee
// @Tags Payments
// @Accept json
// @Produce json
// @Param checkout body CheckoutRequest true "Contest to pay for"
// @Success 200 {object} CheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /create-payment-intent [post]
// @Security Bearer
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := middleware.GetIdentity(c)
	buyer := services.Registrant{Email: identity.Email, Name: identity.Name, Photo: identity.Picture}
	session, err := h.payments.CreateCheckout(c.Request.Context(), req.ContestID, buyer)
	switch {
	case errors.Is(err, services.ErrContestNotFound):
		response.Error(c, http.StatusNotFound, ErrContestNotFound)
	case errors.Is(err, services.ErrAlreadyRegistered):
		response.Error(c, http.StatusBadRequest, ErrAlreadyRegistered)
	case errors.Is(err, services.ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, ErrNoEntryFee)
	case err != nil:
		log.WithError(err).WithField("contest", req.ContestID).Error("Failed to create checkout session")
		response.Error(c, http.StatusInternalServerError, ErrFailedToCreateSession)
	default:
		c.JSON(http.StatusOK, CheckoutResponse{SessionID: session.ID, URL: session.URL})
	}
}

// VerifyPayment confirms a paid checkout and registers the buyer
// @Summary Verify checkout
// @Description Re-verifying a session whose buyer is already registered succeeds without writing
// @Tags Payments
// @Accept json
// @Produce json
// @Param verification body VerifyRequest true "Checkout session"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /verify-payment [post]
// @Security Bearer
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	actor, err := middleware.Actor(c, h.roles)
	if err != nil {
		log.WithError(err).Error("Failed to resolve caller")
		response.Error(c, http.StatusInternalServerError, ErrVerificationFailed)
		return
	}

	result, err := h.payments.VerifyCheckout(c.Request.Context(), req.SessionID, actor)
	switch {
	case errors.Is(err, services.ErrPaymentNotCompleted):
		response.Error(c, http.StatusBadRequest, ErrPaymentNotCompleted)
		return
	case errors.Is(err, services.ErrNotOwner):
		response.Error(c, http.StatusForbidden, ErrNotOwner)
		return
	case errors.Is(err, services.ErrContestNotFound):
		response.Error(c, http.StatusNotFound, ErrContestNotFound)
		return
	case err != nil:
		log.WithError(err).WithField("session", req.SessionID).Error("Failed to verify checkout session")
		response.Error(c, http.StatusInternalServerError, ErrVerificationFailed)
		return
	}

	if !result.AlreadyRegistered {
		h.events.Publish(realtime.Event{
			ContestID: result.Participant.ContestID,
			Type:      realtime.ParticipantJoined,
			Payload:   result.Participant,
		})
	}
	c.JSON(http.StatusOK, VerifyResponse{
		Success:           true,
		AlreadyRegistered: result.AlreadyRegistered,
		Payment:           result.Payment,
		Participant:       result.Participant,
	})
}

// GetPaymentHistory lists a user's payments
// @Summary Payment history
// @Tags Payments
// @Produce json
// @Param email path string true "User email"
// @Success 200 {array} models.Payment
// @Failure 403 {object} map[string]string
// @Router /payments/{email} [get]
// @Security Bearer
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	payments, err := h.payments.PaymentHistory(c.Request.Context(), c.Param("email"))
	if err != nil {
		log.WithError(err).Error("Failed to get payment history")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetPayments)
		return
	}
	c.JSON(http.StatusOK, payments)
}
