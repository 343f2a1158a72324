package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"contesthub/metrics"
	"contesthub/models"

	"gorm.io/gorm"
)

// Checkout session metadata keys, read back when the session is verified
const (
	MetaContestID   = "contestId"
	MetaContestName = "contestName"
	MetaUserEmail   = "userEmail"
	MetaUserName    = "userName"
	MetaUserPhoto   = "userPhoto"
)

// VerifyResult is the outcome of a successful verification
type VerifyResult struct {
	Payment           *models.Payment     `json:"payment,omitempty"`
	Participant       *models.Participant `json:"participant"`
	AlreadyRegistered bool                `json:"alreadyRegistered"`
}

type PaymentService struct {
	db        *gorm.DB
	provider  PaymentProvider
	currency  string
	clientURL string
}

func NewPaymentService(db *gorm.DB, provider PaymentProvider, currency, clientURL string) *PaymentService {
	return &PaymentService{
		db:        db,
		provider:  provider,
		currency:  currency,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// CreateCheckout opens a hosted checkout for the contest's entry fee.
// No session is created when the buyer is already registered.
func (s *PaymentService) CreateCheckout(ctx context.Context, contestID string, buyer Registrant) (*CheckoutSession, error) {
	db := s.db.WithContext(ctx)
	contest, err := findContest(db, contestID)
	if err != nil {
		return nil, err
	}
	existing, err := findRegistration(db, contestID, buyer.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.Payments.WithLabelValues("checkout", "already_registered").Inc()
		return nil, ErrAlreadyRegistered
	}

	amount := ToMinorUnits(contest.Price)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		ProductName:   contest.Name,
		AmountMinor:   amount,
		Currency:      s.currency,
		CustomerEmail: buyer.Email,
		SuccessURL: fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}&contestId=%s",
			s.clientURL, url.QueryEscape(contest.ID)),
		CancelURL: fmt.Sprintf("%s/contest/%s?payment=cancelled", s.clientURL, url.PathEscape(contest.ID)),
		Metadata: map[string]string{
			MetaContestID:   contest.ID,
			MetaContestName: contest.Name,
			MetaUserEmail:   strings.ToLower(buyer.Email),
			MetaUserName:    buyer.Name,
			MetaUserPhoto:   buyer.Photo,
		},
	})
	if err != nil {
		metrics.Payments.WithLabelValues("checkout", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitFailed, err)
	}
	metrics.Payments.WithLabelValues("checkout", "created").Inc()
	return session, nil
}

// VerifyCheckout confirms a paid session and registers the buyer.
// Re-verifying a session whose buyer is already registered is a no-op.
func (s *PaymentService) VerifyCheckout(ctx context.Context, sessionID string, caller Actor) (*VerifyResult, error) {
	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		metrics.Payments.WithLabelValues("verify", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if session.PaymentStatus != PaymentStatusPaid {
		metrics.Payments.WithLabelValues("verify", "unpaid").Inc()
		return nil, ErrPaymentNotCompleted
	}

	md := session.Metadata
	contestID, email := md[MetaContestID], strings.ToLower(md[MetaUserEmail])
	if contestID == "" || email == "" {
		metrics.Payments.WithLabelValues("verify", "error").Inc()
		return nil, fmt.Errorf("%w: session %s carries no registration metadata", ErrVerificationFailed, session.ID)
	}
	if caller.Role != models.RoleAdmin && !strings.EqualFold(caller.Email, email) {
		return nil, ErrNotOwner
	}

	defer metrics.RecordDBOperation("verify", "payments", time.Now())
	result := &VerifyResult{}
	contestGone := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findRegistration(tx, contestID, email)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Participant = existing
			result.AlreadyRegistered = true
			return nil
		}

		contest, err := findContest(tx, contestID)
		switch {
		case errors.Is(err, ErrContestNotFound):
			contestGone = true
		case err != nil:
			return err
		}
		contestName := md[MetaContestName]
		if contestName == "" && contest != nil {
			contestName = contest.Name
		}

		// a paid session is recorded even when the contest was deleted after checkout
		payment, err := recordPayment(tx, session, contestID, contestName, email, md[MetaUserName], s.currency)
		if err != nil {
			return err
		}
		result.Payment = payment
		if contestGone {
			return nil
		}

		participant := &models.Participant{
			ContestID:   contestID,
			ContestName: contestName,
			UserEmail:   email,
			UserName:    md[MetaUserName],
			UserPhoto:   md[MetaUserPhoto],
			PaymentID:   &payment.ID,
		}
		if err := insertParticipant(tx, participant); err != nil {
			return err
		}
		result.Participant = participant
		return nil
	})
	if err != nil {
		metrics.Payments.WithLabelValues("verify", "error").Inc()
		return nil, err
	}
	if contestGone {
		metrics.Payments.WithLabelValues("verify", "contest_missing").Inc()
		return nil, ErrContestNotFound
	}

	if result.AlreadyRegistered {
		metrics.Payments.WithLabelValues("verify", "already_registered").Inc()
	} else {
		metrics.Payments.WithLabelValues("verify", "registered").Inc()
		metrics.Registrations.WithLabelValues("payment").Inc()
	}
	return result, nil
}

// recordPayment stores the session's payment once; re-verifying returns the existing row
func recordPayment(tx *gorm.DB, session *CheckoutSession, contestID, contestName, email, userName, fallbackCurrency string) (*models.Payment, error) {
	var existing models.Payment
	err := tx.Where("session_id = ?", session.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	currency := session.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	payment := &models.Payment{
		SessionID:     session.ID,
		ContestID:     contestID,
		ContestName:   contestName,
		UserEmail:     email,
		UserName:      userName,
		Amount:        FromMinorUnits(session.AmountTotal),
		Currency:      currency,
		PaymentStatus: session.PaymentStatus,
		PaidAt:        time.Now().UTC(),
	}
	if err := tx.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

// PaymentHistory returns the user's payments, newest first
func (s *PaymentService) PaymentHistory(ctx context.Context, email string) ([]models.Payment, error) {
	defer metrics.RecordDBOperation("history", "payments", time.Now())

	payments := []models.Payment{}
	err := s.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(email)).
		Order("paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
