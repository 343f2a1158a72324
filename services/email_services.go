package services

import (
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strings"

	"contesthub/config"
	"contesthub/models"

	"github.com/shopspring/decimal"
)

// WinnerNotifier tells a participant they won a contest
type WinnerNotifier interface {
	NotifyWinner(contest *models.Contest, participant *models.Participant) error
}

// NewWinnerNotifier returns an SMTP notifier, or a no-op one when mail is not configured
func NewWinnerNotifier(cfg config.MailConfig, clientURL, currency string) WinnerNotifier {
	if !cfg.Enabled() {
		return noopNotifier{}
	}
	return &EmailService{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		clientURL: strings.TrimRight(clientURL, "/"),
		currency:  currency,
	}
}

type noopNotifier struct{}

func (noopNotifier) NotifyWinner(*models.Contest, *models.Participant) error { return nil }

type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	clientURL string
	currency  string
}

func (s *EmailService) NotifyWinner(contest *models.Contest, participant *models.Participant) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	msg := []byte(winnerEmail(participant.UserEmail, participant.UserName, contest.Name,
		formatAmount(contest.PrizeMoney, s.currency), fmt.Sprintf("%s/contest/%s", s.clientURL, contest.ID)))
	return smtp.SendMail(s.host+":"+s.port, auth, s.username, []string{participant.UserEmail}, msg)
}

// formatAmount renders a prize as "125.50 USD"
func formatAmount(amount float64, currency string) string {
	formatted := decimal.NewFromFloat(amount).StringFixed(2)
	if currency == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currency)
}

// winnerEmail builds the raw CRLF message. Header values stay on one line; the subject is Q-encoded.
func winnerEmail(to, name, contestName, prize, link string) string {
	if name == "" {
		name = "there"
	}
	headers := []string{
		"To: " + strings.NewReplacer("\r", "", "\n", "").Replace(to),
		"MIME-version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"Subject: " + mime.QEncoding.Encode("utf-8", fmt.Sprintf("You won %s on ContestHub", contestName)),
	}
	htmlTemplate := strings.TrimSpace(`
<!DOCTYPE html>
<html>
<body style="background-color: #f9fafb; margin: 0; padding: 0; font-family: Arial, sans-serif;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <tr>
            <td style="background: #1a1a1a; padding: 40px 20px; text-align: center; border-radius: 12px;">
                <h1 style="color: #ffffff; font-size: 24px;">Congratulations %s!</h1>
                <p style="color: #9ca3af; font-size: 16px;">You were declared the winner of <strong>%s</strong> with a prize of %s.</p>
                <a href="%s" style="display: inline-block; background-color: #d97706; color: #ffffff; text-decoration: none; padding: 12px 30px; border-radius: 25px; font-weight: bold;">View contest</a>
            </td>
        </tr>
    </table>
</body>
</html>
`)
	body := fmt.Sprintf(htmlTemplate, html.EscapeString(name), html.EscapeString(contestName), html.EscapeString(prize), link)
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + strings.ReplaceAll(body, "\n", "\r\n")
}
