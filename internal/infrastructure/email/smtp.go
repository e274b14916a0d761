package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	paymentUsecases "vonix/internal/application/payment/usecases"
)

type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	FromName     string
	AdminAddress string // Recipient for donation notifications
}

// SMTPEmailService sends admin notifications over SMTP. It satisfies the
// webhook usecase's DonationNotifier interface.
type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) NotifyDonation(_ context.Context, cmd paymentUsecases.DonationNotification) error {
	if s.config.AdminAddress == "" {
		return nil
	}

	donor := cmd.DonorName
	if donor == "" {
		donor = cmd.Username
	}
	if donor == "" {
		donor = "Anonymous"
	}

	rankLine := "No rank granted (tip)"
	if cmd.RankName != "" {
		rankLine = fmt.Sprintf("%s for %d days", cmd.RankName, cmd.Days)
	}

	subject := fmt.Sprintf("New donation: %.2f %s from %s", cmd.Amount, cmd.Currency, donor)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New Donation Received</h2>
			<ul>
				<li><strong>Donor:</strong> %s</li>
				<li><strong>Amount:</strong> %.2f %s</li>
				<li><strong>Provider:</strong> %s</li>
				<li><strong>Rank:</strong> %s</li>
				<li><strong>Reference:</strong> %s</li>
				<li><strong>Received:</strong> %s</li>
			</ul>
		</body>
		</html>
	`, donor, cmd.Amount, cmd.Currency, cmd.Provider, rankLine, cmd.DonationSID, cmd.ReceivedAt.Format("2006-01-02 15:04:05 MST"))

	plainBody := fmt.Sprintf(`New Donation Received

Donor: %s
Amount: %.2f %s
Provider: %s
Rank: %s
Reference: %s
Received: %s
`, donor, cmd.Amount, cmd.Currency, cmd.Provider, rankLine, cmd.DonationSID, cmd.ReceivedAt.Format("2006-01-02 15:04:05 MST"))

	return s.sendEmail(s.config.AdminAddress, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
