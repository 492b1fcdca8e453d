package email

import (
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"math/big"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendWelcomeEmail(toEmail, toName string) error
	SendPasswordResetEmail(toEmail, toName, token string) error
	SendApprovalEmail(toEmail, toName string) error
	SendRejectionEmail(toEmail, toName string) error
	SendAccountCreatedEmail(toEmail, toName, defaultPassword string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromEmail   string
	UseTLS      bool
	BaseURL     string // Base URL of the API, used in verification links
	FrontendURL string // Base URL of the frontend, used in reset links
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendVerificationEmail sends an email with a verification link
func (s *EmailServiceImpl) SendVerificationEmail(toEmail, toName, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", s.config.BaseURL, token)

	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("verificationURL", verificationURL).
			Msg("SMTP credentials not configured - verification email not sent. Use the URL above for testing.")
		return nil
	}

	subject := "Verify Your Email Address - SamaySetu"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to SamaySetu!</h2>
				<p>Hello %s,</p>
				<p>Thank you for registering with SamaySetu. To complete your registration, please verify your email address by clicking the button below:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Verify Email</a>
				</div>

				<p>This verification link will expire in 24 hours.</p>

				<p>After verification, your account will be reviewed by an administrator before you can log in.</p>

				<p>If you did not register for a SamaySetu account, please ignore this email.</p>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName, verificationURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendWelcomeEmail sends a welcome email once the email address is verified
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}

	subject := "Email Verified - SamaySetu"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Email Verified!</h2>
				<p>Hello %s,</p>
				<p>Your email has been verified. Your account is now awaiting approval by an administrator. You will receive another email once your account has been reviewed.</p>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends an email with a password reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", s.config.BaseURL, token)

	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - password reset email not sent. Use the URL above for testing.")
		return nil
	}

	subject := "Reset Your Password - SamaySetu"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Password Reset Request</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your SamaySetu password. Click the button below to choose a new one:</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>

				<p>This link will expire in 1 hour.</p>

				<p>If you did not request a password reset, please ignore this email. Your password will remain unchanged.</p>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendApprovalEmail notifies a staff member that their account has been approved
func (s *EmailServiceImpl) SendApprovalEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - approval email not sent.")
		return nil
	}

	subject := "Account Approved - SamaySetu"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Account Approved!</h2>
				<p>Hello %s,</p>
				<p>Your SamaySetu account has been approved by an administrator. You can now log in with your registered email and password.</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s/login" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Log In</a>
				</div>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName, s.config.FrontendURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendRejectionEmail notifies a staff member that their registration was rejected
func (s *EmailServiceImpl) SendRejectionEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - rejection email not sent.")
		return nil
	}

	subject := "Registration Update - SamaySetu"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Registration Not Approved</h2>
				<p>Hello %s,</p>
				<p>We are sorry to inform you that your SamaySetu registration was not approved. If you believe this is a mistake, please contact the administration office.</p>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendAccountCreatedEmail notifies a staff member that an admin created an
// account for them with a temporary password
func (s *EmailServiceImpl) SendAccountCreatedEmail(toEmail, toName, defaultPassword string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - account created email not sent.")
		return nil
	}

	subject := "Your SamaySetu Account"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to SamaySetu!</h2>
				<p>Hello %s,</p>
				<p>An account has been created for you on SamaySetu. Log in with your email address and the temporary password below:</p>

				<p style="text-align: center; font-size: 18px;"><strong>%s</strong></p>

				<p>You will be asked to choose a new password on your first login.</p>

				<div style="text-align: center; margin: 30px 0;">
					<a href="%s/login" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Log In</a>
				</div>

				<p>Best regards,<br>The SamaySetu Team</p>
			</div>
		</body>
		</html>
	`, toName, defaultPassword, s.config.FrontendURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// GenerateVerificationToken generates a random token for email verification
func GenerateVerificationToken() (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 32)

	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", fmt.Errorf("secure random generation failed: %w", err)
		}
		result[i] = chars[n.Int64()]
	}

	return string(result), nil
}
