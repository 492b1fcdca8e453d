package email

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationToken(t *testing.T) {
	token, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.Len(t, token, 32)

	// Tokens are random, two generations differ
	token2, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)

	for _, c := range token {
		assert.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'),
			"token contains unexpected character %q", c)
	}
}

func TestSendWithoutSMTPCredentials(t *testing.T) {
	// Without credentials the service logs the link instead of sending,
	// so local environments work without a mail server
	svc := NewEmailService(SMTPConfig{
		Host:        "smtp.example.com",
		Port:        587,
		FromName:    "SamaySetu Admin",
		FromEmail:   "noreply@mitaoe.ac.in",
		BaseURL:     "http://localhost:8080",
		FrontendURL: "http://localhost:5173",
	}, zerolog.Nop())

	assert.NoError(t, svc.SendVerificationEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh", "sometoken"))
	assert.NoError(t, svc.SendWelcomeEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh"))
	assert.NoError(t, svc.SendPasswordResetEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh", "sometoken"))
	assert.NoError(t, svc.SendApprovalEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh"))
	assert.NoError(t, svc.SendRejectionEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh"))
	assert.NoError(t, svc.SendAccountCreatedEmail("anita.d@mitaoe.ac.in", "Anita Deshmukh", "mitaoe@123"))
}
