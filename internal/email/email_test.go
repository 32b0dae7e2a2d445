package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{"empty config", Config{}, false},
		{"missing host", Config{Port: "587", From: "noreply@example.com"}, false},
		{"missing port", Config{Host: "smtp.example.com", From: "noreply@example.com"}, false},
		{"missing from", Config{Host: "smtp.example.com", Port: "587"}, false},
		{"fully configured", Config{Host: "smtp.example.com", Port: "587", From: "noreply@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsConfigured())
		})
	}
}

func TestNew_FallsBackToLog(t *testing.T) {
	assert.IsType(t, &LogSender{}, New(Config{}))
	assert.IsType(t, &SMTPSender{}, New(Config{Host: "smtp.example.com", Port: "25", From: "noreply@example.com"}))
	assert.NoError(t, New(Config{BaseURL: "http://localhost"}).SendVerification("a@example.com", "Ada", "tok"))
}

func TestSMTPSender_SendVerification(t *testing.T) {
	sender := NewSMTPSender(Config{
		Host:     "smtp.example.com",
		Port:     "587",
		From:     "noreply@example.com",
		FromName: "CivicWatch",
		BaseURL:  "https://civic.example.com/",
	})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	sender.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, sender.SendVerification("ada@example.com", "Ada", "tok123"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "From: CivicWatch <noreply@example.com>\r\n")
	assert.Contains(t, gotMsg, "Subject: Verify your CivicWatch account\r\n")
	assert.Contains(t, gotMsg, "Welcome, Ada!")
	assert.Contains(t, gotMsg, "https://civic.example.com/api/auth/verify?token=tok123")
}

func TestSMTPSender_PropagatesDeliveryError(t *testing.T) {
	sender := NewSMTPSender(Config{Host: "smtp.example.com", Port: "587", From: "noreply@example.com"})
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay refused")
	}
	assert.EqualError(t, sender.SendVerification("ada@example.com", "Ada", "tok"), "relay refused")
}

func TestVerificationURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/api/auth/verify?token=abc", VerificationURL("http://localhost:8080/", "abc"))
}
