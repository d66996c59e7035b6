package mocks

import (
	"sync"

	"github.com/you/kitchensink/domain"
)

// MockPasswordService implements domain.PasswordService. The default
// "hash" is a reversible prefix so tests can assert on stored values.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed:"+password
}

var _ domain.PasswordService = (*MockPasswordService)(nil)

// MockTwoFactorService implements domain.TwoFactorService with a fixed
// secret and code.
type MockTwoFactorService struct {
	GenerateSecretFunc  func() (string, error)
	CurrentCodeFunc     func(secret string) (string, error)
	VerifyCodeFunc      func(secret, code string) bool
	ProvisioningURLFunc func(identity, secret string) string
}

func (m *MockTwoFactorService) GenerateSecret() (string, error) {
	if m.GenerateSecretFunc != nil {
		return m.GenerateSecretFunc()
	}
	return "JBSWY3DPEHPK3PXP", nil
}

func (m *MockTwoFactorService) CurrentCode(secret string) (string, error) {
	if m.CurrentCodeFunc != nil {
		return m.CurrentCodeFunc(secret)
	}
	return "654321", nil
}

func (m *MockTwoFactorService) VerifyCode(secret, code string) bool {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(secret, code)
	}
	return code == "654321"
}

func (m *MockTwoFactorService) ProvisioningURL(identity, secret string) string {
	if m.ProvisioningURLFunc != nil {
		return m.ProvisioningURLFunc(identity, secret)
	}
	return "otpauth://totp/test:" + identity + "?secret=" + secret
}

var _ domain.TwoFactorService = (*MockTwoFactorService)(nil)

// MockMailer implements domain.Mailer and records every message sent.
type MockMailer struct {
	SendFunc func(to, subject, body string) error

	mu   sync.Mutex
	sent []SentMail
}

// SentMail is one recorded delivery.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) Send(to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all recorded deliveries.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ domain.Mailer = (*MockMailer)(nil)
