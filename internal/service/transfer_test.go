package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cardlink/transfer-service/internal/config"
	"github.com/cardlink/transfer-service/internal/notify"
	"github.com/cardlink/transfer-service/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
)

// Shared fixtures for the transfer service tests. Both card numbers pass
// Luhn validation.
const (
	testSenderCard   = "4532015112830366"
	testReceiverCard = "4556737586899855"
	testExpiry       = "2031-07"
	testOTP          = "123456"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubOTPSource struct {
	code string
}

func (s stubOTPSource) Generate(int) string {
	return s.code
}

type sentMessage struct {
	Phone string
	Text  string
}

// captureNotifier records sends on a channel so tests can wait for the
// async OTP dispatch.
type captureNotifier struct {
	messages chan sentMessage
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{messages: make(chan sentMessage, 4)}
}

func (n *captureNotifier) Send(phone, text string) error {
	n.messages <- sentMessage{Phone: phone, Text: text}
	return nil
}

func testTransferConfig() config.TransferConfig {
	return config.TransferConfig{
		OTPTTL:      5 * time.Minute,
		OTPLength:   6,
		MaxAttempts: 3,
		MaxAmount:   1_200_000_000,
	}
}

func newTestTransferService(
	transfers *mocks.MockTransferRepository,
	cards *mocks.MockCardRepository,
	notifier notify.Notifier,
) *TransferService {
	svc := NewTransferService(
		transfers, cards, notifier,
		stubOTPSource{code: testOTP},
		testTransferConfig(), testLogger(),
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func assertServiceCode(t *testing.T, err error, code int) {
	t.Helper()
	var svcErr *ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, code, svcErr.Code)
	}
}
