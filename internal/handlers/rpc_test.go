package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cardlink/transfer-service/internal/catalog"
	"github.com/cardlink/transfer-service/internal/config"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/notify"
	"github.com/cardlink/transfer-service/internal/repository/mocks"
	"github.com/cardlink/transfer-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	senderCard   = "4532015112830366"
	receiverCard = "4556737586899855"
)

type healthStub struct {
	err error
}

func (h healthStub) PingContext(context.Context) error {
	return h.err
}

type testEnv struct {
	handler   *Handler
	transfers *mocks.MockTransferRepository
	cards     *mocks.MockCardRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transfers := mocks.NewMockTransferRepository(t)
	cards := mocks.NewMockCardRepository(t)

	cfg := config.TransferConfig{
		OTPTTL:      5 * time.Minute,
		OTPLength:   6,
		MaxAttempts: 3,
		MaxAmount:   1_200_000_000,
	}
	otp := service.NewRandOTPSource(rand.New(rand.NewSource(1)))
	notifier := notify.NewLogNotifier(logger)

	transferService := service.NewTransferService(transfers, cards, notifier, otp, cfg, logger)
	cardAdmin := service.NewCardAdminService(cards, notifier, logger)
	cat := catalog.New(nil, logger)

	return &testEnv{
		handler:   NewHandler(transferService, cardAdmin, healthStub{}, cat, logger),
		transfers: transfers,
		cards:     cards,
	}
}

func (e *testEnv) call(t *testing.T, body string) (*httptest.ResponseRecorder, *rpcResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeRPC(rec, req)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, &resp
}

func rpcBody(method string, params string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"%s","params":%s}`, method, params)
}

func senderCardModel(balance int64) *models.Card {
	return &models.Card{
		CardNumber: senderCard,
		Expire:     "2031-07",
		Phone:      "998999730303",
		Status:     models.CardStatusActive,
		Balance:    decimal.NewFromInt(balance),
	}
}

func receiverCardModel() *models.Card {
	return &models.Card{
		CardNumber: receiverCard,
		Expire:     "2030-01",
		Phone:      "998901234567",
		Status:     models.CardStatusActive,
	}
}

func TestServeRPC_Create(t *testing.T) {
	createParamsJSON := fmt.Sprintf(`{
		"extId": "ord-1",
		"senderCardNumber": "%s",
		"senderCardExpiry": "2031-07",
		"receiverCardNumber": "%s",
		"sendingAmount": "150",
		"currency": 643
	}`, senderCard, receiverCard)

	t.Run("successful create", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(nil, models.ErrNotFound)
		env.cards.On("FindByNumber", mock.Anything, senderCard).Return(senderCardModel(1000), nil)
		env.cards.On("FindByNumber", mock.Anything, receiverCard).Return(receiverCardModel(), nil)
		env.transfers.On("Create", mock.Anything, mock.AnythingOfType("*models.Transfer")).Return(nil)

		rec, resp := env.call(t, rpcBody("transfer.create", createParamsJSON))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, resp.Error)

		result := resp.Result.(map[string]any)
		assert.Equal(t, "ord-1", result["extId"])
		assert.Equal(t, "created", result["state"])
		assert.Equal(t, true, result["otpSent"])
	})

	t.Run("insufficient balance in russian", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(nil, models.ErrNotFound)
		env.cards.On("FindByNumber", mock.Anything, senderCard).Return(senderCardModel(100), nil)

		params := strings.TrimSuffix(strings.TrimSpace(createParamsJSON), "}") + `, "lang": "ru"}`
		_, resp := env.call(t, rpcBody("transfer.create", params))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeInsufficientBalance, resp.Error.Code)
		assert.Equal(t, "Недостаточно средств на карте отправителя", resp.Error.Message)
	})

	t.Run("duplicate ext_id", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").
			Return(&models.Transfer{ExtID: "ord-1"}, nil)

		_, resp := env.call(t, rpcBody("transfer.create", createParamsJSON))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeDuplicateExtID, resp.Error.Code)
		assert.Equal(t, "Transfer with this ext_id already exists", resp.Error.Message)
	})

	t.Run("missing sender card number", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").
			Return(nil, models.ErrNotFound)

		_, resp := env.call(t, rpcBody("transfer.create", `{"extId":"ord-1"}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeInvalidCard, resp.Error.Code)
	})

	t.Run("missing ext_id wins over missing card fields", func(t *testing.T) {
		env := newTestEnv(t)

		_, resp := env.call(t, rpcBody("transfer.create", `{}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeMissingExtID, resp.Error.Code)
	})
}

func TestServeRPC_Confirm(t *testing.T) {
	pending := func() *models.Transfer {
		return &models.Transfer{
			ExtID:     "ord-1",
			State:     models.TransferStateCreated,
			OTP:       "123456",
			CreatedAt: time.Now(),
		}
	}

	t.Run("successful confirm", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(pending(), nil)
		env.transfers.On("ConfirmIfCreated", mock.Anything, "ord-1", mock.AnythingOfType("time.Time")).
			Return(true, nil)

		_, resp := env.call(t, rpcBody("transfer.confirm", `{"extId":"ord-1","otp":"123456"}`))

		assert.Nil(t, resp.Error)
		result := resp.Result.(map[string]any)
		assert.Equal(t, "confirmed", result["state"])
	})

	t.Run("wrong otp keeps its dynamic message", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(pending(), nil)
		env.transfers.On("IncrementTryCount", mock.Anything, "ord-1").Return(1, nil)

		_, resp := env.call(t, rpcBody("transfer.confirm",
			`{"extId":"ord-1","otp":"000000","lang":"ru"}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeWrongOTP, resp.Error.Code)
		assert.Equal(t, "OTP is wrong, left try count is 2", resp.Error.Message)
	})

	t.Run("expired otp localized", func(t *testing.T) {
		env := newTestEnv(t)

		stale := pending()
		stale.CreatedAt = time.Now().Add(-10 * time.Minute)
		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(stale, nil)

		_, resp := env.call(t, rpcBody("transfer.confirm",
			`{"extId":"ord-1","otp":"123456","lang":"uz"}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeOTPExpired, resp.Error.Code)
		assert.Equal(t, "OTP muddati tugagan", resp.Error.Message)
	})
}

func TestServeRPC_CancelAndState(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "ord-1").Return(&models.Transfer{
			ExtID:     "ord-1",
			State:     models.TransferStateCreated,
			CreatedAt: time.Now(),
		}, nil)
		env.transfers.On("CancelIfCreated", mock.Anything, "ord-1", mock.AnythingOfType("time.Time")).
			Return(true, nil)

		_, resp := env.call(t, rpcBody("transfer.cancel", `{"extId":"ord-1"}`))

		assert.Nil(t, resp.Error)
		result := resp.Result.(map[string]any)
		assert.Equal(t, "cancelled", result["state"])
	})

	t.Run("state of unknown transfer", func(t *testing.T) {
		env := newTestEnv(t)

		env.transfers.On("FindByExtID", mock.Anything, "missing").Return(nil, models.ErrNotFound)

		_, resp := env.call(t, rpcBody("transfer.state", `{"extId":"missing"}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeInvalidCard, resp.Error.Code)
	})
}

func TestServeRPC_History(t *testing.T) {
	env := newTestEnv(t)

	env.transfers.On("Search", mock.Anything, mock.Anything).Return([]models.Transfer{
		{
			ExtID:         "ord-1",
			State:         models.TransferStateConfirmed,
			SendingAmount: decimal.NewFromInt(150),
			CreatedAt:     time.Now(),
		},
	}, nil)

	_, resp := env.call(t, rpcBody("transfer.history", fmt.Sprintf(`{"cardNumber":"%s"}`, senderCard)))

	assert.Nil(t, resp.Error)
	items := resp.Result.([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "ord-1", first["extId"])
	assert.Equal(t, "confirmed", first["state"])
	assert.Equal(t, float64(150), first["sendingAmount"])
}

func TestServeRPC_Transport(t *testing.T) {
	t.Run("non-POST is rejected with catalog code", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/rpc", nil)
		rec := httptest.NewRecorder()
		env.handler.ServeRPC(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

		var resp rpcResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, catalog.CodeMethodNotAllowed, resp.Error.Code)
		assert.Equal(t, "Method not allowed, use POST", resp.Error.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		env := newTestEnv(t)

		rec, resp := env.call(t, `{"jsonrpc":`)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcParseError, resp.Error.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		env := newTestEnv(t)

		_, resp := env.call(t, rpcBody("transfer.nuke", `{}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, rpcMethodNotFound, resp.Error.Code)
	})
}
