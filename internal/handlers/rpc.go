package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardlink/transfer-service/internal/catalog"
	"github.com/cardlink/transfer-service/internal/service"
)

const rpcVersion = "2.0"

// Standard JSON-RPC transport codes. Business failures use catalog codes
// instead; only envelope-level problems answer with these.
const (
	rpcParseError     = -32700
	rpcMethodNotFound = -32601
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// rpcMethod handles one dispatched call. Params arrive raw; each method
// decodes its own shape and pulls the lang field for localization.
type rpcMethod func(ctx context.Context, params json.RawMessage) (any, *rpcError)

func (h *Handler) rpcMethods() map[string]rpcMethod {
	return map[string]rpcMethod{
		"transfer.create":  h.rpcCreate,
		"transfer.confirm": h.rpcConfirm,
		"transfer.cancel":  h.rpcCancel,
		"transfer.state":   h.rpcState,
		"transfer.history": h.rpcHistory,
	}
}

// ServeRPC handles the single JSON-RPC endpoint. Every call that parses
// answers HTTP 200; business errors live in the response envelope. Only a
// non-POST request produces a non-200 status.
func (h *Handler) ServeRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeRPC(w, http.StatusMethodNotAllowed, &rpcResponse{
			JSONRPC: rpcVersion,
			Error: &rpcError{
				Code:    catalog.CodeMethodNotAllowed,
				Message: h.catalog.Message(r.Context(), catalog.CodeMethodNotAllowed, ""),
			},
		})
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		h.writeRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: rpcVersion,
			Error:   &rpcError{Code: rpcParseError, Message: "Parse error"},
		})
		return
	}

	method, ok := h.rpcMethods()[req.Method]
	if !ok {
		h.writeRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: rpcVersion,
			Error:   &rpcError{Code: rpcMethodNotFound, Message: "Method not found"},
			ID:      req.ID,
		})
		return
	}

	result, rpcErr := method(r.Context(), req.Params)
	h.writeRPC(w, http.StatusOK, &rpcResponse{
		JSONRPC: rpcVersion,
		Result:  result,
		Error:   rpcErr,
		ID:      req.ID,
	})
}

func (h *Handler) writeRPC(w http.ResponseWriter, status int, resp *rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write rpc response", "error", err)
	}
}

// createParams carries no validate tags on purpose: the service's own
// validation sequence owns the error ordering, so an absent card number
// fails the checksum step rather than a transport-level check.
type createParams struct {
	ExtID              string `json:"extId"`
	SenderCardNumber   string `json:"senderCardNumber"`
	SenderCardExpiry   string `json:"senderCardExpiry"`
	ReceiverCardNumber string `json:"receiverCardNumber"`
	SendingAmount      string `json:"sendingAmount"`
	SenderPhone        string `json:"senderPhone"`
	ReceiverPhone      string `json:"receiverPhone"`
	Lang               string `json:"lang"`
	Currency           int    `json:"currency"`
}

func (h *Handler) rpcCreate(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params createParams
	if rpcErr := h.decodeParams(ctx, raw, &params); rpcErr != nil {
		return nil, rpcErr
	}

	result, err := h.creator.Create(ctx, service.CreateParams{
		ExtID:              params.ExtID,
		SenderCardNumber:   params.SenderCardNumber,
		SenderCardExpiry:   params.SenderCardExpiry,
		ReceiverCardNumber: params.ReceiverCardNumber,
		SendingAmount:      params.SendingAmount,
		SenderPhone:        params.SenderPhone,
		ReceiverPhone:      params.ReceiverPhone,
		Currency:           params.Currency,
	})
	if err != nil {
		return nil, h.serviceError(ctx, err, params.Lang)
	}
	return result, nil
}

type confirmParams struct {
	ExtID string `json:"extId" validate:"required"`
	OTP   string `json:"otp"`
	Lang  string `json:"lang"`
}

func (h *Handler) rpcConfirm(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params confirmParams
	if rpcErr := h.decodeParams(ctx, raw, &params); rpcErr != nil {
		return nil, rpcErr
	}

	status, err := h.confirmer.Confirm(ctx, params.ExtID, params.OTP)
	if err != nil {
		return nil, h.serviceError(ctx, err, params.Lang)
	}
	return status, nil
}

type extIDParams struct {
	ExtID string `json:"extId" validate:"required"`
	Lang  string `json:"lang"`
}

func (h *Handler) rpcCancel(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params extIDParams
	if rpcErr := h.decodeParams(ctx, raw, &params); rpcErr != nil {
		return nil, rpcErr
	}

	status, err := h.canceller.Cancel(ctx, params.ExtID)
	if err != nil {
		return nil, h.serviceError(ctx, err, params.Lang)
	}
	return status, nil
}

func (h *Handler) rpcState(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params extIDParams
	if rpcErr := h.decodeParams(ctx, raw, &params); rpcErr != nil {
		return nil, rpcErr
	}

	status, err := h.querier.State(ctx, params.ExtID)
	if err != nil {
		return nil, h.serviceError(ctx, err, params.Lang)
	}
	return status, nil
}

type historyParams struct {
	CardNumber string `json:"cardNumber"`
	Status     string `json:"status"`
	StartDate  string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Lang       string `json:"lang"`
}

func (h *Handler) rpcHistory(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params historyParams
	if rpcErr := h.decodeParams(ctx, raw, &params); rpcErr != nil {
		return nil, rpcErr
	}

	items, err := h.querier.History(ctx, service.HistoryParams{
		CardNumber: params.CardNumber,
		State:      params.Status,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
	})
	if err != nil {
		return nil, h.serviceError(ctx, err, params.Lang)
	}
	if items == nil {
		items = []service.TransferSummary{}
	}
	return items, nil
}

// decodeParams unmarshals and validates a method's params. Shape failures
// answer with the generic invalid code so malformed calls and unknown
// references are indistinguishable to the caller.
func (h *Handler) decodeParams(ctx context.Context, raw json.RawMessage, dst any) *rpcError {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, dst); err != nil {
			return h.genericError(ctx, "")
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		return h.genericError(ctx, langOf(dst))
	}
	return nil
}

func langOf(dst any) string {
	switch p := dst.(type) {
	case *createParams:
		return p.Lang
	case *confirmParams:
		return p.Lang
	case *extIDParams:
		return p.Lang
	case *historyParams:
		return p.Lang
	}
	return ""
}

func (h *Handler) genericError(ctx context.Context, lang string) *rpcError {
	return &rpcError{
		Code:    catalog.CodeInvalidCard,
		Message: h.catalog.Message(ctx, catalog.CodeInvalidCard, lang),
	}
}

// serviceError converts a service failure into an rpc error with a
// localized message. The wrong-OTP message carries a dynamic attempt count
// and passes through untranslated.
func (h *Handler) serviceError(ctx context.Context, err error, lang string) *rpcError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		msg := svcErr.Message
		if svcErr.Code != catalog.CodeWrongOTP {
			msg = h.catalog.Message(ctx, svcErr.Code, lang)
		}
		return &rpcError{Code: svcErr.Code, Message: msg}
	}

	h.logger.Error("unhandled service failure", "error", err)
	return h.genericError(ctx, lang)
}
