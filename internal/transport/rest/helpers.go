package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

const internalErrMsg = "Erro interno do servidor"

var errMissingAccount = errors.New("account id missing from request context")

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"`+internalErrMsg+`"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps service errors to a status and a user facing message.
// Anything outside the error taxonomy is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := http.StatusInternalServerError, internalErrMsg

	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		status, msg = http.StatusBadRequest, "Valor inválido"
	case errors.Is(err, service.ErrInvalidQuantity):
		status, msg = http.StatusBadRequest, "Quantidade inválida"
	case errors.Is(err, service.ErrInvalidSymbol):
		status, msg = http.StatusBadRequest, "Símbolo inválido"
	case errors.Is(err, service.ErrInsufficientFunds):
		status, msg = http.StatusBadRequest, "Saldo insuficiente"
	case errors.Is(err, service.ErrInsufficientShares):
		status, msg = http.StatusBadRequest, "Quantidade de ações insuficiente"
	case errors.Is(err, service.ErrAccountNotFound):
		status, msg = http.StatusNotFound, "Conta não encontrada"
	case errors.Is(err, service.ErrAlertNotFound):
		status, msg = http.StatusNotFound, "Alerta não encontrado"
	case errors.Is(err, service.ErrQuoteUnavailable):
		status, msg = http.StatusServiceUnavailable, "Cotação indisponível no momento"
	case errors.Is(err, service.ErrSharingDisabled):
		status, msg = http.StatusServiceUnavailable, "Compartilhamento de relatório indisponível"
	default:
		slog.Error(
			"unhandled error",
			slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	writeMessage(w, status, msg)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		slog.Debug("bad request body", slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())), slog.String("err", err.Error()))
		writeMessage(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

// accountID is set by the auth middleware on every protected route.
func accountID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	id, ok := utils.GetAccountIDFromCtx(r.Context())
	if !ok {
		writeError(w, r, op, errMissingAccount)
	}
	return id, ok
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func optionalNumber(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := number(*d)
	return &n
}
