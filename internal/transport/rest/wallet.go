package rest

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
)

func (ctrl *Controller) GetBalance(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetBalance"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	balance, err := ctrl.wallet.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{Saldo: number(balance)})
}

func (ctrl *Controller) Deposit(w http.ResponseWriter, r *http.Request) {
	op := "Controller.Deposit"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := ctrl.wallet.Deposit(r.Context(), id, req.Valor)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, cashResponse{Message: "Depósito realizado com sucesso", Saldo: number(balance)})
}

func (ctrl *Controller) Withdraw(w http.ResponseWriter, r *http.Request) {
	op := "Controller.Withdraw"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := ctrl.wallet.Withdraw(r.Context(), id, req.Valor)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, cashResponse{Message: "Saque realizado com sucesso", Saldo: number(balance)})
}

func (ctrl *Controller) Buy(w http.ResponseWriter, r *http.Request) {
	op := "Controller.Buy"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := ctrl.wallet.Buy(r.Context(), id, req.Simbolo, req.Quantidade)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, tradeResponse{
		Message:    "Compra realizada com sucesso",
		Saldo:      number(res.Balance),
		Simbolo:    res.Symbol,
		Quantidade: res.Quantity,
		Preco:      number(res.Price),
		Total:      number(res.Total),
	})
}

func (ctrl *Controller) Sell(w http.ResponseWriter, r *http.Request) {
	op := "Controller.Sell"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := ctrl.wallet.Sell(r.Context(), id, req.Simbolo, req.Quantidade)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, tradeResponse{
		Message:    "Venda realizada com sucesso",
		Saldo:      number(res.Balance),
		Simbolo:    res.Symbol,
		Quantidade: res.Quantity,
		Preco:      number(res.Price),
		Total:      number(res.Total),
	})
}

func (ctrl *Controller) GetPositions(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetPositions"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	positions, err := ctrl.wallet.GetPositions(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, positionsResponse{Acoes: toPositionDTOs(positions)})
}

func (ctrl *Controller) GetProfitability(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetProfitability"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	profitability, err := ctrl.wallet.GetProfitability(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfitabilityResponse(profitability))
}

func (ctrl *Controller) GetOperations(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetOperations"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	operations, err := ctrl.wallet.GetOperations(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, operationsResponse{Operacoes: toOperationDTOs(operations)})
}

func (ctrl *Controller) GetReport(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetReport"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	fileBytes, fileExtension, err := ctrl.wallet.GenerateReport(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	filename := fmt.Sprintf("carteira_%d%s", id, fileExtension)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(fileBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}

func (ctrl *Controller) ShareReport(w http.ResponseWriter, r *http.Request) {
	op := "Controller.ShareReport"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	link, err := ctrl.wallet.ShareReport(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, linkResponse{Link: link})
}
