package rest

import (
	"encoding/json"
	"time"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/shopspring/decimal"
)

type amountRequest struct {
	Valor decimal.Decimal `json:"valor"`
}

type orderRequest struct {
	Simbolo    string `json:"simbolo"`
	Quantidade int64  `json:"quantidade"`
}

type alertRequest struct {
	Simbolo     string          `json:"simbolo"`
	TargetPrice decimal.Decimal `json:"target_price"`
}

type balanceResponse struct {
	Saldo json.Number `json:"saldo"`
}

type cashResponse struct {
	Message string      `json:"message"`
	Saldo   json.Number `json:"saldo"`
}

type tradeResponse struct {
	Message    string      `json:"message"`
	Saldo      json.Number `json:"saldo"`
	Simbolo    string      `json:"simbolo"`
	Quantidade int64       `json:"quantidade"`
	Preco      json.Number `json:"preco"`
	Total      json.Number `json:"total"`
}

type positionDTO struct {
	Simbolo     string      `json:"simbolo"`
	Quantidade  int64       `json:"quantidade"`
	PrecoCompra json.Number `json:"preco_compra"`
}

type positionsResponse struct {
	Acoes []positionDTO `json:"acoes"`
}

type profitabilityDTO struct {
	Simbolo       string       `json:"simbolo"`
	Quantidade    int64        `json:"quantidade"`
	PrecoCompra   json.Number  `json:"preco_compra"`
	PrecoAtual    *json.Number `json:"preco_atual"`
	Rentabilidade *json.Number `json:"rentabilidade"`
}

type profitabilityResponse struct {
	Acoes              []profitabilityDTO `json:"acoes"`
	RentabilidadeTotal json.Number        `json:"rentabilidade_total"`
}

type operationDTO struct {
	Tipo       string       `json:"tipo"`
	Simbolo    string       `json:"simbolo,omitempty"`
	Quantidade int64        `json:"quantidade,omitempty"`
	Preco      *json.Number `json:"preco,omitempty"`
	Total      json.Number  `json:"total"`
	SaldoApos  json.Number  `json:"saldo_apos"`
	Data       time.Time    `json:"data"`
}

type operationsResponse struct {
	Operacoes []operationDTO `json:"operacoes"`
}

type quoteDTO struct {
	Symbol string      `json:"symbol"`
	C      json.Number `json:"c"`
}

type alertDTO struct {
	ID          int64       `json:"id"`
	Simbolo     string      `json:"simbolo"`
	TargetPrice json.Number `json:"target_price"`
	Triggered   bool        `json:"triggered"`
	CreatedAt   time.Time   `json:"created_at"`
	TriggeredAt *time.Time  `json:"triggered_at"`
}

type alertsResponse struct {
	Alerts []alertDTO `json:"alerts"`
}

type createAlertResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type linkResponse struct {
	Link string `json:"link"`
}

func toPositionDTOs(positions []model.Position) []positionDTO {
	res := make([]positionDTO, 0, len(positions))
	for _, p := range positions {
		res = append(res, positionDTO{Simbolo: p.Symbol, Quantidade: p.Quantity, PrecoCompra: number(p.AverageCost)})
	}
	return res
}

func toProfitabilityResponse(profitability model.Profitability) profitabilityResponse {
	res := profitabilityResponse{
		Acoes:              make([]profitabilityDTO, 0, len(profitability.Positions)),
		RentabilidadeTotal: number(profitability.Total),
	}
	for _, p := range profitability.Positions {
		res.Acoes = append(res.Acoes, profitabilityDTO{
			Simbolo:       p.Symbol,
			Quantidade:    p.Quantity,
			PrecoCompra:   number(p.AverageCost),
			PrecoAtual:    optionalNumber(p.Price),
			Rentabilidade: optionalNumber(p.Result),
		})
	}
	return res
}

func toOperationDTOs(operations []model.Operation) []operationDTO {
	res := make([]operationDTO, 0, len(operations))
	for _, o := range operations {
		dto := operationDTO{
			Tipo:       string(o.Kind),
			Simbolo:    o.Symbol,
			Quantidade: o.Quantity,
			Total:      number(o.Total),
			SaldoApos:  number(o.BalanceAfter),
			Data:       o.CreatedAt,
		}
		if o.Symbol != "" {
			dto.Preco = optionalNumber(&o.Price)
		}
		res = append(res, dto)
	}
	return res
}

func toAlertDTOs(alerts []model.Alert) []alertDTO {
	res := make([]alertDTO, 0, len(alerts))
	for _, a := range alerts {
		res = append(res, alertDTO{
			ID:          a.ID,
			Simbolo:     a.Symbol,
			TargetPrice: number(a.TargetPrice),
			Triggered:   a.Triggered,
			CreatedAt:   a.CreatedAt,
			TriggeredAt: a.TriggeredAt,
		})
	}
	return res
}
