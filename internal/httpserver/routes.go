package httpserver

import (
	"net/http"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/transport/rest"
	"github.com/KotFed0t/carteira_acoes/internal/transport/rest/middleware"
)

func NewHandler(cfg *config.Config, ctrl *rest.Controller) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(cfg.Auth.JWTSecret)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	mux.HandleFunc("GET /health", ctrl.Health)
	mux.HandleFunc("GET /stock-prices", ctrl.GetStockPrices)

	protected("GET /saldo", ctrl.GetBalance)
	protected("POST /deposito", ctrl.Deposit)
	protected("POST /saque", ctrl.Withdraw)
	protected("POST /comprar", ctrl.Buy)
	protected("POST /vender", ctrl.Sell)
	protected("GET /minhas-acoes", ctrl.GetPositions)
	protected("GET /rentabilidade", ctrl.GetProfitability)
	protected("GET /extrato", ctrl.GetOperations)
	protected("GET /relatorio", ctrl.GetReport)
	protected("POST /relatorio/compartilhar", ctrl.ShareReport)

	protected("GET /alerts", ctrl.GetAlerts)
	protected("POST /alerts", ctrl.CreateAlert)
	protected("DELETE /alerts/{id}", ctrl.DeleteAlert)

	var h http.Handler = mux
	h = middleware.CORS(cfg.HTTP.CORSOrigins)(h)
	h = middleware.Recover()(h)
	h = middleware.Logging()(h)

	return h
}
