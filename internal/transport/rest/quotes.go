package rest

import (
	"net/http"
	"strings"

	"github.com/KotFed0t/carteira_acoes/internal/service"
)

// GetStockPrices answers /stock-prices?symbols=a,b. Symbols without a quote are left out.
func (ctrl *Controller) GetStockPrices(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetStockPrices"

	symbols := service.NormalizeSymbols(strings.Split(r.URL.Query().Get("symbols"), ","))
	if len(symbols) == 0 {
		writeMessage(w, http.StatusBadRequest, "Informe ao menos um símbolo")
		return
	}

	quotes, err := ctrl.quotes.GetQuotes(r.Context(), symbols)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	res := make([]quoteDTO, 0, len(symbols))
	for _, symbol := range symbols {
		if price, ok := quotes[symbol]; ok {
			res = append(res, quoteDTO{Symbol: symbol, C: number(price)})
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (ctrl *Controller) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
