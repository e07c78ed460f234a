package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

const triggeredAtLayout = "02/01/2006 15:04"

// markdownEscaper escapes the entity characters of Telegram legacy Markdown.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func AlertTriggeredMessage(alert model.Alert, price decimal.Decimal) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🔔 *Alerta disparado:* %s\n", markdownEscaper.Replace(alert.Symbol)))
	sb.WriteString(fmt.Sprintf("   ▸ Preço atual: *%s*\n", utils.FormatBRL(price)))
	sb.WriteString(fmt.Sprintf("   ▸ Preço alvo: %s\n", utils.FormatBRL(alert.TargetPrice)))
	sb.WriteString(fmt.Sprintf("   ▸ Conta: %d\n", alert.AccountID))

	if alert.TriggeredAt != nil {
		sb.WriteString(fmt.Sprintf("   ▸ Em: %s\n", alert.TriggeredAt.Format(triggeredAtLayout)))
	}

	return sb.String()
}
