package dbConverter

import (
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/model/dbModel"
)

func ConvertAccount(dbAccount dbModel.Account) model.Account {
	return model.Account{
		ID:          dbAccount.AccountID,
		CashBalance: dbAccount.CashBalance,
		CreatedAt:   dbAccount.DtCreate,
	}
}

func ConvertPosition(dbPosition dbModel.Position) model.Position {
	return model.Position{
		AccountID:   dbPosition.AccountID,
		Symbol:      dbPosition.Symbol,
		Quantity:    dbPosition.Quantity,
		AverageCost: dbPosition.AverageCost,
		UpdatedAt:   dbPosition.DtUpdate,
	}
}

func ConvertAlert(dbAlert dbModel.Alert) model.Alert {
	alert := model.Alert{
		ID:          dbAlert.AlertID,
		AccountID:   dbAlert.AccountID,
		Symbol:      dbAlert.Symbol,
		TargetPrice: dbAlert.TargetPrice,
		Triggered:   dbAlert.Triggered,
		CreatedAt:   dbAlert.DtCreate,
	}
	if dbAlert.DtTriggered.Valid {
		t := dbAlert.DtTriggered.Time
		alert.TriggeredAt = &t
	}
	return alert
}

func ConvertOperation(dbOperation dbModel.Operation) model.Operation {
	return model.Operation{
		ID:           dbOperation.OperationID,
		AccountID:    dbOperation.AccountID,
		Kind:         model.OperationKind(dbOperation.Kind),
		Symbol:       dbOperation.Symbol.String,
		Quantity:     dbOperation.Quantity.Int64,
		Price:        dbOperation.Price.Decimal,
		Total:        dbOperation.Total,
		BalanceAfter: dbOperation.BalanceAfter,
		CreatedAt:    dbOperation.DtCreate,
	}
}
