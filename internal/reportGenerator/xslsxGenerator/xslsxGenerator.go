package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/xuri/excelize/v2"
)

const (
	PositionsSheet  = "Posições"
	OperationsSheet = "Extrato"

	dateLayout = "02/01/2006 15:04:05"
)

var operationKindNames = map[model.OperationKind]string{
	model.OperationDeposit:  "depósito",
	model.OperationWithdraw: "saque",
	model.OperationBuy:      "compra",
	model.OperationSell:     "venda",
}

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", report.AccountID))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err = g.fillPositionsSheet(f, report); err != nil {
		slog.Error("got error while filling positions sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err = g.fillOperationsSheet(f, report.Operations); err != nil {
		slog.Error("got error while filling operations sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	// Удаляем лист по умолчанию "Sheet1"
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillPositionsSheet(f *excelize.File, report model.Report) error {
	sheet := PositionsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := titleRow(f, sheet, 1, "A", "F", fmt.Sprintf("Carteira %d", report.AccountID), "#cfe2f3"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheet, "A2", "saldo")
	_ = f.SetCellValue(sheet, "B2", report.Balance.InexactFloat64())
	_ = f.SetCellStr(sheet, "C2", "rentabilidade")
	_ = f.SetCellValue(sheet, "D2", report.Profitability.Total.InexactFloat64())
	_ = f.SetCellStr(sheet, "E2", "gerado em")
	_ = f.SetCellStr(sheet, "F2", report.GeneratedAt.Format(dateLayout))

	if err := titleRow(f, sheet, 4, "A", "F", "Ações", "#d9ead3"); err != nil {
		return err
	}

	headers := []string{"símbolo", "quantidade", "preço de compra", "preço atual", "valor de mercado", "rentabilidade"}
	if err := f.SetSheetRow(sheet, "A5", &headers); err != nil {
		return err
	}

	for i, position := range report.Profitability.Positions {
		row := i + 6
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), position.Symbol)
		_ = f.SetCellInt(sheet, fmt.Sprintf("B%d", row), position.Quantity)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), position.AverageCost.InexactFloat64())

		// без котировки цена и результат остаются пустыми
		if position.Price == nil {
			continue
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), position.Price.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), position.MarketValue(*position.Price).InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), position.Result.InexactFloat64())
	}

	return nil
}

func (g *XSLSXGenerator) fillOperationsSheet(f *excelize.File, operations []model.Operation) error {
	sheet := OperationsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := titleRow(f, sheet, 1, "A", "G", "Histórico de operações", "#cccccc"); err != nil {
		return err
	}

	headers := []string{"data", "operação", "símbolo", "quantidade", "preço", "total", "saldo após"}
	if err := f.SetSheetRow(sheet, "A2", &headers); err != nil {
		return err
	}

	for i, operation := range operations {
		row := i + 3
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), operation.CreatedAt.Format(dateLayout))
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", row), operationKindNames[operation.Kind])
		if operation.Symbol != "" {
			_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", row), operation.Symbol)
			_ = f.SetCellInt(sheet, fmt.Sprintf("D%d", row), operation.Quantity)
			_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), operation.Price.InexactFloat64())
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), operation.Total.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), operation.BalanceAfter.InexactFloat64())
	}

	return nil
}

func titleRow(f *excelize.File, sheet string, row int, fromCol, toCol, title, color string) error {
	from, to := fmt.Sprintf("%s%d", fromCol, row), fmt.Sprintf("%s%d", toCol, row)

	if err := f.MergeCell(sheet, from, to); err != nil {
		return err
	}

	_ = f.SetCellStr(sheet, from, title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("error applying style: %w", err)
	}

	return nil
}
