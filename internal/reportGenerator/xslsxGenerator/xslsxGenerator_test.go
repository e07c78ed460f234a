package xslsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	price := decimal.NewFromInt(160)
	result := decimal.NewFromInt(100)
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	report := model.Report{
		AccountID: 5,
		Balance:   decimal.RequireFromString("250.5"),
		Profitability: model.Profitability{
			Positions: []model.PositionProfitability{
				{
					Position: model.Position{Symbol: "AAPL", Quantity: 10, AverageCost: decimal.NewFromInt(150)},
					Price:    &price,
					Result:   &result,
				},
				{
					Position: model.Position{Symbol: "ZZZZ", Quantity: 1, AverageCost: decimal.NewFromInt(3)},
				},
			},
			Total: result,
		},
		Operations: []model.Operation{
			{Kind: model.OperationBuy, Symbol: "AAPL", Quantity: 10, Price: decimal.NewFromInt(150), Total: decimal.NewFromInt(1500), BalanceAfter: decimal.NewFromInt(250), CreatedAt: now},
			{Kind: model.OperationDeposit, Total: decimal.NewFromInt(1750), BalanceAfter: decimal.NewFromInt(1750), CreatedAt: now},
		},
		GeneratedAt: now,
	}

	fileBytes, ext, err := New().Generate(context.Background(), report)
	if err != nil {
		t.Fatal(err)
	}
	if ext != ".xlsx" {
		t.Errorf("ext = %q", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != PositionsSheet || sheets[1] != OperationsSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	cells := map[string]string{
		"A1": "Carteira 5",
		"B2": "250.5",
		"A6": "AAPL",
		"B6": "10",
		"D6": "160",
		"E6": "1600",
		"F6": "100",
		"A7": "ZZZZ",
		"D7": "",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(PositionsSheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s!%s = %q, want %q", PositionsSheet, cell, got, want)
		}
	}

	rows, err := f.GetRows(OperationsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("operations rows = %d, want 4", len(rows))
	}
	if rows[2][1] != "compra" || rows[2][2] != "AAPL" || rows[3][1] != "depósito" {
		t.Errorf("operations rows = %v", rows[2:])
	}
}

func TestGenerate_EmptyPortfolio(t *testing.T) {
	fileBytes, _, err := New().Generate(context.Background(), model.Report{AccountID: 1, GeneratedAt: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	if len(fileBytes) == 0 {
		t.Error("empty file")
	}
}
