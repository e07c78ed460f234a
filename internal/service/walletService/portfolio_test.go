package walletService

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
)

func TestGetPositions(t *testing.T) {
	f, accountID := newFixture(t, "1000")
	ctx := context.Background()

	f.quotes.set("MSFT", "100")
	f.quotes.set("AAPL", "50")
	if _, err := f.svc.Buy(ctx, accountID, "msft", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Buy(ctx, accountID, "AAPL", 4); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.GetPositions(ctx, accountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Symbol != "AAPL" || got[1].Symbol != "MSFT" {
		t.Fatalf("positions = %+v", got)
	}
	if got[1].Quantity != 2 || !got[1].AverageCost.Equal(dec("100")) {
		t.Errorf("MSFT = %+v", got[1])
	}

	if _, err := f.svc.GetPositions(ctx, accountID+1); !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("unknown account: err = %v, want ErrAccountNotFound", err)
	}
}

func TestGetProfitability(t *testing.T) {
	f, accountID := newFixture(t, "10000")
	ctx := context.Background()

	f.quotes.set("AAPL", "150")
	f.quotes.set("MSFT", "400")
	for _, order := range []struct {
		symbol   string
		quantity int64
	}{{"AAPL", 10}, {"MSFT", 2}} {
		if _, err := f.svc.Buy(ctx, accountID, order.symbol, order.quantity); err != nil {
			t.Fatal(err)
		}
	}

	f.quotes.set("AAPL", "160")
	delete(f.quotes.prices, "MSFT")

	got, err := f.svc.GetProfitability(ctx, accountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Positions) != 2 {
		t.Fatalf("positions = %+v", got.Positions)
	}

	aapl, msft := got.Positions[0], got.Positions[1]
	if aapl.Symbol != "AAPL" || aapl.Price == nil || !aapl.Result.Equal(dec("100")) {
		t.Errorf("AAPL = %+v", aapl)
	}
	if msft.Symbol != "MSFT" || msft.Price != nil || msft.Result != nil {
		t.Errorf("MSFT without quote = %+v", msft)
	}
	if !got.Total.Equal(dec("100")) {
		t.Errorf("Total = %s, want 100", got.Total)
	}
}

func TestGetProfitability_QuoteOutage(t *testing.T) {
	f, accountID := newFixture(t, "1000")
	ctx := context.Background()

	f.quotes.set("AAPL", "100")
	if _, err := f.svc.Buy(ctx, accountID, "AAPL", 1); err != nil {
		t.Fatal(err)
	}
	f.quotes.err = service.ErrQuoteUnavailable

	got, err := f.svc.GetProfitability(ctx, accountID)
	if err != nil {
		t.Fatalf("outage should degrade, got %v", err)
	}
	if len(got.Positions) != 1 || got.Positions[0].Price != nil || !got.Total.IsZero() {
		t.Errorf("got %+v", got)
	}
}

func TestGetOperations_NewestFirst(t *testing.T) {
	f, accountID := newFixture(t, "100")
	ctx := context.Background()

	f.quotes.set("AAPL", "10")
	if _, err := f.svc.Buy(ctx, accountID, "AAPL", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Withdraw(ctx, accountID, dec("30")); err != nil {
		t.Fatal(err)
	}

	ops, err := f.svc.GetOperations(ctx, accountID)
	if err != nil {
		t.Fatal(err)
	}

	wantKinds := []model.OperationKind{model.OperationWithdraw, model.OperationBuy, model.OperationDeposit}
	if len(ops) != len(wantKinds) {
		t.Fatalf("operations = %+v", ops)
	}
	for i, kind := range wantKinds {
		if ops[i].Kind != kind {
			t.Errorf("ops[%d].Kind = %s, want %s", i, ops[i].Kind, kind)
		}
	}
	if buy := ops[1]; buy.Symbol != "AAPL" || buy.Quantity != 2 || !buy.Total.Equal(dec("20")) || !buy.BalanceAfter.Equal(dec("80")) {
		t.Errorf("buy operation = %+v", buy)
	}

	if _, err = f.svc.GetOperations(ctx, 999); !errors.Is(err, service.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestGenerateReport(t *testing.T) {
	f, accountID := newFixture(t, "500")
	generator := &reportStub{}
	f.svc.reportGenerator = generator

	f.quotes.set("AAPL", "100")
	if _, err := f.svc.Buy(context.Background(), accountID, "AAPL", 2); err != nil {
		t.Fatal(err)
	}

	fileBytes, ext, err := f.svc.GenerateReport(context.Background(), accountID)
	if err != nil {
		t.Fatal(err)
	}
	if string(fileBytes) != "xlsx" || ext != ".xlsx" {
		t.Errorf("GenerateReport() = %q, %q", fileBytes, ext)
	}
	if !generator.got.Balance.Equal(dec("300")) || len(generator.got.Profitability.Positions) != 1 || len(generator.got.Operations) != 2 {
		t.Errorf("report = %+v", generator.got)
	}
}

func TestShareReport(t *testing.T) {
	f, accountID := newFixture(t, "500")

	if _, err := f.svc.ShareReport(context.Background(), accountID); !errors.Is(err, service.ErrSharingDisabled) {
		t.Fatalf("err = %v, want ErrSharingDisabled", err)
	}

	storage := &storageStub{}
	f.svc.cloudStorage = storage

	link, err := f.svc.ShareReport(context.Background(), accountID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(storage.filename, "carteira_1_") || !strings.HasSuffix(storage.filename, ".xlsx") {
		t.Errorf("filename = %q", storage.filename)
	}
	if string(storage.body) != "xlsx" || !strings.HasSuffix(link, storage.filename) {
		t.Errorf("link = %q, body = %q", link, storage.body)
	}
}
