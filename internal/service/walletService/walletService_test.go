package walletService

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/shopspring/decimal"
)

// memRepo serializes transactions with one mutex, standing in for the account row lock,
// and restores its state when the transaction function fails.
type memRepo struct {
	tx   sync.Mutex
	data sync.Mutex

	nextID     int64
	accounts   map[int64]model.Account
	positions  map[int64]map[string]model.Position
	operations []model.Operation

	insertOperationErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		accounts:  make(map[int64]model.Account),
		positions: make(map[int64]map[string]model.Position),
	}
}

type memSnapshot struct {
	accounts   map[int64]model.Account
	positions  map[int64]map[string]model.Position
	operations []model.Operation
}

func (r *memRepo) snapshot() memSnapshot {
	r.data.Lock()
	defer r.data.Unlock()
	positions := make(map[int64]map[string]model.Position, len(r.positions))
	for id, held := range r.positions {
		positions[id] = maps.Clone(held)
	}
	return memSnapshot{
		accounts:   maps.Clone(r.accounts),
		positions:  positions,
		operations: append([]model.Operation(nil), r.operations...),
	}
}

func (r *memRepo) restore(s memSnapshot) {
	r.data.Lock()
	defer r.data.Unlock()
	r.accounts, r.positions, r.operations = s.accounts, s.positions, s.operations
}

func (r *memRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()

	snap := r.snapshot()
	if err := tFunc(ctx); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *memRepo) InsertAccount(_ context.Context, cashBalance decimal.Decimal) (int64, error) {
	r.data.Lock()
	defer r.data.Unlock()
	r.nextID++
	r.accounts[r.nextID] = model.Account{ID: r.nextID, CashBalance: cashBalance}
	return r.nextID, nil
}

func (r *memRepo) GetAccount(_ context.Context, accountID int64) (model.Account, error) {
	r.data.Lock()
	defer r.data.Unlock()
	account, ok := r.accounts[accountID]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return account, nil
}

func (r *memRepo) GetAccountForUpdate(ctx context.Context, accountID int64) (model.Account, error) {
	return r.GetAccount(ctx, accountID)
}

func (r *memRepo) UpdateAccountBalance(_ context.Context, accountID int64, cashBalance decimal.Decimal) error {
	r.data.Lock()
	defer r.data.Unlock()
	account, ok := r.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	if cashBalance.IsNegative() {
		return errors.New("check constraint violated: cash_balance")
	}
	account.CashBalance = cashBalance
	r.accounts[accountID] = account
	return nil
}

func (r *memRepo) GetPosition(_ context.Context, accountID int64, symbol string) (model.Position, error) {
	r.data.Lock()
	defer r.data.Unlock()
	position, ok := r.positions[accountID][symbol]
	if !ok {
		return model.Position{}, repository.ErrNotFound
	}
	return position, nil
}

func (r *memRepo) GetPositions(_ context.Context, accountID int64) ([]model.Position, error) {
	r.data.Lock()
	defer r.data.Unlock()
	var res []model.Position
	for _, symbol := range slices.Sorted(maps.Keys(r.positions[accountID])) {
		res = append(res, r.positions[accountID][symbol])
	}
	return res, nil
}

func (r *memRepo) UpsertPosition(_ context.Context, position model.Position) error {
	r.data.Lock()
	defer r.data.Unlock()
	if position.Quantity <= 0 {
		return errors.New("check constraint violated: quantity")
	}
	if r.positions[position.AccountID] == nil {
		r.positions[position.AccountID] = make(map[string]model.Position)
	}
	r.positions[position.AccountID][position.Symbol] = position
	return nil
}

func (r *memRepo) DeletePosition(_ context.Context, accountID int64, symbol string) error {
	r.data.Lock()
	defer r.data.Unlock()
	if _, ok := r.positions[accountID][symbol]; !ok {
		return repository.ErrNotFound
	}
	delete(r.positions[accountID], symbol)
	return nil
}

func (r *memRepo) InsertOperation(_ context.Context, operation model.Operation) error {
	r.data.Lock()
	defer r.data.Unlock()
	if r.insertOperationErr != nil {
		return r.insertOperationErr
	}
	r.operations = append(r.operations, operation)
	return nil
}

func (r *memRepo) GetOperations(_ context.Context, accountID int64, limit int) ([]model.Operation, error) {
	r.data.Lock()
	defer r.data.Unlock()
	var res []model.Operation
	for i := len(r.operations) - 1; i >= 0 && len(res) < limit; i-- {
		if r.operations[i].AccountID == accountID {
			res = append(res, r.operations[i])
		}
	}
	return res, nil
}

func (r *memRepo) balance(t *testing.T, accountID int64) decimal.Decimal {
	t.Helper()
	account, err := r.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	return account.CashBalance
}

type quotesStub struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
}

func (q *quotesStub) set(symbol, price string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.prices[symbol] = decimal.RequireFromString(price)
}

func (q *quotesStub) GetLiveQuote(_ context.Context, symbol string) (decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return decimal.Decimal{}, q.err
	}
	price, ok := q.prices[symbol]
	if !ok {
		return decimal.Decimal{}, service.ErrQuoteUnavailable
	}
	return price, nil
}

func (q *quotesStub) GetQuotes(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	res := make(map[string]decimal.Decimal)
	for _, symbol := range symbols {
		if price, ok := q.prices[symbol]; ok {
			res[symbol] = price
		}
	}
	return res, nil
}

type reportStub struct {
	got model.Report
}

func (g *reportStub) Generate(_ context.Context, report model.Report) ([]byte, string, error) {
	g.got = report
	return []byte("xlsx"), ".xlsx", nil
}

type storageStub struct {
	filename string
	body     []byte
}

func (s *storageStub) UploadFile(_ context.Context, reader io.Reader, filename string) (string, error) {
	s.filename = filename
	s.body, _ = io.ReadAll(reader)
	return "https://drive.example/" + filename, nil
}

type fixture struct {
	svc    *WalletService
	repo   *memRepo
	quotes *quotesStub
}

func newFixture(t *testing.T, initialBalance string) (fixture, int64) {
	t.Helper()
	f := fixture{
		repo:   newMemRepo(),
		quotes: &quotesStub{prices: make(map[string]decimal.Decimal)},
	}
	f.svc = New(&config.Config{OperationsPageSize: 100}, f.repo, f.quotes, &reportStub{}, nil)

	accountID, err := f.svc.OpenAccount(context.Background(), decimal.RequireFromString(initialBalance))
	if err != nil {
		t.Fatalf("OpenAccount: %v", err)
	}
	return f, accountID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
