package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// --- In-memory fakes with real transaction semantics ---
//
// memDB emulates the storage layer closely enough to exercise the
// mutation engine's contract: per-product exclusive locks held for the
// transaction lifetime, staged writes applied on commit and discarded
// on rollback.

type memDB struct {
	mu          sync.Mutex
	stocks      map[id.ID]int
	movements   []Movement
	receipts    []InReceipt
	issues      []OutIssue
	adjustments []Adjustment
	rowLocks    map[id.ID]*sync.Mutex
}

func newMemDB() *memDB {
	return &memDB{
		stocks:   make(map[id.ID]int),
		rowLocks: make(map[id.ID]*sync.Mutex),
	}
}

func (db *memDB) rowLock(productID id.ID) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.rowLocks[productID]
	if !ok {
		l = &sync.Mutex{}
		db.rowLocks[productID] = l
	}
	return l
}

type memTx struct {
	db          *memDB
	stockWrites map[id.ID]int
	movements   []Movement
	receipts    []InReceipt
	issues      []OutIssue
	adjustments []Adjustment
	held        []*sync.Mutex
}

func (t *memTx) releaseLocks() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

func (t *memTx) commit() {
	t.db.mu.Lock()
	for pid, s := range t.stockWrites {
		t.db.stocks[pid] = s
	}
	t.db.movements = append(t.db.movements, t.movements...)
	t.db.receipts = append(t.db.receipts, t.receipts...)
	t.db.issues = append(t.db.issues, t.issues...)
	t.db.adjustments = append(t.db.adjustments, t.adjustments...)
	t.db.mu.Unlock()
	t.releaseLocks()
}

type memTxKey struct{}

func getMemTx(ctx context.Context) *memTx {
	t, _ := ctx.Value(memTxKey{}).(*memTx)
	return t
}

type memTxManager struct {
	db *memDB
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if getMemTx(ctx) != nil {
		return fn(ctx)
	}
	t := &memTx{db: m.db, stockWrites: make(map[id.ID]int)}
	err := fn(context.WithValue(ctx, memTxKey{}, t))
	if err != nil {
		t.releaseLocks()
		return err
	}
	t.commit()
	return nil
}

type memProductRepo struct {
	db *memDB
}

func (r *memProductRepo) LockStock(ctx context.Context, productID id.ID) (int, error) {
	t := getMemTx(ctx)
	l := r.db.rowLock(productID)
	l.Lock()
	t.held = append(t.held, l)

	r.db.mu.Lock()
	s, ok := r.db.stocks[productID]
	r.db.mu.Unlock()
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return s, nil
}

func (r *memProductRepo) WriteStock(ctx context.Context, productID id.ID, newStock int) error {
	getMemTx(ctx).stockWrites[productID] = newStock
	return nil
}

func (r *memProductRepo) GetStock(ctx context.Context, productID id.ID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stocks[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return s, nil
}

type memLedgerRepo struct {
	db         *memDB
	failAppend error
}

func (r *memLedgerRepo) Append(ctx context.Context, m Movement) error {
	if r.failAppend != nil {
		return r.failAppend
	}
	t := getMemTx(ctx)
	t.movements = append(t.movements, m)
	return nil
}

func (r *memLedgerRepo) ListByProduct(ctx context.Context, productID id.ID) ([]Movement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []Movement
	for _, m := range r.db.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) List(ctx context.Context, filter MovementFilter) ([]MovementRecord, int64, error) {
	movements, err := r.ListByProduct(ctx, deref(filter.ProductID))
	if err != nil {
		return nil, 0, err
	}
	records := make([]MovementRecord, len(movements))
	for i, m := range movements {
		records[i] = MovementRecord{Movement: m}
	}
	return records, int64(len(records)), nil
}

func deref(p *id.ID) id.ID {
	if p == nil {
		return id.Nil()
	}
	return *p
}

type memReceiptRepo struct {
	db *memDB
}

func (r *memReceiptRepo) CreateStockIn(ctx context.Context, rec InReceipt) error {
	t := getMemTx(ctx)
	t.receipts = append(t.receipts, rec)
	return nil
}

func (r *memReceiptRepo) CreateStockOut(ctx context.Context, o OutIssue) error {
	t := getMemTx(ctx)
	t.issues = append(t.issues, o)
	return nil
}

func (r *memReceiptRepo) CreateAdjustment(ctx context.Context, a Adjustment) error {
	t := getMemTx(ctx)
	t.adjustments = append(t.adjustments, a)
	return nil
}

type fixture struct {
	db      *memDB
	ledger  *memLedgerRepo
	service *Service
}

func newFixture() *fixture {
	db := newMemDB()
	ledger := &memLedgerRepo{db: db}
	svc := NewService(
		&memProductRepo{db: db},
		ledger,
		&memReceiptRepo{db: db},
		&memTxManager{db: db},
	)
	return &fixture{db: db, ledger: ledger, service: svc}
}

func (f *fixture) addProduct(stockQty int) id.ID {
	pid := id.New()
	f.db.stocks[pid] = stockQty
	return pid
}

func (f *fixture) stockOf(t *testing.T, pid id.ID) int {
	t.Helper()
	s, ok := f.db.stocks[pid]
	require.True(t, ok, "product must exist")
	return s
}

func (f *fixture) movementsOf(pid id.ID) []Movement {
	var out []Movement
	for _, m := range f.db.movements {
		if m.ProductID == pid {
			out = append(out, m)
		}
	}
	return out
}

var actor = id.MustParse("018f0000-0000-7000-8000-000000000001")

// --- RecordIn ---

func TestRecordIn_IncreasesStockAndAppendsMovement(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)

	movID, err := f.service.RecordIn(context.Background(), RecordInInput{
		ProductID:   pid,
		Qty:         5,
		CostPerUnit: types.MustMoney("2.00"),
		ActorID:     actor,
	})
	require.NoError(t, err)
	require.False(t, id.IsNil(movID))

	assert.Equal(t, 15, f.stockOf(t, pid))

	movements := f.movementsOf(pid)
	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, movID, m.ID)
	assert.Equal(t, MovementIn, m.Type)
	assert.Equal(t, 5, m.Qty)
	assert.Equal(t, 10, m.PrevStock)
	assert.Equal(t, 15, m.NewStock)
	assert.Equal(t, RefStockIn, m.RefKind)
	assert.Equal(t, actor, m.ActorID)

	require.Len(t, f.db.receipts, 1)
	assert.Equal(t, m.RefID, f.db.receipts[0].ID)
	assert.True(t, f.db.receipts[0].CostPerUnit.Equal(types.MustMoney("2.00")))
}

func TestRecordIn_RejectsInvalidInputBeforeLocking(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)

	tests := []struct {
		name string
		in   RecordInInput
	}{
		{"zero qty", RecordInInput{ProductID: pid, Qty: 0, ActorID: actor}},
		{"negative qty", RecordInInput{ProductID: pid, Qty: -3, ActorID: actor}},
		{"negative cost", RecordInInput{ProductID: pid, Qty: 1, CostPerUnit: types.MustMoney("-0.01"), ActorID: actor}},
		{"missing actor", RecordInInput{ProductID: pid, Qty: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RecordIn(context.Background(), tt.in)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	assert.Equal(t, 10, f.stockOf(t, pid))
	assert.Empty(t, f.db.movements)
	assert.Empty(t, f.db.receipts)
}

func TestRecordIn_UnknownProduct(t *testing.T) {
	f := newFixture()

	_, err := f.service.RecordIn(context.Background(), RecordInInput{
		ProductID: id.New(),
		Qty:       1,
		ActorID:   actor,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.db.movements)
}

// --- RecordOut ---

func TestRecordOut_SufficientStock(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)

	movID, err := f.service.RecordOut(context.Background(), RecordOutInput{
		ProductID: pid,
		Qty:       4,
		ActorID:   actor,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, f.stockOf(t, pid))
	movements := f.movementsOf(pid)
	require.Len(t, movements, 1)
	assert.Equal(t, movID, movements[0].ID)
	assert.Equal(t, MovementOut, movements[0].Type)
	assert.Equal(t, 10, movements[0].PrevStock)
	assert.Equal(t, 6, movements[0].NewStock)
	require.Len(t, f.db.issues, 1)
	assert.Equal(t, movements[0].RefID, f.db.issues[0].ID)
}

func TestRecordOut_InsufficientStock(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(3)

	_, err := f.service.RecordOut(context.Background(), RecordOutInput{
		ProductID: pid,
		Qty:       5,
		ActorID:   actor,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 3, appErr.Details["available"])
	assert.Equal(t, 5, appErr.Details["requested"])

	// All-or-nothing: the row is untouched, nothing was written.
	assert.Equal(t, 3, f.stockOf(t, pid))
	assert.Empty(t, f.db.movements)
	assert.Empty(t, f.db.issues)
}

func TestRecordOut_DrainsToZero(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(7)

	_, err := f.service.RecordOut(context.Background(), RecordOutInput{
		ProductID: pid,
		Qty:       7,
		ActorID:   actor,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stockOf(t, pid))
}

// --- RecordAdjustment ---

func TestRecordAdjustment_CountBelowCurrent(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)

	_, err := f.service.RecordAdjustment(context.Background(), RecordAdjustmentInput{
		ProductID:  pid,
		CountedQty: 7,
		ActorID:    actor,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.stockOf(t, pid))
	movements := f.movementsOf(pid)
	require.Len(t, movements, 1)
	assert.Equal(t, MovementAdjust, movements[0].Type)
	assert.Equal(t, 3, movements[0].Qty)
	assert.Equal(t, 10, movements[0].PrevStock)
	assert.Equal(t, 7, movements[0].NewStock)
	assert.Equal(t, -3, movements[0].SignedQty())
}

func TestRecordAdjustment_NoOpCountRejected(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)

	_, err := f.service.RecordAdjustment(context.Background(), RecordAdjustmentInput{
		ProductID:  pid,
		CountedQty: 10,
		ActorID:    actor,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, f.db.movements)
}

// --- Atomicity ---

func TestMutation_NoPartialEffectsWhenAppendFails(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)
	f.ledger.failAppend = errors.New("disk on fire")

	_, err := f.service.RecordIn(context.Background(), RecordInInput{
		ProductID: pid,
		Qty:       5,
		ActorID:   actor,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsTransactionFailure(err))

	// Full rollback: the stock write and the receipt staged before the
	// append are discarded with the transaction.
	assert.Equal(t, 10, f.stockOf(t, pid))
	assert.Empty(t, f.db.movements)
	assert.Empty(t, f.db.receipts)
}

// --- Serialization under concurrency ---

func TestMutation_SerializedPerProduct(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(100)

	const ins, outs = 10, 10
	var wg sync.WaitGroup
	wg.Add(ins + outs)
	for i := 0; i < ins; i++ {
		go func() {
			defer wg.Done()
			_, err := f.service.RecordIn(context.Background(), RecordInInput{
				ProductID: pid, Qty: 5, ActorID: actor,
			})
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < outs; i++ {
		go func() {
			defer wg.Done()
			_, err := f.service.RecordOut(context.Background(), RecordOutInput{
				ProductID: pid, Qty: 3, ActorID: actor,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 100 + 10*5 - 10*3, regardless of interleaving.
	assert.Equal(t, 120, f.stockOf(t, pid))
	assert.Len(t, f.movementsOf(pid), ins+outs)

	// Lock-order serialization means the snapshots form one linear
	// history with no lost updates.
	report, err := NewReconciler(&memProductRepo{db: f.db}, f.ledger).Reconcile(context.Background(), pid)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 100, report.InitialStock)
}

func TestMutation_DifferentProductsDoNotBlock(t *testing.T) {
	f := newFixture()
	a := f.addProduct(50)
	b := f.addProduct(50)

	var wg sync.WaitGroup
	for _, pid := range []id.ID{a, b} {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(pid id.ID) {
				defer wg.Done()
				_, err := f.service.RecordOut(context.Background(), RecordOutInput{
					ProductID: pid, Qty: 2, ActorID: actor,
				})
				assert.NoError(t, err)
			}(pid)
		}
	}
	wg.Wait()

	assert.Equal(t, 40, f.stockOf(t, a))
	assert.Equal(t, 40, f.stockOf(t, b))
}

// --- Concrete scenario from the operating procedure ---

func TestMutation_ReceiptThenOversellThenDrain(t *testing.T) {
	f := newFixture()
	pid := f.addProduct(10)
	ctx := context.Background()

	_, err := f.service.RecordIn(ctx, RecordInInput{
		ProductID: pid, Qty: 5, CostPerUnit: types.MustMoney("2.00"), ActorID: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, f.stockOf(t, pid))

	_, err = f.service.RecordOut(ctx, RecordOutInput{ProductID: pid, Qty: 20, ActorID: actor})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 15, appErr.Details["available"])
	assert.Equal(t, 15, f.stockOf(t, pid))
	assert.Len(t, f.movementsOf(pid), 1)

	_, err = f.service.RecordOut(ctx, RecordOutInput{ProductID: pid, Qty: 15, ActorID: actor})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stockOf(t, pid))

	movements := f.movementsOf(pid)
	require.Len(t, movements, 2)
	assert.Equal(t, MovementIn, movements[0].Type)
	assert.Equal(t, 10, movements[0].PrevStock)
	assert.Equal(t, 15, movements[0].NewStock)
	assert.Equal(t, MovementOut, movements[1].Type)
	assert.Equal(t, 15, movements[1].PrevStock)
	assert.Equal(t, 0, movements[1].NewStock)
}
