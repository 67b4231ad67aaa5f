package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/stock"
)

func sampleProduct(sku, name string, qty int) *product.Product {
	p := product.New(sku, name, id.New())
	p.CostPrice = types.MustMoney("12.50")
	p.SellingPrice = types.MustMoney("19.99")
	p.Stock = qty
	p.ReorderLevel = 5
	return p
}

func TestWriteProductsCSV(t *testing.T) {
	var buf bytes.Buffer
	products := []*product.Product{
		sampleProduct("SKU-001", "USB Cable", 42),
		sampleProduct("SKU-002", "Mouse, wireless", 3),
	}

	require.NoError(t, WriteProductsCSV(&buf, products))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "sku", rows[0][0])
	assert.Equal(t, "SKU-001", rows[1][0])
	assert.Equal(t, "42", rows[1][5])
	// Commas in names must survive the round trip.
	assert.Equal(t, "Mouse, wireless", rows[2][1])
}

func TestWriteMovementsCSV(t *testing.T) {
	var buf bytes.Buffer
	remarks := "initial receipt"
	rec := stock.MovementRecord{
		Movement: stock.Movement{
			Type:      stock.MovementIn,
			Qty:       10,
			PrevStock: 0,
			NewStock:  10,
			Remarks:   &remarks,
			CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		ProductSKU:  "SKU-001",
		ProductName: "USB Cable",
		ActorName:   "Jordan",
	}

	require.NoError(t, WriteMovementsCSV(&buf, []stock.MovementRecord{rec}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-03-01 09:30:00", rows[1][0])
	assert.Equal(t, "IN", rows[1][1])
	assert.Equal(t, "0", rows[1][5])
	assert.Equal(t, "10", rows[1][6])
	assert.Equal(t, "initial receipt", rows[1][8])
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &Snapshot{
		ExportedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Products: []*product.Product{
			sampleProduct("SKU-001", "USB Cable", 42),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))

	// Compressed output must not contain the raw SKU.
	assert.False(t, strings.Contains(buf.String(), "SKU-001"))

	decoded, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Products, 1)
	assert.Equal(t, "SKU-001", decoded.Products[0].SKU)
	assert.Equal(t, 42, decoded.Products[0].Stock)
	assert.True(t, snap.ExportedAt.Equal(decoded.ExportedAt))
}
