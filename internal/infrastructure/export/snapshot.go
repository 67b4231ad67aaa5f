package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockroom/internal/domain/catalogs/category"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/stock"
)

// snapshotPageSize bounds how many rows are pulled per repository call
// while building a snapshot.
const snapshotPageSize = 1000

// Snapshot is a full point-in-time copy of the database content,
// sufficient to rebuild catalogs and replay the ledger.
type Snapshot struct {
	ExportedAt time.Time              `json:"exportedAt"`
	Categories []*category.Category   `json:"categories"`
	Suppliers  []*supplier.Supplier   `json:"suppliers"`
	Products   []*product.Product     `json:"products"`
	Movements  []stock.MovementRecord `json:"movements"`
}

// Snapshotter assembles snapshots from the repositories.
type Snapshotter struct {
	products   product.Repository
	categories category.Repository
	suppliers  supplier.Repository
	ledger     stock.LedgerRepository
}

// NewSnapshotter creates a snapshotter.
func NewSnapshotter(
	products product.Repository,
	categories category.Repository,
	suppliers supplier.Repository,
	ledger stock.LedgerRepository,
) *Snapshotter {
	return &Snapshotter{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		ledger:     ledger,
	}
}

// Build pulls all rows page by page and assembles a snapshot.
func (s *Snapshotter) Build(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now().UTC()}

	for offset := 0; ; offset += snapshotPageSize {
		page, _, err := s.categories.List(ctx, "", snapshotPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		snap.Categories = append(snap.Categories, page...)
		if len(page) < snapshotPageSize {
			break
		}
	}

	for offset := 0; ; offset += snapshotPageSize {
		page, _, err := s.suppliers.List(ctx, "", snapshotPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list suppliers: %w", err)
		}
		snap.Suppliers = append(snap.Suppliers, page...)
		if len(page) < snapshotPageSize {
			break
		}
	}

	for offset := 0; ; offset += snapshotPageSize {
		page, _, err := s.products.List(ctx, product.ListFilter{Limit: snapshotPageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		snap.Products = append(snap.Products, page...)
		if len(page) < snapshotPageSize {
			break
		}
	}

	for offset := 0; ; offset += snapshotPageSize {
		page, _, err := s.ledger.List(ctx, stock.MovementFilter{Limit: snapshotPageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list movements: %w", err)
		}
		snap.Movements = append(snap.Movements, page...)
		if len(page) < snapshotPageSize {
			break
		}
	}

	return snap, nil
}

// WriteSnapshot encodes the snapshot as zstd-compressed JSON.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}

	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd writer: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a zstd-compressed JSON snapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr.IOReadCloser()).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
