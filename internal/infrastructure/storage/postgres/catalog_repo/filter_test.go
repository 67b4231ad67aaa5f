package catalog_repo

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/product"
)

func TestApplyProductFilter(t *testing.T) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	categoryID := id.MustParse("018f0000-0000-7000-8000-0000000000aa")
	active := product.StatusActive

	tests := []struct {
		name     string
		filter   product.ListFilter
		wantSQL  []string // fragments that must appear
		wantArgs int
	}{
		{
			name:     "no filter",
			filter:   product.ListFilter{},
			wantSQL:  []string{"SELECT id, sku", "FROM products"},
			wantArgs: 0,
		},
		{
			name:     "search matches sku or name",
			filter:   product.ListFilter{Search: "usb"},
			wantSQL:  []string{"sku ILIKE $1", "name ILIKE $2"},
			wantArgs: 2,
		},
		{
			name:     "category and status",
			filter:   product.ListFilter{CategoryID: &categoryID, Status: &active},
			wantSQL:  []string{"category_id = $1", "status = $2"},
			wantArgs: 2,
		},
		{
			name:     "low stock compares against reorder level",
			filter:   product.ListFilter{LowStock: true},
			wantSQL:  []string{"stock <= reorder_level"},
			wantArgs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := builder.Select(productColumns...).From(productTable)
			count := builder.Select("COUNT(*)").From(productTable)

			base, count = applyProductFilter(base, count, tt.filter)

			sql, args, err := base.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			for _, fragment := range tt.wantSQL {
				if !strings.Contains(sql, fragment) {
					t.Errorf("SQL missing fragment %q\ngot: %s", fragment, sql)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("Args count mismatch\nwant: %d\ngot:  %d", tt.wantArgs, len(args))
			}

			countSQL, countArgs, err := count.ToSql()
			if err != nil {
				t.Fatalf("count ToSql failed: %v", err)
			}
			if len(countArgs) != len(args) {
				t.Errorf("count query args diverge from page query: %d vs %d", len(countArgs), len(args))
			}
			if !strings.Contains(countSQL, "COUNT(*)") {
				t.Errorf("count query lost COUNT(*): %s", countSQL)
			}
		})
	}
}
