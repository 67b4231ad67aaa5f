package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/stock"
)

func datePtr(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestMovementListRequest_ToFilter(t *testing.T) {
	productID := id.New()
	req := MovementListRequest{
		ProductID: productID.String(),
		Type:      "OUT",
		FromDate:  datePtr("2026-08-01"),
		ToDate:    datePtr("2026-08-28"),
	}

	filter, err := req.ToFilter()
	require.NoError(t, err)

	require.NotNil(t, filter.ProductID)
	assert.Equal(t, productID, *filter.ProductID)
	require.NotNil(t, filter.Type)
	assert.Equal(t, stock.MovementOut, *filter.Type)
	assert.Equal(t, *datePtr("2026-08-01"), *filter.FromDate)

	// Defaults applied when no explicit pagination was bound.
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
}

func TestMovementListRequest_ToFilterEndDayInclusive(t *testing.T) {
	req := MovementListRequest{ToDate: datePtr("2026-08-28")}

	filter, err := req.ToFilter()
	require.NoError(t, err)

	// The screen treats the end date as inclusive; the repository applies
	// created_at < ToDate, so the bound must sit on the next midnight.
	require.NotNil(t, filter.ToDate)
	assert.Equal(t, *datePtr("2026-08-29"), *filter.ToDate)

	morningOfEndDay := datePtr("2026-08-28").Add(10 * time.Hour)
	assert.True(t, morningOfEndDay.Before(*filter.ToDate))

	nextDay := *datePtr("2026-08-29")
	assert.False(t, nextDay.Before(*filter.ToDate))
}

func TestMovementListRequest_ToFilterInvalidProduct(t *testing.T) {
	req := MovementListRequest{ProductID: "not-a-uuid"}

	_, err := req.ToFilter()
	require.Error(t, err)
}
