package services_test

import (
	"context"
	"errors"
	"testing"

	"market/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestRoundRating(t *testing.T) {
	cases := []struct {
		name string
		avg  *float64
		want float64
	}{
		{"no reviews", nil, 0},
		{"whole", floatPtr(4), 4},
		{"thirds", floatPtr(13.0 / 3.0), 4.33},
		{"two thirds", floatPtr(11.0 / 3.0), 3.67},
		{"half up", floatPtr(4.125), 4.13},
		{"exact", floatPtr(2.5), 2.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, services.RoundRating(tc.avg))
		})
	}
}

func TestRatingAggregator_Recalculate(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	aggregator := services.NewRatingAggregator(reviews, products)

	reviews.On("AverageGrade", ctx, uint(3)).Return(floatPtr(14.0/3.0), nil).Once()
	products.On("UpdateRating", ctx, uint(3), 4.67).Return(nil).Once()
	rating, err := aggregator.Recalculate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 4.67, rating)

	reviews.On("AverageGrade", ctx, uint(3)).Return(nil, nil).Once()
	products.On("UpdateRating", ctx, uint(3), 0.0).Return(nil).Once()
	rating, err = aggregator.Recalculate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)

	reviews.On("AverageGrade", ctx, uint(4)).Return(nil, errors.New("db down")).Once()
	_, err = aggregator.Recalculate(ctx, 4)
	assert.Error(t, err)

	reviews.AssertExpectations(t)
	products.AssertExpectations(t)
}
