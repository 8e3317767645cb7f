package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		in       PageParams
		expected PageParams
	}{
		{name: "valid", in: PageParams{Page: 2, PageSize: 10}, expected: PageParams{Page: 2, PageSize: 10}},
		{name: "zero page", in: PageParams{Page: 0, PageSize: 10}, expected: PageParams{Page: 1, PageSize: 10}},
		{name: "negative page", in: PageParams{Page: -3, PageSize: 10}, expected: PageParams{Page: 1, PageSize: 10}},
		{name: "zero page size", in: PageParams{Page: 1, PageSize: 0}, expected: PageParams{Page: 1, PageSize: 20}},
		{name: "oversized page size", in: PageParams{Page: 1, PageSize: 500}, expected: PageParams{Page: 1, PageSize: 20}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.in.Normalize())
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	p := PageParams{Page: 3, PageSize: 10}
	assert.Equal(t, 10, p.Limit())
	assert.Equal(t, 20, p.Offset())
}

func TestNewPageEmptyItems(t *testing.T) {
	page := NewPage[string](nil, 0, PageParams{Page: 1, PageSize: 20})
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
}
