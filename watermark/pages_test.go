package watermark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSelection(t *testing.T) {
	cases := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1,3", []int{1, 3}, false},
		{"1-5", []int{1, 2, 3, 4, 5}, false},
		{"1,3-5,7", []int{1, 3, 4, 5, 7}, false},
		{" 2 , 4 - 5 ", []int{2, 4, 5}, false},
		{"3,1,3", []int{1, 3}, false},
		{"5-3", nil, true},
		{"", nil, true},
		{"a", nil, true},
		{"1-b", nil, true},
		{"1--3", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePageSelection(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePageNumbers(t *testing.T) {
	assert.NoError(t, ValidatePageNumbers([]int{1, 2, 3}, 3))
	assert.NoError(t, ValidatePageNumbers(nil, 1))
	assert.Error(t, ValidatePageNumbers([]int{0}, 3))
	assert.Error(t, ValidatePageNumbers([]int{-1}, 3))
	assert.Error(t, ValidatePageNumbers([]int{4}, 3))
}
