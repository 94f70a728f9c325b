package identity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    string
		wantErr error
	}{
		{name: "nil", raw: nil, wantErr: ErrEmptyStoreID},
		{name: "NaN", raw: math.NaN(), wantErr: ErrEmptyStoreID},
		{name: "整数浮点", raw: 1001.0, want: "1001"},
		{name: "小数截断", raw: 1001.9, want: "1001"},
		{name: "整数", raw: 42, want: "42"},
		{name: "纯数字文本保留前导零", raw: "0012", want: "0012"},
		{name: "去首尾空白", raw: "  1001 ", want: "1001"},
		{name: "带横线字母编号", raw: "SH-A", wantErr: ErrMalformedStoreID},
		{name: "字母编号", raw: "SH001", want: "SH001"},
		{name: "含横线拒绝", raw: "1001-2", wantErr: ErrMalformedStoreID},
		{name: "空白文本", raw: "   ", wantErr: ErrEmptyStoreID},
		{name: "nan文本", raw: "nan", wantErr: ErrEmptyStoreID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeNumericAndTextAgree(t *testing.T) {
	fromNumber, err := Normalize(1003.0)
	assert.NoError(t, err)
	fromText, err := Normalize("1003")
	assert.NoError(t, err)
	assert.Equal(t, fromNumber, fromText)
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("1001"))
	assert.True(t, IsDigits("0012"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("SH001"))
}
