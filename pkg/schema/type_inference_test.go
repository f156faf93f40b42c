package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/tabula/pkg/table"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		value string
		want  table.DataType
	}{
		{"42", table.Int},
		{"-7", table.Int},
		{"3000000000", table.Int},
		{"9223372036854775807", table.Int},
		{"9223372036854775808", table.Double},
		{"42.5", table.Double},
		{"1e3", table.Double},
		{"42.5x", table.String},
		{"2024-01-02 10:00:00", table.Date},
		{"2024-01-02", table.String},
		{`"42"`, table.String},
		{`"`, table.String},
		{"", table.String},
		{"Alice", table.String},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.value))
		})
	}
}

func TestInferTypes(t *testing.T) {
	engine := NewTypeInferenceEngine(zaptest.NewLogger(t))
	got := engine.InferTypes([]string{"Alice", "30", "1.5", "2024-01-02 10:00:00"})
	assert.Equal(t, []table.DataType{table.String, table.Int, table.Double, table.Date}, got)
}

func TestValidate(t *testing.T) {
	detected := []table.DataType{table.String, table.Int}

	res := Validate([]table.DataType{table.String, table.Int}, detected)
	assert.True(t, res.Valid)
	assert.Equal(t, "types are correct", res.Message)

	res = Validate([]table.DataType{table.String, table.Double}, detected)
	assert.False(t, res.Valid)
	assert.Equal(t, []Mismatch{{Column: 1, Recommended: table.Int, Provided: table.Double}}, res.Mismatches)
	assert.Contains(t, res.Message, "column 1")

	res = Validate([]table.DataType{table.String}, detected)
	assert.False(t, res.Valid)
	assert.Equal(t, 1, res.Provided)
	assert.Equal(t, 2, res.Actual)
	assert.Contains(t, res.Message, "1/2")
}
