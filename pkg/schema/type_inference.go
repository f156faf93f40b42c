// Package schema detects column types from sample values and checks
// user-supplied types against them.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/table"
)

// DetectType returns the narrowest type that value parses as, in the order
// quoted string, Int, Double, Date, String. Every parse must consume the
// whole value. Int is 64-bit; integers beyond int64 fall through to Double.
func DetectType(value string) table.DataType {
	if len(value) > 1 && value[0] == '"' {
		return table.String
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return table.Int
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return table.Double
	}
	if _, err := time.Parse(table.DateLayout, value); err == nil {
		return table.Date
	}
	return table.String
}

// TypeInferenceEngine infers column types from the first data record.
type TypeInferenceEngine struct {
	logger *zap.Logger
}

// NewTypeInferenceEngine creates a new type inference engine
func NewTypeInferenceEngine(logger *zap.Logger) *TypeInferenceEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeInferenceEngine{logger: logger}
}

// InferTypes returns one detected type per field.
func (e *TypeInferenceEngine) InferTypes(fields []string) []table.DataType {
	types := make([]table.DataType, len(fields))
	for i, f := range fields {
		types[i] = DetectType(f)
	}
	e.logger.Debug("inferred column types",
		zap.Int("columns", len(types)),
		zap.Stringer("types", typeList(types)))
	return types
}

// Mismatch is one column whose provided type differs from the detected one.
type Mismatch struct {
	Column      int            `json:"column"`
	Recommended table.DataType `json:"recommended"`
	Provided    table.DataType `json:"provided"`
}

// ValidationResult is the outcome of comparing provided types with the
// detected ones.
type ValidationResult struct {
	Valid      bool       `json:"valid"`
	Message    string     `json:"message"`
	Provided   int        `json:"provided"`
	Actual     int        `json:"actual"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Validate compares provided against detected column by column.
func Validate(provided, detected []table.DataType) ValidationResult {
	res := ValidationResult{Valid: true, Provided: len(provided), Actual: len(detected)}
	var msg strings.Builder

	if len(provided) != len(detected) {
		res.Valid = false
		fmt.Fprintf(&msg, "number of columns does not match, provided/actual: %d/%d\n",
			len(provided), len(detected))
	}

	for col := 0; col < len(detected) && col < len(provided); col++ {
		if provided[col] == detected[col] {
			continue
		}
		res.Valid = false
		res.Mismatches = append(res.Mismatches, Mismatch{
			Column:      col,
			Recommended: detected[col],
			Provided:    provided[col],
		})
		fmt.Fprintf(&msg, "type for column %d is considered not correct, recommended: %s, provided: %s\n",
			col, detected[col], provided[col])
	}

	if res.Valid {
		msg.WriteString("types are correct")
	}
	res.Message = strings.TrimSuffix(msg.String(), "\n")
	return res
}

type typeList []table.DataType

func (l typeList) String() string {
	names := make([]string, len(l))
	for i, t := range l {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}
