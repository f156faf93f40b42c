// Package errors provides examples of structured error handling in tabula.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeValidation, "invalid delimiter").
		WithDetail("delimiter", "").
		WithDetail("key", "delimiter")

	fmt.Println(err.Error())

	// Output:
	// validation: invalid delimiter
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read chunk").
		WithDetail("file", "data.csv").
		WithDetail("offset", 4096)

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause was an unexpected EOF")
	}

	// Output:
	// This is a file error
	// Cause was an unexpected EOF
}

// ExampleUnableToConvertFieldType shows the details carried by a conversion failure.
func ExampleUnableToConvertFieldType() {
	err := errors.UnableToConvertFieldType("int", "12x", 7)

	row, _ := err.Detail("row")
	fmt.Println(err)
	fmt.Println("row:", row)

	// Output:
	// conversion: unable to convert "12x" to int at row 7
	// row: 7
}

// ExampleIsType demonstrates checking error types through a wrap chain.
func ExampleIsType() {
	splitErr := errors.UnableToSplitRecord(3, 2, 4)
	wrapped := errors.Wrap(splitErr, errors.ErrorTypeInternal, "load failed")

	fmt.Printf("Is split error: %v\n", errors.IsType(splitErr, errors.ErrorTypeSplit))
	fmt.Printf("Wrapped is internal: %v\n", errors.IsType(wrapped, errors.ErrorTypeInternal))
	fmt.Printf("Type of wrapped: %s\n", errors.TypeOf(wrapped))

	// Output:
	// Is split error: true
	// Wrapped is internal: true
	// Type of wrapped: internal
}

// Example_errorChain shows how messages chain through Wrap.
func Example_errorChain() {
	err := errors.Wrap(errors.HeaderNotAvailable(), errors.ErrorTypeValidation, "cannot write json")

	fmt.Println(err)

	// Output:
	// validation: cannot write json: header_not_available: header is not available
}

// Example_errorHandling demonstrates branching on the error taxonomy.
func Example_errorHandling() {
	failures := []error{
		errors.OutOfRange("row", 12),
		errors.InvalidColumnCaption("price"),
		errors.ChunkSizeExceedsFile(64, 10),
	}

	for _, err := range failures {
		switch {
		case errors.IsType(err, errors.ErrorTypeOutOfRange):
			fmt.Println("index problem:", err)
		case errors.IsType(err, errors.ErrorTypeInvalidCaption):
			fmt.Println("caption problem:", err)
		default:
			fmt.Println("setup problem:", err)
		}
	}

	// Output:
	// index problem: out_of_range: row index 12 out of range
	// caption problem: invalid_caption: no column with caption "price"
	// setup problem: chunk_size: chunk size 64 exceeds file size 10
}
