// Package errors provides structured error types for the arugio module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), with optional protocol channel and ball id context and a cause
// chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Channel(2).
//		Detail("truncated position update").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownChannel(errors.PhaseDecode, 9)
//	err := errors.TooLarge(errors.PhaseDecode, 4096, 1024)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
