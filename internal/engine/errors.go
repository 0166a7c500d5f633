package engine

import "fmt"

// InvalidAmountError is returned when XP is awarded with a non-positive amount.
type InvalidAmountError struct {
	Amount int
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("xp amount must be positive (got %d)", e.Amount)
}

// InvalidToolError is returned when XP is awarded without a tool id.
type InvalidToolError struct{}

func (InvalidToolError) Error() string {
	return "tool id is required"
}
