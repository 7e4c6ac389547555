package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// PickCount is the number of values on a 6/45 ticket
	PickCount = 6
	// MinNumber is the lowest drawable number
	MinNumber = 1
	// MaxNumber is the highest drawable number
	MaxNumber = 45
)

// TicketNumbers holds the six numbers of a ticket in ascending order.
// A nil value means the numbers were not captured at purchase time
// and the ticket can only be scored from the round's coarse outcome.
type TicketNumbers []int

// UnresolvedNumbers is the sentinel for tickets bought without captured numbers
var UnresolvedNumbers TicketNumbers = nil

// NewTicketNumbers validates nums and returns a sorted copy
func NewTicketNumbers(nums []int) (TicketNumbers, error) {
	if err := validatePick(nums); err != nil {
		return nil, err
	}
	sorted := make([]int, len(nums))
	copy(sorted, nums)
	sort.Ints(sorted)
	return TicketNumbers(sorted), nil
}

// ParseTicketNumbers parses a comma or whitespace separated list such as
// "1,2,3,4,5,6" or "1 2 3 4 5 6"
func ParseTicketNumbers(s string) (TicketNumbers, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, f)
		}
		nums = append(nums, n)
	}

	return NewTicketNumbers(nums)
}

// IsUnresolved reports whether the specific numbers are unknown
func (n TicketNumbers) IsUnresolved() bool {
	return len(n) == 0
}

// Validate checks a resolved pick. Unresolved numbers are valid.
func (n TicketNumbers) Validate() error {
	if n.IsUnresolved() {
		return nil
	}
	return validatePick(n)
}

// Contains reports whether x is one of the numbers
func (n TicketNumbers) Contains(x int) bool {
	for _, v := range n {
		if v == x {
			return true
		}
	}
	return false
}

func (n TicketNumbers) String() string {
	if n.IsUnresolved() {
		return "unresolved"
	}
	return FormatNumbers(n)
}

// FormatNumbers joins numbers as "2, 13, 15"
func FormatNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, v := range nums {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// validatePick checks cardinality, range and uniqueness of a 6/45 pick
func validatePick(nums []int) error {
	if len(nums) != PickCount {
		return fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidInput, PickCount, len(nums))
	}

	seen := make(map[int]bool, len(nums))
	for _, v := range nums {
		if v < MinNumber || v > MaxNumber {
			return fmt.Errorf("%w: number %d outside %d-%d", ErrInvalidInput, v, MinNumber, MaxNumber)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate number %d", ErrInvalidInput, v)
		}
		seen[v] = true
	}

	return nil
}
