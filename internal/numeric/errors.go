package numeric

import "fmt"

// ShapeError reports input sequences whose lengths disagree. It is fatal to
// the call that returned it and leaves no partial output.
type ShapeError struct {
	Op      string
	Lengths []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: mismatched input lengths %v", e.Op, e.Lengths)
}

func checkShape(op string, cols ...[]float64) error {
	if len(cols) == 0 {
		return nil
	}
	n := len(cols[0])
	for _, c := range cols[1:] {
		if len(c) != n {
			lengths := make([]int, len(cols))
			for i, cc := range cols {
				lengths[i] = len(cc)
			}
			return &ShapeError{Op: op, Lengths: lengths}
		}
	}
	return nil
}
