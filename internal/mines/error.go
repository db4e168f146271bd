package mines

import "fmt"

var (
	ErrInvalidParameter      = fmt.Errorf("height, width and number of mines must be greater than 0")
	ErrInvalidCellCoordinate = fmt.Errorf("the given cell coordinate does not exist")
	ErrInvalidCommand        = fmt.Errorf("invalid game command")
	ErrGameEnded             = fmt.Errorf("ended games cannot be updated")
)

// Refinements of [ErrInvalidParameter] with their own wording. errors.Is
// matches both the refinement and [ErrInvalidParameter].
var (
	ErrTooManyMines  error = paramError{"number of mines must be less than the number of cells"}
	ErrBoardTooLarge error = paramError{fmt.Sprintf("board must not have more than %d cells", MaxCells)}
	ErrInvalidLayout error = paramError{"mine positions must be distinct cells of the board"}
)

type paramError struct {
	message string
}

func (e paramError) Error() string {
	return e.message
}

func (e paramError) Is(target error) bool {
	return target == ErrInvalidParameter
}

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

func coordinateError(x, y int) error {
	return fmt.Errorf("%w (%d, %d)", ErrInvalidCellCoordinate, x, y)
}
