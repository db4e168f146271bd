package mines

import (
	"fmt"
	"strings"
)

type Command uint8

const (
	Uncover Command = iota + 1
	RedFlag
	QuestionMark
	DeleteFlag
	LAST_COMMAND
)

func (c Command) String() string {
	switch c {
	case Uncover:
		return "uncover"
	case RedFlag:
		return "red_flag"
	case QuestionMark:
		return "question_mark"
	case DeleteFlag:
		return "delete_flag"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}

// Commands lists the accepted action tokens in declaration order.
func Commands() []string {
	tokens := make([]string, 0, int(LAST_COMMAND)-1)
	for c := Uncover; c < LAST_COMMAND; c++ {
		tokens = append(tokens, c.String())
	}
	return tokens
}

func ParseCommand(s string) (Command, error) {
	switch s {
	case "uncover":
		return Uncover, nil
	case "red_flag":
		return RedFlag, nil
	case "question_mark":
		return QuestionMark, nil
	case "delete_flag":
		return DeleteFlag, nil
	default:
		return 0, fmt.Errorf("%w '%s' (must be one of %s)",
			ErrInvalidCommand, s, strings.Join(Commands(), ", "))
	}
}

// Execute applies cmd to the cell at x:y.
func (g *Game) Execute(cmd Command, x, y int) error {
	switch cmd {
	case Uncover:
		return g.Uncover(x, y)
	case RedFlag:
		return g.RedFlag(x, y)
	case QuestionMark:
		return g.QuestionFlag(x, y)
	case DeleteFlag:
		return g.DeleteFlag(x, y)
	default:
		return fmt.Errorf("%w '%s'", ErrInvalidCommand, cmd)
	}
}

// ExecuteLine parses and applies a "<command> <x> <y>" line.
func (g *Game) ExecuteLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return fmt.Errorf("%w: expected \"<command> <x> <y>\", got %q", ErrInvalidCommand, line)
	}
	cmd, err := ParseCommand(fields[0])
	if err != nil {
		return err
	}
	x, y, err := parseXY(fields[1:])
	if err != nil {
		return err
	}
	return g.Execute(cmd, x, y)
}
