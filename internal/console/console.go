// Package console runs the interactive dice-rolling loop on a reader/writer
// pair, normally stdin and stdout.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bft-labs/diceroller/pkg/dice"
	"github.com/bft-labs/diceroller/pkg/log"
)

const banner = `
===========================================
  Dice Roller CLI
===========================================
`

const (
	againPrompt = "Roll again with the same number of dice? (Enter to roll again, 'c' to change dice, 'q' to quit): "
	goodbye     = "Goodbye!"

	// maxLineBytes bounds a single answer; longer lines are read to the end
	// and treated as unrecognized input.
	maxLineBytes = 4096
)

// errQuit ends the session normally.
var errQuit = errors.New("console: quit")

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger used for per-roll debug lines.
func WithLogger(logger log.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDice sets the largest dice count offered at the selection prompt.
func WithMaxDice(n int) Option {
	return func(c *Console) {
		if n >= 1 {
			c.maxDice = n
		}
	}
}

// WithBanner toggles the banner printed before the welcome line.
func WithBanner(show bool) Option {
	return func(c *Console) {
		c.banner = show
	}
}

// Console is the interactive loop. It is not safe for concurrent use.
type Console struct {
	roller  *dice.Roller
	in      *bufio.Reader
	out     io.Writer
	logger  log.Logger
	maxDice int
	banner  bool
}

// New creates a Console reading commands from in and writing to out.
func New(roller *dice.Roller, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		roller:  roller,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  log.NewNoopLogger(),
		maxDice: 2,
		banner:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// answer is one line typed by the user.
type answer struct {
	text    string
	tooLong bool
	err     error
}

// Run drives the loop until the user quits, input ends or ctx is cancelled.
// Quitting, end of input and cancellation all return nil; read and engine
// failures are returned.
func (c *Console) Run(ctx context.Context) error {
	if c.banner {
		fmt.Fprint(c.out, banner)
	}
	fmt.Fprintln(c.out, "Welcome to the Dice Roller!")

	stop := make(chan struct{})
	defer close(stop)
	answers := c.readAnswers(stop)

	for {
		a, err := c.prompt(ctx, answers, c.selectPrompt())
		if err != nil {
			return c.finish(err)
		}
		if !a.tooLong && a.text == "q" {
			return c.finish(errQuit)
		}
		count, valid := c.parseCount(a)
		if !valid {
			fmt.Fprintln(c.out, c.invalidMessage())
			continue
		}
		if err := c.rollLoop(ctx, answers, count); err != nil {
			return c.finish(err)
		}
	}
}

// rollLoop rolls count dice, then keeps rolling until the user asks to
// change the count ('c'). Any other ending is reported as an error.
func (c *Console) rollLoop(ctx context.Context, answers <-chan answer, count int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.roll(count); err != nil {
			return err
		}
		a, err := c.prompt(ctx, answers, againPrompt)
		if err != nil {
			return err
		}
		if a.tooLong {
			continue
		}
		switch a.text {
		case "q":
			return errQuit
		case "c":
			return nil
		}
	}
}

// finish maps the reason the loop ended to Run's result.
func (c *Console) finish(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(c.out, goodbye)
		return nil
	}
	return err
}

func (c *Console) roll(count int) error {
	values, err := c.roller.Roll(count)
	if err != nil {
		return fmt.Errorf("roll %d dice: %w", count, err)
	}
	text, err := dice.Format(values)
	if err != nil {
		return fmt.Errorf("format roll: %w", err)
	}
	c.logger.Debug("rolled", log.Ints("dice", values), log.Int("total", values.Total()))
	fmt.Fprintln(c.out, text)
	return nil
}

// readAnswers reads lines in the background so a blocked read never holds
// up cancellation. The channel is closed after the first read error.
func (c *Console) readAnswers(stop <-chan struct{}) <-chan answer {
	ch := make(chan answer)
	go func() {
		defer close(ch)
		for {
			a := c.readLine()
			select {
			case ch <- a:
			case <-stop:
				return
			}
			if a.err != nil {
				return
			}
		}
	}()
	return ch
}

// readLine returns the next line. A final line without a newline is still
// returned; io.EOF is reported only when nothing is left.
func (c *Console) readLine() answer {
	var buf []byte
	tooLong := false
	for {
		chunk, err := c.in.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong):
			return answer{text: string(buf), tooLong: tooLong}
		case err != nil:
			return answer{err: err}
		}
		return answer{text: string(buf), tooLong: tooLong}
	}
}

// prompt writes p and waits for the next answer, trimmed and lowercased.
func (c *Console) prompt(ctx context.Context, answers <-chan answer, p string) (answer, error) {
	fmt.Fprint(c.out, p)
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(c.out)
		return answer{}, err
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return answer{}, ctx.Err()
	case a, ok := <-answers:
		if !ok || errors.Is(a.err, io.EOF) {
			fmt.Fprintln(c.out)
			return answer{}, errQuit
		}
		if a.err != nil {
			return answer{}, fmt.Errorf("read input: %w", a.err)
		}
		a.text = strings.ToLower(strings.TrimSpace(a.text))
		return a, nil
	}
}

func (c *Console) parseCount(a answer) (int, bool) {
	if a.tooLong {
		return 0, false
	}
	n, err := strconv.Atoi(a.text)
	if err != nil || n < 1 || n > c.maxDice {
		return 0, false
	}
	// reject "+1", "01" and friends so only the offered choices pass
	if strconv.Itoa(n) != a.text {
		return 0, false
	}
	return n, true
}

func (c *Console) selectPrompt() string {
	var choices string
	switch c.maxDice {
	case 1:
		choices = "1"
	case 2:
		choices = "1 or 2"
	default:
		choices = fmt.Sprintf("1-%d", c.maxDice)
	}
	return fmt.Sprintf("Choose number of dice to roll (%s) or q to quit: ", choices)
}

func (c *Console) invalidMessage() string {
	switch c.maxDice {
	case 1:
		return "Invalid input. Please enter 1 or q to quit."
	case 2:
		return "Invalid input. Please enter 1, 2, or q to quit."
	default:
		return fmt.Sprintf("Invalid input. Please enter a number from 1 to %d, or q to quit.", c.maxDice)
	}
}
