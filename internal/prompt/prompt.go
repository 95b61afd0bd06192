// Package prompt collects comparison parameters from an interactive user.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"StockCompare/internal/date"

	"github.com/shopspring/decimal"
)

// ErrNoInput is returned when the input ends before a valid answer was read.
var ErrNoInput = errors.New("no more input")

// MaxTickers bounds the number of tickers asked for.
const MaxTickers = 100

// InputFormatError describes an answer that could not be parsed.
type InputFormatError struct {
	Field string
	Input string
	Err   error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// Prompter asks questions on out and reads one answer per line from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints msg and parses answers until parse accepts one.
// Rejected answers are reported with hint and asked again.
func (p *Prompter) ask(msg, hint string, parse func(string) error) error {
	for {
		fmt.Fprint(p.out, msg)
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return err
			}
			return ErrNoInput
		}
		err := parse(strings.TrimSpace(p.scanner.Text()))
		if err == nil {
			return nil
		}
		var ife *InputFormatError
		if !errors.As(err, &ife) {
			return err
		}
		fmt.Fprintf(p.out, "%s (%v)\n\n", hint, ife)
	}
}

// Count asks how many tickers to compare.
func (p *Prompter) Count() (int, error) {
	var n int
	err := p.ask("Enter the number of stocks/etfs to compare: ", "Please enter a whole number of tickers.", func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return &InputFormatError{Field: "count", Input: s, Err: err}
		}
		if v < 1 || v > MaxTickers {
			return &InputFormatError{Field: "count", Input: s, Err: fmt.Errorf("must be between 1 and %d", MaxTickers)}
		}
		n = v
		return nil
	})
	return n, err
}

// Ticker asks for one ticker symbol and returns it upper-cased.
func (p *Prompter) Ticker() (string, error) {
	var ticker string
	err := p.ask("Enter a stock/etf ticker (ie SPY): ", "Please enter a ticker symbol.", func(s string) error {
		if s == "" || strings.ContainsAny(s, " \t,") {
			return &InputFormatError{Field: "ticker", Input: s, Err: errors.New("must be a single symbol")}
		}
		ticker = strings.ToUpper(s)
		return nil
	})
	return ticker, err
}

// Tickers asks for a count and then for that many tickers.
func (p *Prompter) Tickers() ([]string, error) {
	n, err := p.Count()
	if err != nil {
		return nil, err
	}
	var tickers []string
	for i := 0; i < n; i++ {
		t, err := p.Ticker()
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

// Date asks for a date in mm/dd/yyyy form.
func (p *Prompter) Date(msg string) (date.Date, error) {
	return p.DateFrom(msg, date.Date{})
}

// DateFrom asks for a date in mm/dd/yyyy form that is not before notBefore.
// A zero notBefore accepts any date.
func (p *Prompter) DateFrom(msg string, notBefore date.Date) (date.Date, error) {
	var d date.Date
	err := p.ask(msg, "Please enter the date in the proper format.", func(s string) error {
		v, err := date.ParseUS(s)
		if err != nil {
			return &InputFormatError{Field: "date", Input: s, Err: err}
		}
		if !notBefore.IsZero() && v.Before(notBefore) {
			return &InputFormatError{Field: "date", Input: s, Err: fmt.Errorf("must not be before %s", notBefore.US())}
		}
		d = v
		return nil
	})
	return d, err
}

// Amount asks for the starting investment in each ticker.
func (p *Prompter) Amount() (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := p.ask("Enter the starting investment for each stock/etf: ", "Please enter a valid amount of money.", func(s string) error {
		v, err := decimal.NewFromString(strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$"))
		if err != nil {
			return &InputFormatError{Field: "amount", Input: s, Err: err}
		}
		if !v.IsPositive() {
			return &InputFormatError{Field: "amount", Input: s, Err: errors.New("must be positive")}
		}
		amount = v
		return nil
	})
	return amount, err
}
