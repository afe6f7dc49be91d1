package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	wordDone   = "done"
	wordCancel = "cancel"
)

// ShopInfo is the shop branding shown on prompts and receipts
type ShopInfo struct {
	Name           string
	CurrencySymbol string
	GCashAccount   string
}

// Terminal reads operator input one line at a time.
type Terminal struct {
	in   *bufio.Reader
	out  io.Writer
	shop ShopInfo
}

func NewTerminal(in io.Reader, out io.Writer, shop ShopInfo) *Terminal {
	if shop.CurrencySymbol == "" {
		shop.CurrencySymbol = "₱"
	}
	return &Terminal{in: bufio.NewReader(in), out: out, shop: shop}
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) println(args ...any) {
	fmt.Fprintln(t.out, args...)
}

func (t *Terminal) money(d decimal.Decimal) string {
	return t.shop.CurrencySymbol + d.StringFixed(2)
}

// ask prints prompt and returns the trimmed answer. io.EOF means the operator
// closed the input.
func (t *Terminal) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isWord(answer, word string) bool {
	return strings.EqualFold(answer, word)
}

// askInt re-asks until the answer is an integer accepted by check. Typing
// "cancel" returns domain.ErrCancelled.
func (t *Terminal) askInt(ctx context.Context, prompt string, check func(int) string) (int, error) {
	for {
		answer, err := t.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if isWord(answer, wordCancel) {
			return 0, domain.ErrCancelled
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			t.println("Invalid number. Try again.")
			continue
		}
		if msg := check(n); msg != "" {
			t.println(msg)
			continue
		}
		return n, nil
	}
}

func (t *Terminal) askDecimal(ctx context.Context, prompt string, check func(decimal.Decimal) string) (decimal.Decimal, error) {
	for {
		answer, err := t.ask(ctx, prompt)
		if err != nil {
			return decimal.Zero, err
		}
		if isWord(answer, wordCancel) {
			return decimal.Zero, domain.ErrCancelled
		}
		d, err := decimal.NewFromString(strings.TrimPrefix(answer, t.shop.CurrencySymbol))
		if err != nil {
			t.println("Invalid amount. Please enter a number.")
			continue
		}
		if msg := check(d); msg != "" {
			t.println(msg)
			continue
		}
		return d, nil
	}
}

func (t *Terminal) confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		answer, err := t.ask(ctx, prompt+" (yes/no): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		t.println("Please answer yes or no.")
	}
}
