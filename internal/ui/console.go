package ui

import (
	"fmt"
	"io"
	"sync"
)

// Console renders notifications, navigation, and the cart badge as plain
// lines on a writer. It backs headless runs of the storefront.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole builds a console renderer over out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) print(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Success implements Notifier.
func (c *Console) Success(message string) {
	c.print("ok: %s", message)
}

// Error implements Notifier.
func (c *Console) Error(message string) {
	c.print("error: %s", message)
}

// GoTo implements Navigator.
func (c *Console) GoTo(page Page) {
	c.print("navigate: %s", page)
}

// SetCount implements CountDisplay.
func (c *Console) SetCount(total int) {
	c.print("cart: %d", total)
}

// Hide implements CountDisplay.
func (c *Console) Hide() {
	c.print("cart: hidden")
}
