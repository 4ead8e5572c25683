package device

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Console implements Device for the terminal client: it cannot dial or
// play sound, so it prints what the phone would do.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Dial(_ context.Context, number string) error {
	return c.printf("call   %s\n", CallURI(number))
}

func (c *Console) ComposeSMS(_ context.Context, number, body string) error {
	return c.printf("sms    %s\n", SMSURI(number, body))
}

func (c *Console) Play(_ context.Context, asset string) error {
	return c.printf("\a*** ALARM (%s) ***\n", asset)
}

func (c *Console) Stop(context.Context) error {
	return c.printf("alarm stopped\n")
}

func (c *Console) Notify(_ context.Context, title, body string) error {
	return c.printf("notice %s: %s\n", title, body)
}

func (c *Console) printf(format string, args ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, format, args...)
	return err
}
