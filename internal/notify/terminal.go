// Package notify asks an operator to fix a blocking condition and waits for
// them to request a retry.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Terminal prints the message and waits for a line on its input.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) Notify(ctx context.Context, message string) error {
	if _, err := fmt.Fprintf(t.out, "%s\nFree some space and press Enter to retry... ", message); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(t.in).ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && err != io.EOF {
			return fmt.Errorf("read acknowledgement: %w", err)
		}
		return nil
	}
}
