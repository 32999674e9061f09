package services

import (
	"context"
	"sync"
)

// scriptedCompleter replays canned responses in order; the last one repeats.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := len(c.prompts)
	c.prompts = append(c.prompts, prompt)

	var err error
	if len(c.errs) > 0 {
		err = c.errs[min(i, len(c.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(c.responses) == 0 {
		return "", nil
	}
	return c.responses[min(i, len(c.responses)-1)], nil
}

func (c *scriptedCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// completerFunc adapts a function to Completer.
type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
