package parsing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/util"
)

var ErrStrict = errors.New("strict mode: input records were skipped")

// Context collects counts and skip reasons for a single extraction run. A nil
// *Context is valid and records nothing.
type Context struct {
	Source string
	Logger zerolog.Logger

	mu        sync.Mutex
	processed int
	skipped   int
	messages  []string
}

func NewContext(source string) *Context {
	return &Context{
		Source: source,
		Logger: log.With().Str("source", source).Logger(),
	}
}

// Child creates a context for a sub source, sharing the parent's logger.
func (c *Context) Child(source string) *Context {
	if c == nil {
		return NewContext(source)
	}

	return &Context{
		Source: source,
		Logger: c.Logger.With().Str("file", source).Logger(),
	}
}

// Log returns the context logger, or a disabled one for a nil context.
func (c *Context) Log() *zerolog.Logger {
	if c == nil {
		nop := zerolog.Nop()
		return &nop
	}

	return &c.Logger
}

func (c *Context) Success(elementID string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.processed++
	c.mu.Unlock()

	c.Logger.Trace().Str("element", elementID).Msg("Extracted record")
}

func (c *Context) Skip(reason string, elementID string) {
	if c == nil {
		return
	}

	message := reason
	if elementID != "" {
		message = fmt.Sprintf("%s (%s)", reason, util.TrimString(elementID, 120))
	}

	c.mu.Lock()
	c.skipped++
	c.messages = append(c.messages, message)
	c.mu.Unlock()

	c.Logger.Debug().Str("element", elementID).Msg(reason)
}

func (c *Context) Processed() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed
}

func (c *Context) Skipped() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipped
}

func (c *Context) Messages() []string {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Merge folds another context's counts and messages into this one.
func (c *Context) Merge(other *Context) {
	if c == nil || other == nil {
		return
	}

	processed, skipped, messages := other.Processed(), other.Skipped(), other.Messages()

	c.mu.Lock()
	c.processed += processed
	c.skipped += skipped
	c.messages = append(c.messages, messages...)
	c.mu.Unlock()
}

func (c *Context) Report() {
	if c == nil {
		return
	}

	event := c.Logger.Info()
	if c.Skipped() > 0 {
		event = c.Logger.Warn()
	}

	event.Int("processed", c.Processed()).Int("skipped", c.Skipped()).Msg("Parsing finished")

	for _, message := range c.Messages() {
		c.Logger.Debug().Msg(message)
	}
}

// CheckStrict fails when any record was skipped.
func (c *Context) CheckStrict() error {
	skipped := c.Skipped()
	if skipped == 0 {
		return nil
	}

	return fmt.Errorf("%w: %d skipped, first: %s", ErrStrict, skipped, c.Messages()[0])
}
