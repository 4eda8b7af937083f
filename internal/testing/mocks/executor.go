// Package mocks provides shared test doubles for theater packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AndreyAkinshin/theater/internal/puppet"
)

// Executor implements puppet.Executor for testing.
// Use NewExecutor() to create instances with a fluent builder API.
type Executor struct {
	outputs map[string]string
	errs    map[string]error

	// ExecFunc is called by Exec when set; it overrides scripted outputs.
	ExecFunc func(ctx context.Context, req puppet.Request) (string, error)

	// Execution tracking (thread-safe)
	execCount int32
	mu        sync.Mutex
	calls     []puppet.Request
}

// NewExecutor creates a mock executor that prints nothing and succeeds.
func NewExecutor() *Executor {
	return &Executor{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

// WithOutput sets the stdout returned for a puppet.
func (m *Executor) WithOutput(puppetPath, stdout string) *Executor {
	m.outputs[puppetPath] = stdout
	return m
}

// WithError makes every spawn of a puppet fail with err.
func (m *Executor) WithError(puppetPath string, err error) *Executor {
	m.errs[puppetPath] = err
	return m
}

// WithExecFunc sets the function called by Exec.
func (m *Executor) WithExecFunc(fn func(ctx context.Context, req puppet.Request) (string, error)) *Executor {
	m.ExecFunc = fn
	return m
}

// Exec implements puppet.Executor.
func (m *Executor) Exec(ctx context.Context, req puppet.Request) (string, error) {
	atomic.AddInt32(&m.execCount, 1)
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.outputs[req.Puppet], m.errs[req.Puppet]
}

// Test inspection methods

// ExecCount returns the number of times Exec was called.
func (m *Executor) ExecCount() int32 {
	return atomic.LoadInt32(&m.execCount)
}

// Calls returns a copy of every request received, in order.
func (m *Executor) Calls() []puppet.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]puppet.Request, len(m.calls))
	copy(result, m.calls)
	return result
}

// Order returns the puppet path of every request received, in order.
func (m *Executor) Order() []string {
	calls := m.Calls()
	order := make([]string, len(calls))
	for i, c := range calls {
		order[i] = c.Puppet
	}
	return order
}

// Reset clears execution tracking state.
func (m *Executor) Reset() {
	atomic.StoreInt32(&m.execCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

var _ puppet.Executor = (*Executor)(nil)
