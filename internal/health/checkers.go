// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
)

// ModelInfo is what ModelChecker needs from the model holder.
type ModelInfo interface {
	Loaded() (name string, ok bool)
	LastError() error
}

// ModelChecker is unhealthy while no model bundle is loaded.
type ModelChecker struct {
	model ModelInfo
}

// NewModelChecker creates a checker for the active model.
func NewModelChecker(m ModelInfo) *ModelChecker {
	return &ModelChecker{model: m}
}

func (c *ModelChecker) Name() string { return "model" }

func (c *ModelChecker) Check(_ context.Context) CheckResult {
	name, ok := c.model.Loaded()
	if !ok {
		res := CheckResult{Status: StatusUnhealthy, Message: "model not loaded"}
		if err := c.model.LastError(); err != nil {
			res.Error = err.Error()
		}
		return res
	}
	if err := c.model.LastError(); err != nil {
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("serving %s, last reload failed", name),
			Error:   err.Error(),
		}
	}
	return CheckResult{Status: StatusHealthy, Message: name}
}

// PingChecker wraps a ping function. Failures are reported as degraded
// unless the checker is critical.
type PingChecker struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

// NewPingChecker creates a PingChecker.
func NewPingChecker(name string, critical bool, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, critical: critical, ping: ping}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		status := StatusDegraded
		if c.critical {
			status = StatusUnhealthy
		}
		return CheckResult{Status: status, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// StaticChecker reports a fixed result, e.g. for optional features that are
// switched off by configuration.
type StaticChecker struct {
	name   string
	result CheckResult
}

// NewStaticChecker creates a StaticChecker.
func NewStaticChecker(name string, result CheckResult) *StaticChecker {
	return &StaticChecker{name: name, result: result}
}

func (c *StaticChecker) Name() string                      { return c.name }
func (c *StaticChecker) Check(context.Context) CheckResult { return c.result }
