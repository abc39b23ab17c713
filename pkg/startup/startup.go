// Package startup brings service dependencies online in registration order,
// honoring DependsOn edges, and retries a failed boot with Fibonacci backoff
// until the attempt budget runs out.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// StartupDependency is one boot stage. DependsOn names stages that must be
// started before this one.
type StartupDependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type status int

const (
	statusPending status = iota
	statusStarted
	statusStopped
	statusFailed
)

// Startup drives registered dependencies through Start and Stop.
type Startup struct {
	logger       ectologger.Logger
	order        []string
	dependencies map[string]StartupDependency
	statuses     map[string]status
	started      []string
	maxAttempts  int
}

// NewStartup creates an empty startup sequence
func NewStartup(logger ectologger.Logger, maxAttempts int) *Startup {
	return &Startup{
		logger:       logger,
		dependencies: make(map[string]StartupDependency),
		statuses:     make(map[string]status),
		maxAttempts:  maxAttempts,
	}
}

// AddDependency registers a boot stage. Registration order is the tie-break
// when DependsOn does not impose one.
func (s *Startup) AddDependency(dependency StartupDependency) {
	name := dependency.GetName()
	if _, exists := s.dependencies[name]; !exists {
		s.order = append(s.order, name)
	}
	s.dependencies[name] = dependency
}

// Start boots every dependency. A failed attempt waits out a Fibonacci
// backoff and retries from the first unstarted stage; already started
// stages are not restarted.
func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	waitSeconds, next := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = nil
		for _, name := range s.order {
			if err := s.startDependency(ctx, s.dependencies[name]); err != nil {
				s.logger.WithError(err).Errorf("Startup dependency '%s' attempt %d failed", name, attempt)
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			return nil
		}

		if attempt == s.maxAttempts {
			break
		}

		s.logger.Infof("Retrying in %d seconds (attempt %d/%d)", waitSeconds, attempt, s.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(waitSeconds) * time.Second):
		}
		waitSeconds, next = next, waitSeconds+next
	}

	return fmt.Errorf("startup failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Startup) startDependency(ctx context.Context, dependency StartupDependency) error {
	name := dependency.GetName()
	if s.statuses[name] == statusStarted {
		return nil
	}

	for _, parent := range dependency.DependsOn() {
		if s.statuses[parent] == statusStarted {
			continue
		}
		required, ok := s.dependencies[parent]
		if !ok {
			return fmt.Errorf("dependency '%s' requires unregistered dependency '%s'", name, parent)
		}
		if err := s.startDependency(ctx, required); err != nil {
			return err
		}
	}

	s.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
	s.statuses[name] = statusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[name] = statusFailed
		s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to start dependency '%s'", name)
		return err
	}
	s.statuses[name] = statusStarted
	s.started = append(s.started, name)
	return nil
}

// Stop shuts down started dependencies in reverse start order
func (s *Startup) Stop(ctx context.Context) error {
	for i := len(s.started) - 1; i >= 0; i-- {
		name := s.started[i]
		if s.statuses[name] == statusStopped {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := s.dependencies[name].Stop(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			return err
		}
		s.statuses[name] = statusStopped
	}
	return nil
}
