package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() ectologger.Logger {
	return zapadapter.NewZapEctoLogger(zap.NewNop(), nil)
}

type fakeDependency struct {
	name     string
	deps     []string
	log      *[]string
	startErr error
	failOnce bool
}

func (d *fakeDependency) GetName() string {
	return d.name
}

func (d *fakeDependency) DependsOn() []string {
	return d.deps
}

func (d *fakeDependency) Start(ctx context.Context) error {
	if d.startErr != nil {
		err := d.startErr
		if d.failOnce {
			d.startErr = nil
		}
		return err
	}
	*d.log = append(*d.log, "start:"+d.name)
	return nil
}

func (d *fakeDependency) Stop(ctx context.Context) error {
	*d.log = append(*d.log, "stop:"+d.name)
	return nil
}

func TestStartHonorsDependsOn(t *testing.T) {
	var log []string
	s := NewStartup(testLogger(), 1)
	// registered out of order on purpose
	s.AddDependency(&fakeDependency{name: "migrations", deps: []string{"database"}, log: &log})
	s.AddDependency(&fakeDependency{name: "database", log: &log})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:migrations"}, log)
}

func TestStartRetriesAfterFailure(t *testing.T) {
	var log []string
	s := NewStartup(testLogger(), 2)
	s.AddDependency(&fakeDependency{name: "database", log: &log, startErr: errors.New("refused"), failOnce: true})
	s.AddDependency(&fakeDependency{name: "kafka", log: &log})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:kafka"}, log)
}

func TestStartExhaustsAttempts(t *testing.T) {
	var log []string
	s := NewStartup(testLogger(), 1)
	s.AddDependency(&fakeDependency{name: "database", log: &log, startErr: errors.New("refused")})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 attempts")
}

func TestStartUnregisteredDependencyFails(t *testing.T) {
	var log []string
	s := NewStartup(testLogger(), 1)
	s.AddDependency(&fakeDependency{name: "migrations", deps: []string{"database"}, log: &log})

	require.Error(t, s.Start(context.Background()))
	assert.Empty(t, log)
}

func TestStopReversesStartOrder(t *testing.T) {
	var log []string
	s := NewStartup(testLogger(), 1)
	s.AddDependency(&fakeDependency{name: "database", log: &log})
	s.AddDependency(&fakeDependency{name: "migrations", deps: []string{"database"}, log: &log})
	s.AddDependency(&fakeDependency{name: "kafka", log: &log})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, []string{
		"start:database", "start:migrations", "start:kafka",
		"stop:kafka", "stop:migrations", "stop:database",
	}, log)
}
