package drivers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe/pkg/adapters/memory"
	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/drivers"
)

type stubDriver struct{ quits int }

func (d *stubDriver) Navigate(context.Context, string) error     { return nil }
func (d *stubDriver) CurrentURL(context.Context) (string, error) { return "", nil }
func (d *stubDriver) FindMatches(context.Context, string) ([]domain.Element, error) {
	return nil, nil
}
func (d *stubDriver) Quit() error {
	d.quits++
	return nil
}

func TestRegistry(t *testing.T) {
	reg := drivers.NewRegistry()
	stub := &stubDriver{}
	reg.Register("stub", func(context.Context) (domain.Driver, error) { return stub, nil })
	reg.Register("broken", func(context.Context) (domain.Driver, error) { return nil, errors.New("no binary") })
	require.NoError(t, reg.Alias("default", "stub"))
	assert.ErrorIs(t, reg.Alias("x", "unknown"), domain.ErrDriverNotSupported)

	assert.Equal(t, []string{"broken", "default", "stub"}, reg.Names())

	d, err := reg.NewDriver(context.Background(), "default")
	require.NoError(t, err)
	assert.Same(t, stub, d)

	_, err = reg.NewDriver(context.Background(), "safari")
	assert.ErrorIs(t, err, domain.ErrDriverNotSupported)

	_, err = reg.NewDriver(context.Background(), "broken")
	assert.ErrorContains(t, err, "failed to start driver broken")
}

func TestDriverReturnedWithErrorIsQuit(t *testing.T) {
	half := &stubDriver{}
	reg := drivers.NewRegistry()
	reg.Register("half", func(context.Context) (domain.Driver, error) { return half, errors.New("crashed on start") })

	locker := memory.NewLocker()
	_, err := drivers.Locked(reg, locker, 0).NewDriver(context.Background(), "half")
	assert.ErrorContains(t, err, "crashed on start")
	assert.Equal(t, 1, half.quits)

	unlock, err := locker.Lock(context.Background(), "driver:half", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}

func TestLockedFactory(t *testing.T) {
	reg := drivers.NewRegistry()
	reg.Register("stub", func(context.Context) (domain.Driver, error) { return &stubDriver{}, nil })
	reg.Register("broken", func(context.Context) (domain.Driver, error) { return nil, errors.New("no binary") })

	locker := memory.NewLocker()
	factory := drivers.Locked(reg, locker, 0)
	ctx := context.Background()

	// 1. First session holds the lock
	first, err := factory.NewDriver(ctx, "stub")
	require.NoError(t, err)

	// 2. Second session blocks until timeout
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = factory.NewDriver(waitCtx, "stub")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 3. Quit releases, twice is harmless
	require.NoError(t, first.Quit())
	require.NoError(t, first.Quit())

	second, err := factory.NewDriver(ctx, "stub")
	require.NoError(t, err)
	require.NoError(t, second.Quit())

	// 4. Creation failures release the lock
	_, err = factory.NewDriver(ctx, "broken")
	require.Error(t, err)
	unlock, err := locker.Lock(ctx, "driver:broken", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
