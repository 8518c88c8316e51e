package drivers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can keep a driver locked.
const DefaultLockTTL = 5 * time.Minute

// LockedFactory wraps a factory so that each driver name is held by at most
// one session at a time across every process sharing the locker.
type LockedFactory struct {
	next   domain.DriverFactory
	locker ports.DistributedLocker
	ttl    time.Duration
	prefix string
}

// Locked wraps next with locker. A non-positive ttl means DefaultLockTTL.
func Locked(next domain.DriverFactory, locker ports.DistributedLocker, ttl time.Duration) *LockedFactory {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &LockedFactory{next: next, locker: locker, ttl: ttl, prefix: "driver:"}
}

// NewDriver waits for the lock on name, then creates the driver. The lock is
// released when the driver quits, or right away if creation fails.
func (f *LockedFactory) NewDriver(ctx context.Context, name string) (domain.Driver, error) {
	unlock, err := f.locker.Lock(ctx, f.prefix+name, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to lock driver %s: %w", name, err)
	}

	d, err := f.next.NewDriver(ctx, name)
	if err != nil {
		if d != nil {
			err = errors.Join(err, d.Quit())
		}
		return nil, errors.Join(err, unlock(context.WithoutCancel(ctx)))
	}
	return &lockedDriver{Driver: d, unlock: unlock}, nil
}

type lockedDriver struct {
	domain.Driver
	unlock ports.UnlockFunc
	once   sync.Once
	err    error
}

func (d *lockedDriver) Quit() error {
	d.once.Do(func() {
		d.err = errors.Join(d.Driver.Quit(), d.unlock(context.Background()))
	})
	return d.err
}
