package domain

import "context"

// Driver is the port a browser-like backend implements.
//
// Quit releases the underlying session and must be safe to call more than
// once. Operations after Quit return ErrDriverClosed.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	FindMatches(ctx context.Context, query string) ([]Element, error)
	Quit() error
}

// Element is a handle to a node found by a driver.
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Style(ctx context.Context, property string) (string, error)
	Displayed(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	Selected(ctx context.Context) (bool, error)
}

// DriverFactory creates drivers by name.
type DriverFactory interface {
	NewDriver(ctx context.Context, name string) (Driver, error)
}

// DriverFactoryFunc adapts a function to DriverFactory.
type DriverFactoryFunc func(ctx context.Context, name string) (Driver, error)

func (f DriverFactoryFunc) NewDriver(ctx context.Context, name string) (Driver, error) {
	return f(ctx, name)
}
