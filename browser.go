package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/probe/pkg/domain"
)

// CurrentDriver produces the driver in scope, faulting when there is none.
func CurrentDriver[E any]() Step[E, domain.Driver] {
	return func(_ context.Context, _ E, s domain.RunState) (domain.Driver, domain.RunState) {
		if s.Driver == nil {
			return nil, raise(s, "No driver in scope", domain.ErrNoDriver)
		}
		return s.Driver, s
	}
}

func onDriver[E, A any](label string, f func(ctx context.Context, d domain.Driver) (A, error)) Step[E, A] {
	return AndThen(CurrentDriver[E](), func(d domain.Driver) Step[E, A] {
		return TryLabel[E](label, func(ctx context.Context) (A, error) { return f(ctx, d) })
	})
}

func onElement[E, A any](query, label string, f func(ctx context.Context, el domain.Element) (A, error)) Step[E, A] {
	return AndThen(FindElement[E](query), func(el domain.Element) Step[E, A] {
		return TryLabel[E](label, func(ctx context.Context) (A, error) { return f(ctx, el) })
	})
}

// Nav navigates the driver in scope to url.
func Nav[E any](url string) Step[E, Unit] {
	return onDriver[E](fmt.Sprintf("Failed to navigate to: %s", url), func(ctx context.Context, d domain.Driver) (Unit, error) {
		return Unit{}, d.Navigate(ctx, url)
	})
}

// URL produces the current location of the driver in scope.
func URL[E any]() Step[E, string] {
	return onDriver[E]("Failed to read the current URL", func(ctx context.Context, d domain.Driver) (string, error) {
		return d.CurrentURL(ctx)
	})
}

// FindElementsOrEmpty produces every element matching query, possibly none.
func FindElementsOrEmpty[E any](query string) Step[E, []domain.Element] {
	return onDriver[E](fmt.Sprintf("Failed to query elements: %s", query), func(ctx context.Context, d domain.Driver) ([]domain.Element, error) {
		return d.FindMatches(ctx, query)
	})
}

// FindElements produces every element matching query and fails when there
// are none.
func FindElements[E any](query string) Step[E, []domain.Element] {
	return AndThen(FindElementsOrEmpty[E](query), func(els []domain.Element) Step[E, []domain.Element] {
		if len(els) == 0 {
			return FailErr[E, []domain.Element](domain.NewFailure(
				fmt.Sprintf("Can't find any elements that match selector: %s", query), nil, domain.ErrNoElements))
		}
		return Pure[E](els)
	})
}

// FindElement produces the first element matching query.
func FindElement[E any](query string) Step[E, domain.Element] {
	return Map(FindElements[E](query), func(els []domain.Element) domain.Element { return els[0] })
}

// Exists produces whether anything matches query.
func Exists[E any](query string) Step[E, bool] {
	return Map(FindElementsOrEmpty[E](query), func(els []domain.Element) bool { return len(els) > 0 })
}

// Click clicks the first element matching query.
func Click[E any](query string) Step[E, Unit] {
	return onElement[E](query, fmt.Sprintf("Failed to click: %s", query), func(ctx context.Context, el domain.Element) (Unit, error) {
		return Unit{}, el.Click(ctx)
	})
}

// SendKeys types text into the first element matching query.
func SendKeys[E any](query, text string) Step[E, Unit] {
	return onElement[E](query, fmt.Sprintf("Failed to send keys to: %s", query), func(ctx context.Context, el domain.Element) (Unit, error) {
		return Unit{}, el.SendKeys(ctx, text)
	})
}

// Clear empties the first element matching query.
func Clear[E any](query string) Step[E, Unit] {
	return onElement[E](query, fmt.Sprintf("Failed to clear: %s", query), func(ctx context.Context, el domain.Element) (Unit, error) {
		return Unit{}, el.Clear(ctx)
	})
}

// Text produces the text of the first element matching query.
func Text[E any](query string) Step[E, string] {
	return onElement[E](query, fmt.Sprintf("Failed to read text of: %s", query), func(ctx context.Context, el domain.Element) (string, error) {
		return el.Text(ctx)
	})
}

// HasText fails unless the text of the first element matching query equals expected.
func HasText[E any](query, expected string) Step[E, Unit] {
	return AndThen(Text[E](query), func(actual string) Step[E, Unit] {
		if actual != expected {
			return Failf[E, Unit]("Element text doesn't match. %q <> %q", actual, expected)
		}
		return Pure[E](Unit{})
	})
}

// Attribute produces an attribute of the first element matching query.
func Attribute[E any](query, name string) Step[E, string] {
	return onElement[E](query, fmt.Sprintf("Failed to read attribute %s of: %s", name, query), func(ctx context.Context, el domain.Element) (string, error) {
		return el.Attribute(ctx, name)
	})
}

// HasAttribute fails unless the attribute of the first element matching query equals expected.
func HasAttribute[E any](query, name, expected string) Step[E, Unit] {
	return AndThen(Attribute[E](query, name), func(actual string) Step[E, Unit] {
		if actual != expected {
			return Failf[E, Unit]("Attribute %s doesn't match. %q <> %q", name, actual, expected)
		}
		return Pure[E](Unit{})
	})
}

// Style produces a computed style property of the first element matching query.
func Style[E any](query, property string) Step[E, string] {
	return onElement[E](query, fmt.Sprintf("Failed to read style %s of: %s", property, query), func(ctx context.Context, el domain.Element) (string, error) {
		return el.Style(ctx, property)
	})
}

// Displayed produces whether the first element matching query is visible.
func Displayed[E any](query string) Step[E, bool] {
	return onElement[E](query, fmt.Sprintf("Failed to read visibility of: %s", query), func(ctx context.Context, el domain.Element) (bool, error) {
		return el.Displayed(ctx)
	})
}

// Enabled produces whether the first element matching query is enabled.
func Enabled[E any](query string) Step[E, bool] {
	return onElement[E](query, fmt.Sprintf("Failed to read enabled state of: %s", query), func(ctx context.Context, el domain.Element) (bool, error) {
		return el.Enabled(ctx)
	})
}

// CheckboxChecked produces whether the checkbox matching query is ticked.
func CheckboxChecked[E any](query string) Step[E, bool] {
	return onElement[E](query, fmt.Sprintf("Failed to read checkbox: %s", query), func(ctx context.Context, el domain.Element) (bool, error) {
		return el.Selected(ctx)
	})
}

// SetCheckbox ticks or unticks the checkbox matching query, clicking it only
// when its state differs.
func SetCheckbox[E any](query string, ticked bool) Step[E, Unit] {
	return AndThen(CheckboxChecked[E](query), func(current bool) Step[E, Unit] {
		if current == ticked {
			return Pure[E](Unit{})
		}
		return Click[E](query)
	})
}

// WaitUntilElementExists polls for query until something matches or wait
// elapses, producing the first match. Zero durations use the defaults.
func WaitUntilElementExists[E any](query string, interval, wait time.Duration) Step[E, domain.Element] {
	poll := WaitUntil(FindElementsOrEmpty[E](query), func(els []domain.Element) bool { return len(els) == 0 }, interval, wait)
	return AndThen(poll, func(els []domain.Element) Step[E, domain.Element] {
		if len(els) == 0 {
			return FailErr[E, domain.Element](domain.NewFailure(
				fmt.Sprintf("Element not found within timeout period: %s", query), nil, domain.ErrNoElements))
		}
		return Pure[E](els[0])
	})
}

// WaitUntilClickable waits for query to exist, be displayed and be enabled,
// producing the element.
func WaitUntilClickable[E any](query string, wait time.Duration) Step[E, domain.Element] {
	clickable := func(ctx context.Context, el domain.Element) (bool, error) {
		shown, err := el.Displayed(ctx)
		if err != nil || !shown {
			return false, err
		}
		return el.Enabled(ctx)
	}

	found := Then(Infof[E]("Waiting until clickable: %s", query), WaitUntilElementExists[E](query, 0, wait))
	return AndThen(found, func(el domain.Element) Step[E, domain.Element] {
		check := TryLabel[E](fmt.Sprintf("Failed to inspect: %s", query), func(ctx context.Context) (bool, error) {
			return clickable(ctx, el)
		})
		poll := WaitUntil(check, func(ok bool) bool { return !ok }, 0, wait)
		return AndThen(poll, func(ok bool) Step[E, domain.Element] {
			if !ok {
				return Failf[E, domain.Element]("Element not clickable within timeout period: %s", query)
			}
			return Pure[E](el)
		})
	})
}
