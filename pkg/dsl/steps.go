package dsl

import "time"

// Steps provides a fluent API for appending steps.
type Steps struct {
	list []any
}

func (s *Steps) items() []any {
	return append([]any(nil), s.list...)
}

func (s *Steps) add(kind string, args any) *Steps {
	s.list = append(s.list, map[string]any{kind: args})
	return s
}

func (s *Steps) group(kind, label string, fill func(*Steps)) *Steps {
	children := &Steps{}
	fill(children)
	s.list = append(s.list, map[string]any{kind: label, "steps": children.items()})
	return s
}

// Nav navigates to url.
func (s *Steps) Nav(url string) *Steps {
	return s.add("nav", map[string]any{"url": url})
}

// Click clicks the first element matching selector.
func (s *Steps) Click(selector string) *Steps {
	return s.add("click", map[string]any{"selector": selector})
}

// Type sends text to the first element matching selector.
func (s *Steps) Type(selector, text string) *Steps {
	return s.add("type", map[string]any{"selector": selector, "text": text})
}

// Clear empties the first element matching selector.
func (s *Steps) Clear(selector string) *Steps {
	return s.add("clear", map[string]any{"selector": selector})
}

// ExpectText fails unless the text of the first match equals text.
func (s *Steps) ExpectText(selector, text string) *Steps {
	return s.add("expect_text", map[string]any{"selector": selector, "text": text})
}

// ExpectAttribute fails unless attribute name of the first match equals value.
func (s *Steps) ExpectAttribute(selector, name, value string) *Steps {
	return s.add("expect_attribute", map[string]any{"selector": selector, "name": name, "value": value})
}

// ExpectExists fails unless something matches selector.
func (s *Steps) ExpectExists(selector string) *Steps {
	return s.add("expect_exists", map[string]any{"selector": selector})
}

// WaitExists polls until something matches selector. Zero durations use
// the run's defaults.
func (s *Steps) WaitExists(selector string) *Steps {
	return s.WaitExistsWithin(selector, 0, 0)
}

// WaitExistsWithin is WaitExists with an explicit deadline and interval.
func (s *Steps) WaitExistsWithin(selector string, timeout, interval time.Duration) *Steps {
	args := map[string]any{"selector": selector}
	if timeout > 0 {
		args["timeout"] = timeout.String()
	}
	if interval > 0 {
		args["interval"] = interval.String()
	}
	return s.add("wait_exists", args)
}

// Info logs message.
func (s *Steps) Info(message string) *Steps { return s.add("info", map[string]any{"message": message}) }

// Warn logs message as a warning.
func (s *Steps) Warn(message string) *Steps { return s.add("warn", map[string]any{"message": message}) }

// Fail records a failure with message.
func (s *Steps) Fail(message string) *Steps { return s.add("fail", map[string]any{"message": message}) }

// Context runs the steps added by fill inside a context named label.
func (s *Steps) Context(label string, fill func(*Steps)) *Steps {
	return s.group("context", label, fill)
}

// Collect runs every step added by fill even when some fail, reporting all
// failures. A non-empty label also opens a context.
func (s *Steps) Collect(label string, fill func(*Steps)) *Steps {
	return s.group("collect", label, fill)
}
