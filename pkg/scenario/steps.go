package scenario

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/probe"
)

// E is the environment of scenario actions.
type E = probe.NoEnv

// Step is one parsed scenario step.
type Step struct {
	Kind     string
	Label    string
	Args     any
	Children []Step
}

type navArgs struct {
	URL string `mapstructure:"url" validate:"required"`
}

type selectorArgs struct {
	Selector string `mapstructure:"selector" validate:"required"`
}

type textArgs struct {
	Selector string `mapstructure:"selector" validate:"required"`
	Text     string `mapstructure:"text"`
}

type attributeArgs struct {
	Selector string `mapstructure:"selector" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	Value    string `mapstructure:"value"`
}

type waitArgs struct {
	Selector string        `mapstructure:"selector" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

type messageArgs struct {
	Message string `mapstructure:"message" validate:"required"`
}

// kind describes how a step is decoded and compiled.
type kind struct {
	// shorthand is the argument a scalar value stands for.
	shorthand string
	newArgs   func() any
	group     bool
	compile   func(st Step) probe.Action[probe.Unit]
}

var kinds map[string]kind

func init() {
	kinds = map[string]kind{
		"nav": {shorthand: "url", newArgs: func() any { return &navArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			a := st.Args.(*navArgs)
			return withText(a.URL, probe.Nav[E])
		}},
		"click": {shorthand: "selector", newArgs: func() any { return &selectorArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*selectorArgs).Selector, probe.Click[E])
		}},
		"clear": {shorthand: "selector", newArgs: func() any { return &selectorArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*selectorArgs).Selector, probe.Clear[E])
		}},
		"type": {newArgs: func() any { return &textArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			a := st.Args.(*textArgs)
			return withTexts(func(v []string) probe.Action[probe.Unit] {
				return probe.SendKeys[E](v[0], v[1])
			}, a.Selector, a.Text)
		}},
		"expect_text": {newArgs: func() any { return &textArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			a := st.Args.(*textArgs)
			return withTexts(func(v []string) probe.Action[probe.Unit] {
				return probe.HasText[E](v[0], v[1])
			}, a.Selector, a.Text)
		}},
		"expect_attribute": {newArgs: func() any { return &attributeArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			a := st.Args.(*attributeArgs)
			return withTexts(func(v []string) probe.Action[probe.Unit] {
				return probe.HasAttribute[E](v[0], a.Name, v[1])
			}, a.Selector, a.Value)
		}},
		"expect_exists": {shorthand: "selector", newArgs: func() any { return &selectorArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*selectorArgs).Selector, func(sel string) probe.Action[probe.Unit] {
				return probe.AndThen(probe.Exists[E](sel), func(ok bool) probe.Action[probe.Unit] {
					if !ok {
						return probe.Failf[E, probe.Unit]("Expected element to exist: %s", sel)
					}
					return probe.Pure[E](probe.Unit{})
				})
			})
		}},
		"wait_exists": {shorthand: "selector", newArgs: func() any { return &waitArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			a := st.Args.(*waitArgs)
			return withText(a.Selector, func(sel string) probe.Action[probe.Unit] {
				return probe.Discard(probe.WaitUntilElementExists[E](sel, a.Interval, a.Timeout))
			})
		}},
		"info": {shorthand: "message", newArgs: func() any { return &messageArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*messageArgs).Message, probe.Info[E])
		}},
		"warn": {shorthand: "message", newArgs: func() any { return &messageArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*messageArgs).Message, probe.Warn[E])
		}},
		"fail": {shorthand: "message", newArgs: func() any { return &messageArgs{} }, compile: func(st Step) probe.Action[probe.Unit] {
			return withText(st.Args.(*messageArgs).Message, probe.Fail[E, probe.Unit])
		}},
		"context": {group: true, compile: func(st Step) probe.Action[probe.Unit] {
			return probe.Context(st.Label, compileAll(st.Children))
		}},
		"collect": {group: true, compile: func(st Step) probe.Action[probe.Unit] {
			steps := make([]probe.Action[probe.Unit], len(st.Children))
			for i, c := range st.Children {
				steps[i] = compile(c)
			}
			body := probe.Discard(probe.Collect(steps...))
			if st.Label == "" {
				return body
			}
			return probe.Context(st.Label, body)
		}},
	}
}

// Kinds returns the supported step kinds, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func parseSteps(path string, raw []any) ([]Step, []error) {
	steps := make([]Step, 0, len(raw))
	var errs []error
	for i, item := range raw {
		st, stepErrs := parseStep(fmt.Sprintf("%s[%d]", path, i), item)
		errs = append(errs, stepErrs...)
		if len(stepErrs) == 0 {
			steps = append(steps, st)
		}
	}
	return steps, errs
}

func parseStep(path string, item any) (Step, []error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return Step{}, []error{&ValidationError{Path: path, Message: "a step must be a mapping"}}
	}

	var names []string
	for key := range fields {
		if key != "steps" {
			names = append(names, key)
		}
	}
	slices.Sort(names)
	switch {
	case len(names) == 0:
		return Step{}, []error{&ValidationError{Path: path, Message: "step kind is missing"}}
	case len(names) > 1:
		return Step{}, []error{&ValidationError{Path: path, Message: fmt.Sprintf("a step has exactly one kind, found %q and %q", names[0], names[1])}}
	}
	name := names[0]

	k, ok := kinds[name]
	if !ok {
		return Step{}, []error{&ValidationError{Path: path, Message: fmt.Sprintf("unknown step kind %q (supported: %s)", name, strings.Join(Kinds(), ", "))}}
	}
	path += "." + name
	value := fields[name]

	if k.group {
		return parseGroup(path, name, value, fields["steps"])
	}
	if _, nested := fields["steps"]; nested {
		return Step{}, []error{&ValidationError{Path: path, Message: "only context and collect take nested steps"}}
	}

	if k.shorthand != "" {
		switch value.(type) {
		case map[string]any, nil:
		default:
			value = map[string]any{k.shorthand: value}
		}
	}
	if value == nil {
		value = map[string]any{}
	}

	args := k.newArgs()
	if err := decode(value, args); err != nil {
		return Step{}, []error{&ValidationError{Path: path, Message: err.Error(), Err: err}}
	}
	if err := validate(path, args); err != nil {
		return Step{}, []error{err}
	}
	return Step{Kind: name, Args: args}, nil
}

func parseGroup(path, name string, label, children any) (Step, []error) {
	st := Step{Kind: name}
	switch v := label.(type) {
	case nil:
	case string:
		st.Label = v
	default:
		return Step{}, []error{&ValidationError{Path: path, Message: "the label must be a string"}}
	}
	if name == "context" && st.Label == "" {
		return Step{}, []error{&ValidationError{Path: path, Message: "context label is required"}}
	}

	raw, ok := children.([]any)
	if !ok || len(raw) == 0 {
		return Step{}, []error{&ValidationError{Path: path, Message: "steps must be a non-empty list"}}
	}
	steps, errs := parseSteps(path+".steps", raw)
	if len(errs) > 0 {
		return Step{}, errs
	}
	st.Children = steps
	return st, nil
}

func compile(st Step) probe.Action[probe.Unit] {
	return kinds[st.Kind].compile(st)
}

// compileAll runs steps in order, stopping at the first failure.
func compileAll(steps []Step) probe.Action[probe.Unit] {
	actions := make([]probe.Action[probe.Unit], len(steps))
	for i, st := range steps {
		actions[i] = compile(st)
	}
	return probe.Discard(probe.Sequence(actions...))
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// interpolate replaces {{key}} references with configuration values.
func interpolate(text string) probe.Action[string] {
	matches := placeholder.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return probe.Pure[E](text)
	}

	lookups := make([]probe.Action[string], len(matches))
	for i, m := range matches {
		lookups[i] = probe.Config[E](m[1])
	}
	return probe.Map(probe.Sequence(lookups...), func(values []string) string {
		i := 0
		return placeholder.ReplaceAllStringFunc(text, func(string) string {
			v := values[i]
			i++
			return v
		})
	})
}

func withText(text string, f func(string) probe.Action[probe.Unit]) probe.Action[probe.Unit] {
	return probe.AndThen(interpolate(text), f)
}

func withTexts(f func([]string) probe.Action[probe.Unit], texts ...string) probe.Action[probe.Unit] {
	resolved := make([]probe.Action[string], len(texts))
	for i, t := range texts {
		resolved[i] = interpolate(t)
	}
	return probe.AndThen(probe.Sequence(resolved...), f)
}
