package htmldriver

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a node of the page it was found on. Elements of a page that has
// since been replaced keep answering from the old page.
type Element struct {
	driver *Driver
	sel    *goquery.Selection
}

func (e *Element) tag() string {
	return goquery.NodeName(e.sel)
}

func (e *Element) inputType() string {
	t, ok := e.sel.Attr("type")
	if !ok {
		return "text"
	}
	return strings.ToLower(t)
}

func (e *Element) isTextField() bool {
	switch e.tag() {
	case "textarea":
		return true
	case "input":
		switch e.inputType() {
		case "checkbox", "radio", "submit", "button", "image", "reset", "file", "hidden":
			return false
		}
		return true
	}
	return false
}

func (e *Element) isSubmitter() bool {
	switch e.tag() {
	case "button":
		t, ok := e.sel.Attr("type")
		return !ok || strings.EqualFold(t, "submit")
	case "input":
		t := e.inputType()
		return t == "submit" || t == "image"
	}
	return false
}

// Click follows links, toggles checkboxes, selects radios and submits forms.
// Clicking anything else does nothing.
func (e *Element) Click(ctx context.Context) error {
	if enabled, _ := e.Enabled(ctx); !enabled {
		return ErrNotInteractable
	}

	if href, ok := e.sel.Attr("href"); ok && e.tag() == "a" {
		return e.driver.Navigate(ctx, href)
	}

	if e.tag() == "input" {
		switch e.inputType() {
		case "checkbox":
			if _, checked := e.sel.Attr("checked"); checked {
				e.sel.RemoveAttr("checked")
			} else {
				e.sel.SetAttr("checked", "checked")
			}
			return nil
		case "radio":
			if name, ok := e.sel.Attr("name"); ok {
				e.sel.Closest("form").Find(`input[type="radio"]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
					n, _ := s.Attr("name")
					return n == name
				}).RemoveAttr("checked")
			}
			e.sel.SetAttr("checked", "checked")
			return nil
		}
	}

	if e.isSubmitter() {
		form := e.sel.Closest("form")
		if form.Length() == 0 {
			return nil
		}
		return e.driver.submit(ctx, form, e.sel)
	}
	return nil
}

// SendKeys appends text to a text field.
func (e *Element) SendKeys(ctx context.Context, text string) error {
	if !e.isTextField() {
		return ErrNotInteractable
	}
	if enabled, _ := e.Enabled(ctx); !enabled {
		return ErrNotInteractable
	}
	if e.tag() == "textarea" {
		e.sel.SetText(e.sel.Text() + text)
		return nil
	}
	current, _ := e.sel.Attr("value")
	e.sel.SetAttr("value", current+text)
	return nil
}

// Clear empties a text field.
func (e *Element) Clear(context.Context) error {
	if !e.isTextField() {
		return ErrNotInteractable
	}
	if e.tag() == "textarea" {
		e.sel.SetText("")
		return nil
	}
	e.sel.SetAttr("value", "")
	return nil
}

// Text returns the visible text with whitespace collapsed.
func (e *Element) Text(context.Context) (string, error) {
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

// Attribute returns the attribute value, or "" when it is absent. The value
// of a textarea is its content.
func (e *Element) Attribute(_ context.Context, name string) (string, error) {
	if name == "value" && e.tag() == "textarea" {
		return e.sel.Text(), nil
	}
	v, _ := e.sel.Attr(name)
	return v, nil
}

// Style returns an inline style property. Stylesheets are not evaluated.
func (e *Element) Style(_ context.Context, property string) (string, error) {
	return inlineStyle(e.sel, property), nil
}

// Displayed reports false for elements that are, or sit inside, nodes hidden
// by the hidden attribute or an inline display:none or visibility:hidden,
// as well as hidden inputs and non-rendered containers.
func (e *Element) Displayed(context.Context) (bool, error) {
	if e.tag() == "input" && e.inputType() == "hidden" {
		return false, nil
	}
	for s := e.sel; s.Length() > 0; s = s.Parent() {
		switch goquery.NodeName(s) {
		case "head", "script", "style", "template", "noscript":
			return false, nil
		}
		if _, hidden := s.Attr("hidden"); hidden {
			return false, nil
		}
		if inlineStyle(s, "display") == "none" || inlineStyle(s, "visibility") == "hidden" {
			return false, nil
		}
	}
	return true, nil
}

// Enabled reports false for disabled controls and controls inside a
// disabled fieldset.
func (e *Element) Enabled(context.Context) (bool, error) {
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return false, nil
	}
	if e.sel.Closest("fieldset[disabled]").Length() > 0 {
		return false, nil
	}
	return true, nil
}

// Selected reports whether a checkbox or radio is checked or an option is selected.
func (e *Element) Selected(context.Context) (bool, error) {
	if _, ok := e.sel.Attr("checked"); ok {
		return true, nil
	}
	_, ok := e.sel.Attr("selected")
	return ok, nil
}

func inlineStyle(s *goquery.Selection, property string) string {
	style, ok := s.Attr("style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// submit sends form the way a browser would for a click on submitter.
func (d *Driver) submit(ctx context.Context, form, submitter *goquery.Selection) error {
	action, _ := form.Attr("action")
	target, err := d.resolve(action)
	if err != nil {
		return err
	}

	values := formValues(form)
	if name, ok := submitter.Attr("name"); ok && name != "" {
		v, _ := submitter.Attr("value")
		values.Add(name, v)
	}

	method, _ := form.Attr("method")
	if strings.EqualFold(method, http.MethodPost) {
		return d.load(ctx, http.MethodPost, target, values)
	}
	target.RawQuery = values.Encode()
	return d.load(ctx, http.MethodGet, target, nil)
}

func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, f *goquery.Selection) {
		if _, disabled := f.Attr("disabled"); disabled {
			return
		}
		name, _ := f.Attr("name")

		switch goquery.NodeName(f) {
		case "textarea":
			values.Add(name, f.Text())
		case "select":
			opt := f.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = f.Find("option").First()
			}
			if opt.Length() == 0 {
				return
			}
			v, ok := opt.Attr("value")
			if !ok {
				v = strings.TrimSpace(opt.Text())
			}
			values.Add(name, v)
		default:
			t, _ := f.Attr("type")
			switch strings.ToLower(t) {
			case "checkbox", "radio":
				if _, checked := f.Attr("checked"); checked {
					v, ok := f.Attr("value")
					if !ok {
						v = "on"
					}
					values.Add(name, v)
				}
			case "submit", "button", "image", "reset", "file":
			default:
				v, _ := f.Attr("value")
				values.Add(name, v)
			}
		}
	})
	return values
}
