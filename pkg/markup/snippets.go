package markup

import "encoding/base64"

// BusyLabel renders the spinner plus label shown on a submit button while a
// request is in flight.
func BusyLabel(r Renderer, label string) (string, error) {
	return render(r, TemplateBusyLabel, map[string]any{"label": label})
}

// Alert renders the body of a notification. message must already be
// sanitised; it is inserted as markup.
func Alert(r Renderer, message, closeLabel string) (string, error) {
	return render(r, TemplateAlert, map[string]any{
		"message":     message,
		"close_label": closeLabel,
	})
}

// ImagePlaceholderURL renders the placeholder SVG as a base64 data URL.
func ImagePlaceholderURL(r Renderer, label string) (string, error) {
	svg, err := render(r, TemplateImagePlaceholder, map[string]any{"label": label})
	if err != nil {
		return "", err
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)), nil
}

func render(r Renderer, name string, data map[string]any) (string, error) {
	if r == nil {
		r = Default()
	}
	return r.RenderTemplate(name, data)
}
