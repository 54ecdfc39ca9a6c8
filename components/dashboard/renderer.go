package dashboard

import (
	"errors"
	"fmt"
	"io"
)

var errNilRenderer = errors.New("dashboard: renderer is nil")

// ChromeTemplate is the template used to render an item's chrome.
const ChromeTemplate = "dashboard_item"

// Renderer describes the template renderer contract needed by RenderChrome.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RenderChrome renders chrome through the dashboard item template.
func RenderChrome(renderer Renderer, chrome Chrome, out ...io.Writer) (string, error) {
	if renderer == nil {
		return "", errNilRenderer
	}
	html, err := renderer.Render(ChromeTemplate, map[string]any{"item": chrome}, out...)
	if err != nil {
		return "", fmt.Errorf("dashboard: render item %d chrome: %w", chrome.ItemID, err)
	}
	return html, nil
}
