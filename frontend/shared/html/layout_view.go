package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"partelog/infrastructure/cache"
)

// Layout wraps a page body in the shared document shell. The CSRF injector
// runs on every page so plain HTML forms keep working.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<!doctype html><html lang=\"es\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>",
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, CSRFFormScript()+"</body></html>")
		return err
	})
}

// FlashList renders drained notices at the top of a page. Severity maps to a
// CSS class (flash-success, flash-warning, flash-error).
func FlashList(notices []cache.Notice) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(notices) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, "<div class=\"flashes\">"); err != nil {
			return err
		}
		for _, n := range notices {
			if _, err := fmt.Fprintf(w,
				"<div class=\"flash flash-%s\"><strong>%s</strong> %s</div>",
				templ.EscapeString(n.Severity),
				templ.EscapeString(n.Title),
				templ.EscapeString(n.Body)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

// Raw emits pre-built markup unchanged. Callers escape dynamic values
// themselves.
func Raw(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}
