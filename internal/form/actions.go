// internal/form/actions.go
//
// Forms subsystem: post-submit actions.
//
// Context
//   A FormDef may list actions.  ExecuteActions runs them after a submit
//   moved the widget to SubmittedValid.  Every run gets a fresh submission
//   UUID so log lines about one submission can be joined.  Values leave the
//   form package only after bluemonday’s strict policy stripped any markup.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/yanizio/adept-contact/internal/logger"
	"github.com/yanizio/adept-contact/internal/message"
	"github.com/yanizio/adept-contact/internal/requestinfo"
)

var strict = bluemonday.StrictPolicy()

// ExecuteActions performs all declared actions for a valid widget and
// returns the submission ID.  Errors are logged, not returned, so the user
// still sees the confirmation view.
func ExecuteActions(ctx context.Context, w *Widget) string {
	id := uuid.NewString()
	fd := w.Def()
	log := logger.FromContext(ctx).With("form", fd.ID, "submission", id)

	if ri := requestinfo.FromContext(ctx); ri != nil {
		log.Infow("form submitted",
			"browser", ri.UA.Browser,
			"device", ri.UA.Device,
			"bot", ri.UA.IsBot,
			"country", ri.Geo.CountryISO,
		)
	} else {
		log.Infow("form submitted")
	}

	clean := Sanitized(w)
	for _, ac := range fd.Actions {
		switch ac.Type {
		case "notify":
			if err := runNotify(ctx, id, fd, ac.Params, clean); err != nil {
				log.Errorw("form action failed", "action", ac.Type, "err", err)
			}
		default:
			log.Warnw("form action skipped", "action", ac.Type, "warning", "unsupported action")
		}
	}
	return id
}

// Sanitized returns the widget values keyed by summary label with all
// markup removed.  Empty optional fields are dropped.
func Sanitized(w *Widget) map[string]string {
	out := make(map[string]string, len(w.def.Fields))
	for _, f := range w.def.Fields {
		val := w.state.Values[f.Name]
		if val == "" && !f.Required {
			continue
		}
		out[f.SummaryLabel()] = strict.Sanitize(val)
	}
	return out
}

// -----------------------------------------------------------------------------
// Notify action
// -----------------------------------------------------------------------------

func runNotify(ctx context.Context, id string, fd *FormDef, p map[string]any, data map[string]string) error {
	subject, _ := p["subject"].(string)
	if subject == "" {
		subject = fmt.Sprintf("Form submission: %s", fd.Title)
	}
	return message.Enqueue(ctx, message.Notification{
		ID:      id,
		FormID:  fd.ID,
		Subject: subject,
		Fields:  data,
	})
}
