package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	goerrors "github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/game"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/storage"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

const ReasonDefault = "default"

// reasons maps each rejection to the key its message template is stored
// under. The first match wins.
var reasons = []struct {
	err    error
	reason string
}{
	{inventory.ErrIndexOutOfRange, "index_out_of_range"},
	{inventory.ErrSourceEmpty, "source_empty"},
	{inventory.ErrUnknownItem, "unknown_item"},
	{inventory.ErrEquipIncompatible, "equip_incompatible"},
	{inventory.ErrStackFull, "stack_full"},
	{inventory.ErrNoRoomForDisplaced, "no_room_for_displaced"},
	{game.ErrSourceNotFound, "source_not_found"},
	{loot.ErrSourceUnavailable, "source_unavailable"},
	{game.ErrNothingAwarded, "nothing_awarded"},
	{game.ErrActorNotFound, "actor_not_found"},
}

// DefaultRejectionTemplates are used for every reason the configuration
// does not override.
var DefaultRejectionTemplates = map[string]string{
	"index_out_of_range":    "That slot does not exist.",
	"source_empty":          "There is nothing there to move.",
	"unknown_item":          "You cannot do anything with that.",
	"equip_incompatible":    "That cannot be worn there.",
	"stack_full":            "That stack cannot hold any more.",
	"no_room_for_displaced": "You have no room for what you would take off.",
	"source_not_found":      "There is nothing like that to loot.",
	"source_unavailable":    "Someone got there first.",
	"nothing_awarded":       "You find nothing of value.",
	"actor_not_found":       "You are not in the world.",
	ReasonDefault:           "Unable to do that: {{ .Error | trimSuffix \".\" }}.",
}

// ReasonFor returns the template key for err.
func ReasonFor(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonDefault
}

// Rejection is published to an actor when one of its requests fails.
type Rejection struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// rejectionData is what rejection templates can reference.
type rejectionData struct {
	Actor  storage.Identifier
	Reason string
	Error  string
}

// RejectionNotifier renders rejections from templates and publishes them to
// the actor's rejected subject. It satisfies game.Notifier.
type RejectionNotifier struct {
	pub       Publisher
	templates map[string]*template.Template
}

// NewRejectionNotifier parses overrides on top of DefaultRejectionTemplates.
func NewRejectionNotifier(pub Publisher, overrides map[string]string) (*RejectionNotifier, error) {
	all := maps.Clone(DefaultRejectionTemplates)
	maps.Copy(all, overrides)

	parsed, err := ParseRejectionTemplates(all)
	if err != nil {
		return nil, err
	}
	return &RejectionNotifier{pub: pub, templates: parsed}, nil
}

// ParseRejectionTemplates parses every template and reports all that fail.
func ParseRejectionTemplates(raw map[string]string) (map[string]*template.Template, error) {
	el := goerrors.NewErrorList()
	parsed := make(map[string]*template.Template, len(raw))

	for reason, text := range raw {
		tmpl, err := template.New(reason).Funcs(templateFuncs).Parse(text)
		if err != nil {
			el.Add(fmt.Errorf("template %q: %w", reason, err))
			continue
		}
		parsed[reason] = tmpl
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Render returns the message for a rejection of actorId with err.
func (n *RejectionNotifier) Render(actorId storage.Identifier, err error) Rejection {
	reason := ReasonFor(err)
	tmpl, ok := n.templates[reason]
	if !ok {
		tmpl = n.templates[ReasonDefault]
	}

	if tmpl == nil {
		return Rejection{Reason: reason, Message: err.Error()}
	}

	var buf bytes.Buffer
	data := rejectionData{Actor: actorId, Reason: reason, Error: err.Error()}
	if terr := tmpl.Execute(&buf, data); terr != nil {
		slog.Warn("unable to render rejection", "reason", reason, "error", terr)
		return Rejection{Reason: reason, Message: err.Error()}
	}
	return Rejection{Reason: reason, Message: buf.String()}
}

func (n *RejectionNotifier) NotifyRejected(ctx context.Context, actorId storage.Identifier, err error) {
	data, jerr := json.Marshal(n.Render(actorId, err))
	if jerr != nil {
		slog.ErrorContext(ctx, "unable to encode rejection", "actor", actorId, "error", jerr)
		return
	}

	subject := ActorSubject(actorId, "rejected")
	if perr := n.pub.Publish(subject, data); perr != nil {
		slog.WarnContext(ctx, "unable to publish rejection", "subject", subject, "error", perr)
	}
}
