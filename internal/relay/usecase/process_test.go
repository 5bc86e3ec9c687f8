package usecase_test

import (
	"context"
	"errors"
	"testing"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser"
	"jira-chat-relay/internal/relay"
	"jira-chat-relay/internal/relay/usecase"
	"jira-chat-relay/pkg/log"
)

type stubParser struct {
	events []string
	msg    *model.Message
	err    error
}

func (p *stubParser) Events() []string { return p.events }

func (p *stubParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	return p.msg, p.err
}

type recordingNotifier struct {
	markups  int
	cards    int
	template string
	entity   []byte
	err      error
}

func (n *recordingNotifier) SendMarkup(ctx context.Context, text, markup string) error {
	n.markups++
	return n.err
}

func (n *recordingNotifier) SendCard(ctx context.Context, template string, entity []byte) error {
	n.cards++
	n.template = template
	n.entity = entity
	return n.err
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("Malformed Payload Is Typed Failure", func(t *testing.T) {
		reg := parser.NewRegistry(nil, nil, log.Nop())
		uc := usecase.New(log.Nop(), reg, &recordingNotifier{})

		_, err := uc.Process(ctx, relay.ProcessInput{Body: []byte("{not json")})
		if !errors.Is(err, relay.ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("Unknown Event Ignored", func(t *testing.T) {
		reg := parser.NewRegistry(nil, nil, log.Nop())
		n := &recordingNotifier{}
		uc := usecase.New(log.Nop(), reg, n)

		out, err := uc.Process(ctx, relay.ProcessInput{Body: []byte(`{"webhookEvent":"sprint_started"}`)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Ignored || out.Delivered {
			t.Errorf("expected ignored, got %+v", out)
		}
		if out.Event != "sprint_started" {
			t.Errorf("event = %q", out.Event)
		}
		if n.markups+n.cards != 0 {
			t.Error("nothing must be sent")
		}
	})

	t.Run("Legacy Message Delivered As Markup", func(t *testing.T) {
		legacy := []parser.Parser{&stubParser{
			events: []string{"issue_created"},
			msg:    &model.Message{Text: "t", Markup: "<b>t</b>"},
		}}
		reg := parser.NewRegistry(legacy, nil, log.Nop())
		n := &recordingNotifier{}
		uc := usecase.New(log.Nop(), reg, n)

		out, err := uc.Process(ctx, relay.ProcessInput{Body: []byte(`{"issue_event_type_name":"issue_created"}`)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Delivered || n.markups != 1 || n.cards != 0 {
			t.Errorf("expected one markup send, got %+v, %+v", out, n)
		}
	})

	t.Run("Metadata Message Delivered As Card", func(t *testing.T) {
		metadata := []parser.Parser{&stubParser{
			events: []string{"issue_created"},
			msg:    &model.Message{Template: "issue_created", Entity: map[string]any{"k": "v"}},
		}}
		reg := parser.NewRegistry(nil, metadata, log.Nop())
		n := &recordingNotifier{}
		uc := usecase.New(log.Nop(), reg, n)
		uc.SetGeneration(model.GenerationMetadata)

		out, err := uc.Process(ctx, relay.ProcessInput{Body: []byte(`{"issue_event_type_name":"issue_created"}`)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Delivered || n.cards != 1 {
			t.Errorf("expected one card send, got %+v, %+v", out, n)
		}
		if n.template != "issue_created" || string(n.entity) != `{"k":"v"}` {
			t.Errorf("unexpected card: %q %s", n.template, n.entity)
		}
	})

	t.Run("Notifier Failure Propagates", func(t *testing.T) {
		legacy := []parser.Parser{&stubParser{
			events: []string{"issue_created"},
			msg:    &model.Message{Text: "t", Markup: "m"},
		}}
		reg := parser.NewRegistry(legacy, nil, log.Nop())
		uc := usecase.New(log.Nop(), reg, &recordingNotifier{err: errors.New("chat down")})

		out, err := uc.Process(ctx, relay.ProcessInput{Body: []byte(`{"issue_event_type_name":"issue_created"}`)})
		if err == nil {
			t.Fatal("expected error")
		}
		if out.Delivered {
			t.Error("must not report delivered on send failure")
		}
	})
}
