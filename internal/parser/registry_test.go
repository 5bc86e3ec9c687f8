package parser_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser"
	"jira-chat-relay/pkg/log"
)

type stubParser struct {
	events []string
	text   string
}

func (p *stubParser) Events() []string { return p.events }

func (p *stubParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	return &model.Message{Text: p.text}, nil
}

// recordingLogger captures warn lines for assertions.
type recordingLogger struct {
	log.Logger
	mu    sync.Mutex
	warns []string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{Logger: log.Nop()}
}

func (r *recordingLogger) Warnf(ctx context.Context, template string, arg ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(template, arg...))
}

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestDispatch(t *testing.T) {
	legacy := []parser.Parser{
		&stubParser{events: []string{"issue_commented"}, text: "fine"},
		&stubParser{events: []string{"jira:issue_updated"}, text: "coarse"},
	}
	reg := parser.NewRegistry(legacy, nil, log.Nop())

	t.Run("Fine Grained Key Wins", func(t *testing.T) {
		payload := decodePayload(t, `{"webhookEvent":"jira:issue_updated","issue_event_type_name":"issue_commented"}`)
		msg, err := reg.Dispatch(payload).Parse(context.Background(), payload)
		if err != nil || msg == nil || msg.Text != "fine" {
			t.Errorf("expected fine-grained parser, got %v, %v", msg, err)
		}
	})

	t.Run("Coarse Key Fallback", func(t *testing.T) {
		payload := decodePayload(t, `{"webhookEvent":"jira:issue_updated","issue_event_type_name":"issue_moved"}`)
		msg, err := reg.Dispatch(payload).Parse(context.Background(), payload)
		if err != nil || msg == nil || msg.Text != "coarse" {
			t.Errorf("expected coarse parser, got %v, %v", msg, err)
		}
	})

	t.Run("Unknown Event Yields Noop", func(t *testing.T) {
		payload := decodePayload(t, `{"webhookEvent":"sprint_started"}`)
		msg, err := reg.Dispatch(payload).Parse(context.Background(), payload)
		if err != nil {
			t.Errorf("noop must not error: %v", err)
		}
		if msg != nil {
			t.Errorf("noop must yield no message, got %v", msg)
		}
	})

	t.Run("No Event Fields Yields Noop", func(t *testing.T) {
		payload := decodePayload(t, `{"something":"else"}`)
		if msg, err := reg.Dispatch(payload).Parse(context.Background(), payload); err != nil || msg != nil {
			t.Errorf("expected silent noop, got %v, %v", msg, err)
		}
	})
}

func TestDuplicateRegistrationWarns(t *testing.T) {
	l := newRecordingLogger()
	legacy := []parser.Parser{
		&stubParser{events: []string{"issue_commented"}, text: "first"},
		&stubParser{events: []string{"issue_commented"}, text: "second"},
	}
	reg := parser.NewRegistry(legacy, nil, l)

	if len(l.warns) != 1 || !strings.Contains(l.warns[0], "issue_commented") {
		t.Errorf("expected one duplicate warning, got %v", l.warns)
	}

	// Last registered wins.
	payload := decodePayload(t, `{"issue_event_type_name":"issue_commented"}`)
	msg, _ := reg.Dispatch(payload).Parse(context.Background(), payload)
	if msg == nil || msg.Text != "second" {
		t.Errorf("expected last-registered parser, got %v", msg)
	}
}

func TestGenerationSwap(t *testing.T) {
	legacy := []parser.Parser{&stubParser{events: []string{"issue_created"}, text: "legacy"}}
	metadata := []parser.Parser{&stubParser{events: []string{"issue_created"}, text: "metadata"}}
	reg := parser.NewRegistry(legacy, metadata, log.Nop())
	payload := decodePayload(t, `{"issue_event_type_name":"issue_created"}`)

	if reg.Generation() != model.GenerationLegacy {
		t.Fatalf("initial generation must be legacy, got %s", reg.Generation())
	}

	reg.SetGeneration(model.GenerationMetadata)
	msg, _ := reg.Dispatch(payload).Parse(context.Background(), payload)
	if msg == nil || msg.Text != "metadata" {
		t.Errorf("expected metadata parser after swap, got %v", msg)
	}

	reg.SetGeneration(model.GenerationLegacy)
	msg, _ = reg.Dispatch(payload).Parse(context.Background(), payload)
	if msg == nil || msg.Text != "legacy" {
		t.Errorf("expected legacy parser after swap back, got %v", msg)
	}
}

func TestConcurrentDispatchDuringSwap(t *testing.T) {
	legacy := []parser.Parser{&stubParser{events: []string{"issue_created"}, text: "legacy"}}
	metadata := []parser.Parser{&stubParser{events: []string{"issue_created"}, text: "metadata"}}
	reg := parser.NewRegistry(legacy, metadata, log.Nop())
	payload := decodePayload(t, `{"issue_event_type_name":"issue_created"}`)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			reg.SetGeneration(model.GenerationMetadata)
			reg.SetGeneration(model.GenerationLegacy)
		}
		close(stop)
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				msg, err := reg.Dispatch(payload).Parse(context.Background(), payload)
				if err != nil || msg == nil {
					t.Errorf("dispatch during swap failed: %v, %v", msg, err)
					return
				}
				// Either generation is fine; a partial registry is not.
				if msg.Text != "legacy" && msg.Text != "metadata" {
					t.Errorf("inconsistent snapshot observed: %q", msg.Text)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMetadataReload(t *testing.T) {
	metadata := []parser.Parser{&stubParser{events: []string{"issue_created"}, text: "v1"}}
	reg := parser.NewRegistry(nil, metadata, log.Nop())
	reg.SetGeneration(model.GenerationMetadata)
	payload := decodePayload(t, `{"issue_event_type_name":"issue_created"}`)

	reg.SetMetadataParsers([]parser.Parser{&stubParser{events: []string{"issue_created"}, text: "v2"}})
	msg, _ := reg.Dispatch(payload).Parse(context.Background(), payload)
	if msg == nil || msg.Text != "v2" {
		t.Errorf("reload not applied to active generation, got %v", msg)
	}

	// A reload while legacy is active must not disturb the active snapshot.
	reg.SetGeneration(model.GenerationLegacy)
	reg.SetMetadataParsers([]parser.Parser{&stubParser{events: []string{"issue_created"}, text: "v3"}})
	if msg, _ := reg.Dispatch(payload).Parse(context.Background(), payload); msg != nil {
		t.Errorf("legacy generation has no parser for this event, got %v", msg)
	}
}
