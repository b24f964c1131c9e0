// The renfrewriverc TUI is a thin protocol inspector: it lets an
// operator type a tagged-union command line and see the raw response
// envelope renfrewriverd sends back. Grounded on debugger/tui.go's
// Flex/Pages layout and command-input wiring, collapsed from a
// multi-panel register/memory/disassembly debugger down to a single
// scrolling transcript plus a command line, since there is no running
// machine state to visualize here, only request/response traffic.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// tui is the text user interface for the protocol inspector.
type tui struct {
	client *client

	App        *tview.Application
	Pages      *tview.Pages
	MainLayout *tview.Flex

	TranscriptView *tview.TextView
	CommandInput   *tview.InputField
}

func newTUI(c *client) *tui {
	t := &tui{
		client: c,
		App:    tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *tui) initializeViews() {
	t.TranscriptView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.TranscriptView.SetBorder(true).SetTitle(" Transcript ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command (tag [json body]) ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *tui) buildLayout() {
	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.TranscriptView, 0, 4, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

func (t *tui) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.TranscriptView.Clear()
			return nil
		}
		return event
	})
}

func (t *tui) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	if strings.TrimSpace(line) == "" {
		return
	}

	envelope, err := buildEnvelope(line)
	if err != nil {
		t.writeLine(fmt.Sprintf("[red]malformed command:[white] %v\n", err))
		return
	}
	t.writeLine(fmt.Sprintf("[yellow]>> %s[white]\n", envelope))

	resp, err := t.client.send(envelope)
	if err != nil {
		t.writeLine(fmt.Sprintf("[red]transport error:[white] %v\n", err))
		return
	}
	t.writeLine(fmt.Sprintf("[green]<< %s[white]\n\n", prettyJSON(resp)))
}

// buildEnvelope parses an operator's "Tag {json body}" line into a
// single-key tagged-union envelope. A tag with no body is sent with an
// empty object body.
func buildEnvelope(line string) ([]byte, error) {
	tag, body, _ := strings.Cut(strings.TrimSpace(line), " ")
	body = strings.TrimSpace(body)
	if body == "" {
		body = "{}"
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}

	return json.Marshal(map[string]json.RawMessage{tag: raw})
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func (t *tui) writeLine(s string) {
	_, _ = t.TranscriptView.Write([]byte(s))
	t.TranscriptView.ScrollToEnd()
}

func (t *tui) run() error {
	t.writeLine("[green]renfrewriverc[white] connected\n")
	t.writeLine("Type a command tag and optional json body, e.g. GetModeInfo or EnterMode {\"mode\":\"DefineRules\"}\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}
