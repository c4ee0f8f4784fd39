package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/strictscript/strict"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	registry    *strict.Registry
	objects     map[string]*strict.Object
	identity    strict.Caller
	classFile   string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(classFile string) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "new acct Account ..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "strict> "

	registry := strict.NewRegistry()
	if classFile != "" {
		loaded, err := loadDeclFile(classFile)
		if err != nil {
			return replModel{}, err
		}
		registry = loaded
	}

	return replModel{
		textInput:  ti,
		registry:   registry,
		objects:    make(map[string]*strict.Object),
		classFile:  classFile,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case reloadMsg:
		m = m.reload()
		return m, nil

	case watchErrMsg:
		m.history = append(m.history, historyEntry{
			output: "watch error: " + msg.err.Error(),
			isErr:  true,
		})
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				m.cmdHistory = append(m.cmdHistory, input)
				return m, cmd
			}

			output, isErr := m.execute(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) reload() replModel {
	if m.classFile == "" {
		return m
	}
	registry, err := loadDeclFile(m.classFile)
	if err != nil {
		m.history = append(m.history, historyEntry{
			output: "reload failed: " + err.Error(),
			isErr:  true,
		})
		return m
	}
	m.registry = registry
	// Instances built against the previous registry are stale.
	m.objects = make(map[string]*strict.Object)
	m.history = append(m.history, historyEntry{
		output: fmt.Sprintf("reloaded %d classes from %s", len(registry.ClassNames()), m.classFile),
	})
	return m
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":classes":
		m.history = append(m.history, historyEntry{
			input:  input,
			output: m.renderClasses(),
		})
	case ":schema":
		if len(parts) != 2 {
			m.history = append(m.history, historyEntry{
				input: input, output: "usage: :schema <Class>", isErr: true,
			})
			break
		}
		output, isErr := m.renderSchema(parts[1])
		m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	case ":as":
		if len(parts) != 2 {
			m.history = append(m.history, historyEntry{
				input: input, output: "usage: :as <Class.method | function | ->", isErr: true,
			})
			break
		}
		m.identity = parseIdentity(parts[1])
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "acting as " + m.identity.String(),
		})
	case ":reset", ":r":
		m.objects = make(map[string]*strict.Object)
		m.identity = strict.Caller{}
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "instances cleared",
		})
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// parseIdentity turns ":as" arguments into a caller. "-" resets to the
// anonymous external caller.
func parseIdentity(arg string) strict.Caller {
	if arg == "-" {
		return strict.Caller{}
	}
	if class, method, ok := strings.Cut(arg, "."); ok {
		return strict.MethodCaller(class, method)
	}
	// A capitalized bare name reads as a class, anything else as a free
	// function.
	if arg != "" && arg[0] >= 'A' && arg[0] <= 'Z' {
		return strict.Caller{Class: arg}
	}
	return strict.FreeFunctionCaller(arg)
}

func (m replModel) execute(input string) (string, bool) {
	fields, err := splitFields(input)
	if err != nil {
		return err.Error(), true
	}
	if len(fields) == 0 {
		return "", false
	}

	switch fields[0] {
	case "new":
		if len(fields) < 3 {
			return "usage: new <var> <Class> [args...]", true
		}
		args, err := m.parseLiterals(fields[3:])
		if err != nil {
			return err.Error(), true
		}
		obj, err := m.registry.NewInstance(m.identity, fields[2], args...)
		if err != nil {
			return err.Error(), true
		}
		m.objects[fields[1]] = obj
		return obj.Describe(), false

	case "get":
		if len(fields) != 3 {
			return "usage: get <var> <attr>", true
		}
		obj, ok := m.objects[fields[1]]
		if !ok {
			return "no instance named " + fields[1], true
		}
		val, err := obj.Get(m.identity, fields[2])
		if err != nil {
			return err.Error(), true
		}
		return strict.FormatValue(val), false

	case "set":
		if len(fields) != 4 {
			return "usage: set <var> <attr> <value>", true
		}
		obj, ok := m.objects[fields[1]]
		if !ok {
			return "no instance named " + fields[1], true
		}
		val, err := m.parseLiteral(fields[3])
		if err != nil {
			return err.Error(), true
		}
		if err := obj.Set(m.identity, fields[2], val); err != nil {
			return err.Error(), true
		}
		return "ok", false

	case "call":
		if len(fields) < 3 {
			return "usage: call <var> <method> [args...]", true
		}
		obj, ok := m.objects[fields[1]]
		if !ok {
			return "no instance named " + fields[1], true
		}
		args, err := m.parseLiterals(fields[3:])
		if err != nil {
			return err.Error(), true
		}
		result, err := obj.Call(m.identity, fields[2], args...)
		if err != nil {
			return err.Error(), true
		}
		return strict.FormatValue(result), false

	case "static":
		if len(fields) < 3 {
			return "usage: static <Class> <method> [args...]", true
		}
		args, err := m.parseLiterals(fields[3:])
		if err != nil {
			return err.Error(), true
		}
		result, err := m.registry.CallStatic(m.identity, fields[1], fields[2], args...)
		if err != nil {
			return err.Error(), true
		}
		return strict.FormatValue(result), false

	default:
		return fmt.Sprintf("unknown verb %q (try :help)", fields[0]), true
	}
}

func (m replModel) parseLiterals(tokens []string) ([]strict.Value, error) {
	values := make([]strict.Value, len(tokens))
	for i, token := range tokens {
		val, err := m.parseLiteral(token)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	return values, nil
}

func (m replModel) parseLiteral(token string) (strict.Value, error) {
	if strings.HasPrefix(token, `"`) {
		unquoted, err := strconv.Unquote(token)
		if err != nil {
			return strict.NewNil(), fmt.Errorf("bad string literal %s", token)
		}
		return strict.NewString(unquoted), nil
	}
	if obj, ok := m.objects[token]; ok {
		return strict.NewInstance(obj), nil
	}
	switch token {
	case "nil":
		return strict.NewNil(), nil
	case "true":
		return strict.NewBool(true), nil
	case "false":
		return strict.NewBool(false), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return strict.NewInt(i), nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return strict.NewFloat(f), nil
	}
	return strict.NewString(token), nil
}

func (m replModel) renderClasses() string {
	names := m.registry.ClassNames()
	if len(names) == 0 {
		return "no classes defined"
	}
	return strings.Join(names, ", ")
}

func (m replModel) renderSchema(className string) (string, bool) {
	schema, err := m.registry.Lookup(className)
	if err != nil {
		return err.Error(), true
	}

	var b strings.Builder
	b.WriteString("class " + schema.Name())
	if parents := schema.Ancestors(); len(parents) > 0 {
		names := make([]string, len(parents))
		for i, parent := range parents {
			names[i] = parent.Name()
		}
		b.WriteString(" < " + strings.Join(names, ", "))
	}
	b.WriteString("\n")

	for _, name := range schema.AttributeNames() {
		attr, _ := schema.Attribute(name)
		line := fmt.Sprintf("  %s %s: %s", attr.Visibility, attr.Name, strict.FormatType(attr.Type))
		if attr.Final {
			line += " (final)"
		}
		if attr.HasDefault {
			line += " = " + strict.FormatValue(attr.Default)
		}
		b.WriteString(line + "\n")
	}

	methods := schema.MethodNames()
	sort.Strings(methods)
	for _, name := range methods {
		method, _ := schema.Method(name)
		params := make([]string, len(method.Params))
		for i, p := range method.Params {
			params[i] = p.Name + ": " + strict.FormatType(p.Type)
		}
		line := fmt.Sprintf("  %s %s(%s): %s",
			method.Visibility, method.Name, strings.Join(params, ", "), strict.FormatType(method.Return))
		if method.Modifiers != 0 {
			line += " [" + method.Modifiers.String() + "]"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("strict inspector")
	identity := mutedStyle.Render("as " + m.identity.String())
	b.WriteString(header + " " + identity + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"new x C ...", "Construct an instance of C into x"},
		{"get x attr", "Read an attribute"},
		{"set x attr v", "Write an attribute"},
		{"call x m ...", "Invoke a method"},
		{"static C m ...", "Invoke a static method"},
		{":classes", "List defined classes"},
		{":schema C", "Show a class schema"},
		{":as ident", "Act as Class.method, a function, or - for anonymous"},
		{":reset", "Drop all instances"},
		{":quit", "Exit"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-15s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(model replModel, watch bool) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	if watch {
		stop, err := watchDeclFile(model.classFile, p.Send)
		if err != nil {
			return err
		}
		defer stop()
	}
	_, err := p.Run()
	return err
}
