// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
	"text/template/parse"
)

// Delimiters that cannot collide with Java braces.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

const (
	SlotSettingsManagers     Slot = "SettingsManagers"
	SlotSettingsManager      Slot = "SettingsManager"
	SlotRuleAnnotation       Slot = "RuleAnnotation"
	SlotSettingsClasses      Slot = "SettingsClasses"
	SlotSettingsManagerClass Slot = "SettingsManagerClass"
	SlotAccessorTarget       Slot = "AccessorTarget"
	SlotAccessorField        Slot = "AccessorField"
)

type (
	// Slot names a value substituted into a template.
	Slot string

	// Values maps slots to their rendered text.
	Values map[Slot]string

	// Template is a parsed source template together with the slots it uses.
	Template struct {
		name  string
		tmpl  *template.Template
		slots []Slot
	}

	// MissingSlotError is returned by Render when a slot used by the template
	// has no value.
	MissingSlotError struct {
		Template string
		Slot     Slot
	}

	// UndeclaredSlotError is returned by Require when a template does not use
	// a slot its caller depends on.
	UndeclaredSlotError struct {
		Template string
		Slot     Slot
	}
)

// Error implements the error interface.
func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("template %s: no value for slot %s", e.Template, e.Slot)
}

// Error implements the error interface.
func (e *UndeclaredSlotError) Error() string {
	return fmt.Sprintf("template %s does not declare slot %s", e.Template, e.Slot)
}

// ParseTemplate parses text and records the slots it references.
func ParseTemplate(name, text string) (*Template, error) {
	tmpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	var slots []Slot
	if tmpl.Tree != nil {
		collectSlots(tmpl.Tree.Root, &slots)
	}
	slices.Sort(slots)
	return &Template{name: name, tmpl: tmpl, slots: slices.Compact(slots)}, nil
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Require returns an *UndeclaredSlotError for the first slot the template
// does not reference.
func (t *Template) Require(slots ...Slot) error {
	for _, s := range slots {
		if !slices.Contains(t.slots, s) {
			return &UndeclaredSlotError{Template: t.name, Slot: s}
		}
	}
	return nil
}

// Render substitutes values into the template. Every referenced slot must
// have a value; extra values are ignored.
func (t *Template) Render(values Values) (string, error) {
	data := make(map[string]string, len(values))
	for _, s := range t.slots {
		v, ok := values[s]
		if !ok {
			return "", &MissingSlotError{Template: t.name, Slot: s}
		}
		data[string(s)] = v
	}

	var b strings.Builder
	if err := t.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.name, err)
	}
	return b.String(), nil
}

func collectSlots(node parse.Node, slots *[]Slot) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectSlots(child, slots)
		}
	case *parse.ActionNode:
		collectSlots(n.Pipe, slots)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			collectSlots(cmd, slots)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			collectSlots(arg, slots)
		}
	case *parse.FieldNode:
		if len(n.Ident) > 0 {
			*slots = append(*slots, Slot(n.Ident[0]))
		}
	case *parse.IfNode:
		collectBranch(&n.BranchNode, slots)
	case *parse.RangeNode:
		collectBranch(&n.BranchNode, slots)
	case *parse.WithNode:
		collectBranch(&n.BranchNode, slots)
	}
}

func collectBranch(n *parse.BranchNode, slots *[]Slot) {
	collectSlots(n.Pipe, slots)
	collectSlots(n.List, slots)
	if n.ElseList != nil {
		collectSlots(n.ElseList, slots)
	}
}
