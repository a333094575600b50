package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uireg/pkg/registry"
)

const maxWidth = 80

func newInspectCmd(flags *rootFlags) *cobra.Command {
	var showExamples bool

	cmd := &cobra.Command{
		Use:   "inspect <Name|Parent.Member>",
		Short: "Print a component's props, variants and sub-components from the generated registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, _, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			reg, err := registry.LoadFromFile(filepath.Join(root, cfg.OutDir, registry.JSONFile))
			if err != nil {
				return fmt.Errorf("load registry (run uireg first): %w", err)
			}

			name, member, _ := strings.Cut(args[0], ".")
			schema, ok := reg.Lookup(name)
			if !ok {
				return fmt.Errorf("component %q not found", name)
			}
			w := cmd.OutOrStdout()
			if member != "" {
				if schema.SubComponents == nil {
					return fmt.Errorf("%s has no sub-components", name)
				}
				sub, ok := schema.SubComponents.Get(member)
				if !ok {
					return fmt.Errorf("%s has no sub-component %q", name, member)
				}
				printSubComponent(w, name, member, sub, showExamples)
				return nil
			}

			printComponent(w, schema, showExamples)
			if block, ok := reg.Blocks[name]; ok {
				printBlock(w, block)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showExamples, "examples", false, "Include usage examples")
	return cmd
}

// printComponent prints a human-readable component summary.
func printComponent(w io.Writer, schema *registry.ComponentSchema, showExamples bool) {
	fmt.Fprintf(w, "%s  [%s, %s]\n", schema.Name, schema.Category, schema.Kind)

	if schema.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, schema.Description, 0, maxWidth)
	}

	fmt.Fprintln(w)
	printPropsSection(w, "Props", schema.Props)

	fmt.Fprintln(w)
	if schema.SubComponents == nil || schema.SubComponents.Len() == 0 {
		fmt.Fprintln(w, "Sub-components  (none)")
	} else {
		fmt.Fprintln(w, "Sub-components")
		nameWidth := 0
		for pair := schema.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			nameWidth = max(nameWidth, len(pair.Key))
		}
		for pair := schema.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			desc := pair.Value.Description
			if pair.Value.Passthrough {
				desc = strings.TrimSpace(desc + "  (" + pair.Value.Primitive + ")")
			}
			fmt.Fprintf(w, "  %-*s  %s\n", nameWidth, pair.Key, desc)
		}
	}

	if len(schema.Colors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Colors")
		printWrapped(w, strings.Join(schema.Colors, ", "), 2, maxWidth)
	}

	if showExamples {
		printExamples(w, schema.Examples)
	}
}

func printSubComponent(w io.Writer, parent, member string, sub *registry.SubComponentSchema, showExamples bool) {
	header := fmt.Sprintf("%s.%s  (sub-component of %s)", parent, member, parent)
	if sub.Passthrough {
		header += "  [passthrough]"
	}
	fmt.Fprintln(w, header)
	if sub.Primitive != "" {
		fmt.Fprintf(w, "  wraps %s", sub.Primitive)
		if sub.Element != "" {
			fmt.Fprintf(w, ", renders <%s>", sub.Element)
		}
		fmt.Fprintln(w)
	}
	if sub.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, sub.Description, 0, maxWidth)
	}
	fmt.Fprintln(w)
	printPropsSection(w, "Props", sub.Props)
	if showExamples {
		printExamples(w, sub.Examples)
	}
}

func printBlock(w io.Writer, block *registry.BlockSchema) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Files")
	for _, f := range block.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)
	if len(block.Dependencies) == 0 {
		fmt.Fprintln(w, "Dependencies  (none)")
		return
	}
	fmt.Fprintln(w, "Dependencies")
	printWrapped(w, strings.Join(block.Dependencies, ", "), 2, maxWidth)
}

func printExamples(w io.Writer, examples []string) {
	fmt.Fprintln(w)
	if len(examples) == 0 {
		fmt.Fprintln(w, "Examples  (none)")
		return
	}
	fmt.Fprintln(w, "Examples")
	for _, ex := range examples {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
		for _, line := range strings.Split(ex, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props *registry.Props) {
	if props == nil || props.Len() == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}
	fmt.Fprintln(w, title)

	nameW, typeW, defW := len("NAME"), len("TYPE"), len("DEFAULT")
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		nameW = max(nameW, len(pair.Key))
		typeW = max(typeW, len(pair.Value.Type))
		defW = max(defW, len(formatDefault(pair.Value.Default)))
	}

	sepLen := nameW + typeW + 5 + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s\n", nameW, "NAME", typeW, "TYPE", "REQ", defW, "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value
		req := "no"
		if p.Required {
			req = "yes"
		}
		deprecated := ""
		if p.Deprecated {
			deprecated = " [deprecated]"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s%s\n",
			nameW, pair.Key, typeW, p.Type, req, defW, formatDefault(p.Default), deprecated)

		pad := strings.Repeat(" ", nameW)
		if p.Description != "" {
			fmt.Fprintf(w, "  %s  %s\n", pad, p.Description)
		}
		if len(p.Values) > 0 {
			fmt.Fprintf(w, "  %s  values: %s\n", pad, wrapValues(strings.Join(p.Values, " | "), nameW+12))
		}
	}
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case nil:
		return "—"
	case string:
		return fmt.Sprintf("%q", d)
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return string(data)
	}
}

// wrapValues wraps a " | " separated list that would exceed maxWidth.
func wrapValues(values string, indent int) string {
	if indent+len(values) <= maxWidth {
		return values
	}
	parts := strings.Split(values, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case len(line)+len(word)+1 > width && line != prefix:
			fmt.Fprintln(w, line)
			line = prefix + word
		case line == prefix:
			line += word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
