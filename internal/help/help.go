// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a PII category check
type CheckInfo struct {
	Name                string             // Category name (e.g., "AADHAAR")
	ShortDescription    string             // Short description for the category list
	DetailedDescription string             // What the check detects and how
	Patterns            []string           // Shapes the matcher looks for
	Validation          []string           // Rules applied by the validator
	Mandatory           bool               // A failed validation rejects the candidate
	Priority            int                // 1 is the most specific
	ConfidenceFactors   []ConfidenceFactor // Scoring weights in effect
	PositiveKeywords    []string           // Keywords that raise the context signal
	Examples            []string           // Sample values
}

// ConfidenceFactor represents a factor that affects confidence scoring
type ConfidenceFactor struct {
	Name        string
	Description string
	Weight      float64
}

// Provider defines the interface for help content providers.
// A provider may describe several categories.
type Provider interface {
	GetCheckInfo() []CheckInfo
}

// System manages help content for the application
type System struct {
	checks map[string]CheckInfo
	out    io.Writer
	colors map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	h := &System{
		checks: make(map[string]CheckInfo),
		out:    out,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgHiGreen, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"positive": color.New(color.FgGreen),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
	if noColor {
		for _, c := range h.colors {
			c.DisableColor()
		}
	}
	return h
}

// RegisterProvider adds every check described by the provider
func (h *System) RegisterProvider(provider Provider) {
	for _, info := range provider.GetCheckInfo() {
		h.Register(info)
	}
}

// Register adds or replaces one check
func (h *System) Register(info CheckInfo) {
	h.checks[strings.ToUpper(info.Name)] = info
}

// Checks returns the registered checks sorted by priority, then name
func (h *System) Checks() []CheckInfo {
	out := make([]CheckInfo, 0, len(h.checks))
	for _, info := range h.checks {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Lookup finds a check by name, case-insensitively
func (h *System) Lookup(name string) (CheckInfo, bool) {
	key := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(name)))
	info, ok := h.checks[key]
	return info, ok
}

// ShowChecksHelp lists every category with its short description
func (h *System) ShowChecksHelp() {
	h.colors["title"].Fprintln(h.out, "PII Categories")
	fmt.Fprintln(h.out, "==============")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CATEGORY\tPRIORITY\tMANDATORY\tDESCRIPTION")
	fmt.Fprintln(w, "  --------\t--------\t---------\t-----------")
	for _, info := range h.Checks() {
		mandatory := "no"
		if info.Mandatory {
			mandatory = "yes"
		}
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n", info.Name, info.Priority, mandatory, info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For details about one category, use:")
	h.colors["example"].Fprintln(h.out, "  piishield categories <CATEGORY>")
}

// ShowCheckHelp displays detailed help for one category
func (h *System) ShowCheckHelp(name string) bool {
	info, ok := h.Lookup(name)
	if !ok {
		h.colors["negative"].Fprintf(h.out, "Error: category '%s' not found.\n", name)
		fmt.Fprintln(h.out, "Use 'piishield categories' to list the available categories.")
		return false
	}

	h.colors["title"].Fprintf(h.out, "%s\n", info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)))
	fmt.Fprintln(h.out)
	if info.DetailedDescription != "" {
		fmt.Fprintln(h.out, info.DetailedDescription)
		fmt.Fprintln(h.out)
	}

	h.list("PATTERNS DETECTED:", info.Patterns)
	h.list("VALIDATION:", info.Validation)

	if len(info.ConfidenceFactors) > 0 {
		h.colors["header"].Fprintln(h.out, "CONFIDENCE SCORING:")
		for _, f := range info.ConfidenceFactors {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintf(h.out, "%s ", f.Name)
			fmt.Fprintf(h.out, "(%.2f): %s\n", f.Weight, f.Description)
		}
		if info.Mandatory {
			h.colors["negative"].Fprintln(h.out, "  A failed validation with no supporting context rejects the candidate.")
		}
		fmt.Fprintln(h.out)
	}

	if len(info.PositiveKeywords) > 0 {
		h.colors["header"].Fprintln(h.out, "CONTEXT KEYWORDS:")
		fmt.Fprint(h.out, "  ")
		h.colors["positive"].Fprintln(h.out, strings.Join(info.PositiveKeywords, ", "))
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}
	return true
}

func (h *System) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	h.colors["header"].Fprintln(h.out, title)
	for _, item := range items {
		fmt.Fprint(h.out, "  - ")
		h.colors["item"].Fprintln(h.out, item)
	}
	fmt.Fprintln(h.out)
}
