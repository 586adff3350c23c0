// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command piishield-allowlist edits the allow-list of known dummy values.
// Values are normalized and hashed before they are stored.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"piishield/internal/detector"
	"piishield/internal/paths"
	"piishield/internal/suppressions"
	"piishield/internal/validators"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var file string
	now := time.Now

	load := func() (*suppressions.SuppressionManager, error) {
		path := paths.NormalizePath(file)
		if path == "" {
			path = paths.GetAllowlistFile()
		}
		return suppressions.NewSuppressionManager(path)
	}

	root := &cobra.Command{
		Use:           "piishield-allowlist",
		Short:         "Manage the allow-list of values that are never redacted",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&file, "file", "", "Allow-list file (default: allowlist.yaml in the config directory)")

	var reason, createdBy string
	var ttl time.Duration
	add := &cobra.Command{
		Use:   "add CATEGORY [VALUE|-]",
		Short: "Allow a value; reads it from stdin when VALUE is - or missing",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, normalized, err := normalize(args, stdin)
			if err != nil {
				return err
			}
			sm, err := load()
			if err != nil {
				return err
			}
			var expires *time.Time
			if ttl > 0 {
				t := now().Add(ttl).UTC()
				expires = &t
			}
			rule, err := sm.AddSuppression(cat, normalized, reason, createdBy, now(), expires)
			if err != nil {
				return err
			}
			if err := sm.Save(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Added %s (%s, hash %s)\n", rule.ID, rule.Category, rule.Hash[:12])
			return nil
		},
	}
	add.Flags().StringVar(&reason, "reason", "", "Why the value is safe")
	add.Flags().StringVar(&createdBy, "created-by", os.Getenv("USER"), "Who added the rule")
	add.Flags().DurationVar(&ttl, "expires-in", 0, "Expire the rule after this duration")

	hash := &cobra.Command{
		Use:   "hash CATEGORY [VALUE|-]",
		Short: "Print the rule hash of a value without storing it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, normalized, err := normalize(args, stdin)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, suppressions.HashValue(cat, normalized))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			listRules(stdout, sm, now())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			if err := sm.RemoveSuppression(args[0]); err != nil {
				return err
			}
			if err := sm.Save(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Removed %s\n", args[0])
			return nil
		},
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			removed := sm.CleanupExpired(now())
			if err := sm.Save(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Cleaned up %d expired rules\n", removed)
			return nil
		},
	}

	root.AddCommand(add, hash, list, remove, cleanup)
	return root
}

// normalize parses the category and canonicalizes the value the same way the
// validators do before hashing
func normalize(args []string, stdin io.Reader) (detector.Category, string, error) {
	cat, err := detector.ParseCategory(args[0])
	if err != nil {
		return 0, "", err
	}

	var value string
	if len(args) == 2 && args[1] != "-" {
		value = args[1]
	} else {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, "", fmt.Errorf("reading value: %w", err)
		}
		value = line
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, "", fmt.Errorf("value cannot be empty")
	}

	normalized := validators.Validate(cat, value).Normalized
	if normalized == "" {
		normalized = value
	}
	return cat, normalized, nil
}

func listRules(w io.Writer, sm *suppressions.SuppressionManager, now time.Time) {
	rules := sm.ListSuppressions()
	if len(rules) == 0 {
		fmt.Fprintln(w, "No allow-list rules found.")
		return
	}

	fmt.Fprintf(w, "Found %d allow-list rules:\n\n", len(rules))
	for _, rule := range rules {
		fmt.Fprintf(w, "ID: %s\n", rule.ID)
		fmt.Fprintf(w, "Category: %s\n", rule.Category)
		fmt.Fprintf(w, "Hash: %s\n", rule.Hash)
		fmt.Fprintf(w, "Reason: %s\n", rule.Reason)
		if rule.CreatedBy != "" {
			fmt.Fprintf(w, "Created By: %s\n", rule.CreatedBy)
		}
		fmt.Fprintf(w, "Created At: %s\n", rule.CreatedAt.Format("2006-01-02 15:04:05"))
		if rule.ExpiresAt != nil {
			status := ""
			if rule.Expired(now) {
				status = " (expired)"
			}
			fmt.Fprintf(w, "Expires At: %s%s\n", rule.ExpiresAt.Format("2006-01-02 15:04:05"), status)
		}
		if !rule.Enabled {
			fmt.Fprintln(w, "Disabled")
		}
		fmt.Fprintln(w, "---")
	}
}
