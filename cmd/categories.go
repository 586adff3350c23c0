// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"piishield/internal/help"
	"piishield/internal/validators"
)

func newCategoriesCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "categories [CATEGORY]",
		Short: "List the PII categories, or explain one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := help.NewSystem(stdout, !colorEnabled(stdout, opts.noColor))
			for _, info := range validators.NewSet(nil).CheckInfos() {
				h.Register(info)
			}
			if len(args) == 0 {
				h.ShowChecksHelp()
				return nil
			}
			if !h.ShowCheckHelp(args[0]) {
				return &exitError{code: exitUsage, err: fmt.Errorf("unknown category %q", args[0])}
			}
			return nil
		},
	}
}
