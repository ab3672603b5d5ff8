// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"github.com/spf13/cobra"

	"github.com/curioloop/localmin/internal/config"
	"github.com/curioloop/localmin/objective"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin objectives",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, name := range objective.Names() {
		doc, defaults, _ := objective.Describe(name)
		keys := make([]string, 0, len(defaults))
		for k := range defaults {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return natsort.Compare(keys[i], keys[j]) })
		params := make([]string, len(keys))
		for i, k := range keys {
			params[i] = fmt.Sprintf("%s=%g", k, defaults[k])
		}
		fmt.Fprintf(w, "%-12s %-40s %s\n", name, doc, strings.Join(params, " "))
	}
	fmt.Fprintf(w, "%-12s %-40s\n", config.CommandObjective, "external program, point appended to argv")
	return nil
}
