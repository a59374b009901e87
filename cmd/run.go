/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evcs-platform/evcs-smoke/cmd/logger"
	"github.com/evcs-platform/evcs-smoke/internal/probe"
	"github.com/spf13/cobra"
)

var errChecksFailed = errors.New("one or more API checks failed")

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "log in and run the API checks",
	Example: "  evcs-smoke run\n" +
		"  evcs-smoke run --probe roles --probe menus\n" +
		"  evcs-smoke run --fail-fast --output json",

	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := probe.ParseOutput(output)
		if err != nil {
			return err
		}
		probes, err := probe.Select(probeNames)
		if err != nil {
			return err
		}

		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		// structured output must stay parseable, so the streamed lines are dropped
		var stream io.Writer = os.Stdout
		if format != probe.OutputText {
			stream = io.Discard
		}

		runner := probe.NewRunner(s.client, stream, logger.Logger, probe.Options{
			RunID:     s.runID,
			MenuLimit: s.cfg.MenuLimit,
			FailFast:  failFast,
			Probes:    probes,
		})

		report, loginErr := runner.Run(cmd.Context(), s.cfg.Credentials())
		if err := report.Write(os.Stdout, format); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if loginErr != nil {
			return fmt.Errorf("could not log in to %s: %w", s.cfg.BaseURL, loginErr)
		}
		if !report.OK() {
			return errChecksFailed
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&probeNames, "probe", nil, "probes to run: "+strings.Join(probe.Names(), ", ")+" (default all)")
	runCmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop after the first failing probe")
	runCmd.Flags().StringVarP(&output, "output", "o", probe.OutputText, "output format: text, json or yaml")
	runCmd.Flags().IntVar(&menuLimit, "menu-limit", 0, "menu items to print, 0 prints all (default 5)")
	v.BindPFlag("menu_limit", runCmd.Flags().Lookup("menu-limit"))

	runCmd.RegisterFlagCompletionFunc("probe", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return probe.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(runCmd)
}
