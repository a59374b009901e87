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
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/evcs-platform/evcs-smoke/cmd/logger"
	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/probe"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "check the credentials and show the issued token",

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		runner := probe.NewRunner(s.client, os.Stdout, logger.Logger, probe.Options{RunID: s.runID})
		session, err := runner.Login(cmd.Context(), s.cfg.Credentials())
		if err != nil {
			return fmt.Errorf("could not log in to %s: %w", s.cfg.BaseURL, err)
		}

		ta := table.NewWriter()
		ta.AppendRow(table.Row{"USERNAME", session.Username})
		ta.AppendRow(table.Row{"TENANT ID", session.TenantID})
		ta.AppendRow(table.Row{"RUN ID", s.runID})
		if showToken {
			ta.AppendRow(table.Row{"ACCESS TOKEN", splitLongLines(session.AccessToken, 64)})
		} else {
			ta.AppendRow(table.Row{"TOKEN PREFIX", session.TokenPrefix(probe.TokenPrefixLen) + "..."})
		}

		claims, err := api.TokenClaims(session.AccessToken)
		if err != nil {
			logger.Logger.Debug(err.Error())
		} else {
			if exp, ok := api.ClaimTime(claims, "exp"); ok {
				ta.AppendRow(table.Row{"EXPIRES AT", exp.Format(time.RFC3339)})
				delete(claims, "exp")
			}
			if iat, ok := api.ClaimTime(claims, "iat"); ok {
				ta.AppendRow(table.Row{"ISSUED AT", iat.Format(time.RFC3339)})
				delete(claims, "iat")
			}

			keys := make([]string, 0, len(claims))
			for k := range claims {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				ta.AppendRow(table.Row{"CLAIM " + strings.ToUpper(k), claims[k]})
			}
		}

		ta.SetStyle(table.StyleLight)
		fmt.Printf("%s\n", ta.Render())

		return nil
	},
}

func splitLongLines(b string, maxLength int) string {
	s := ""
	for {
		if len(b) > maxLength {
			s = s + b[0:maxLength] + "\n"
			b = b[maxLength:]
		} else {
			s = s + b
			break
		}
	}

	return s
}

func init() {
	loginCmd.Flags().BoolVar(&showToken, "show-token", false, "print the full access token")

	rootCmd.AddCommand(loginCmd)
}
