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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/evcs-platform/evcs-smoke/cmd/logger"
	"github.com/evcs-platform/evcs-smoke/internal"
	"github.com/evcs-platform/evcs-smoke/internal/util"
	"github.com/spf13/viper"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	baseURL    string
	username   string
	password   string
	tenant     string
	timeout    string
	menuLimit  int
	probeNames []string
	failFast   bool
	output     string
	showToken  bool

	// v holds flag bindings; config.ConfigParser layers file and env on top.
	v = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "evcs-smoke",
	Short:         "smoke checks for the EVCS admin backend",
	Long:          "evcs-smoke logs in to an EVCS admin backend and calls its read-only\nrole, menu and dashboard endpoints, printing what each one returned.",
	Version:       internal.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Underline, NoExtraNewlines: true,
		Commands: cc.HiYellow,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Logger.Sync()

	if err != nil {
		util.FailPretty("%s", err)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("evcs-smoke:\nversion %s\ndate: %s\n", internal.Version, internal.Date))

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./evcs-smoke.yaml or $HOME/.evcs-smoke/evcs-smoke.yaml)")
	flags.StringVar(&baseURL, "base-url", "", "backend base URL (default http://localhost:8080)")
	flags.StringVarP(&username, "username", "u", "", "login username (default admin)")
	flags.StringVarP(&password, "password", "p", "", "login password")
	flags.StringVarP(&tenant, "tenant", "t", "", "tenant code (default SYSTEM)")
	flags.StringVar(&timeout, "timeout", "", "per request timeout, 0 disables it (default 30s)")
	flags.MarkHidden("password")

	for key, flag := range map[string]string{
		"base_url": "base-url",
		"username": "username",
		"password": "password",
		"tenant":   "tenant",
		"timeout":  "timeout",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to bind flag %s: %v\n", flag, err)
			os.Exit(1)
		}
	}
}
