// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sqlproof

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqlproof",
	Short: "Prove and verify SQL query results against committed columnar data.",
	Long:  `A prover/verifier toolbox for the verifiable SQL query engine's proof-plan execution layer.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("transcript-tag", "sxt-proof-of-sql/v1", "domain-separation tag seeding the Fiat-Shamir transcript")
	rootCmd.PersistentFlags().String("commitment-tag", "sxt-proof-of-sql/pedersen", "domain-separation tag for the Pedersen commitment basis")
}

func transcriptTag(cmd *cobra.Command) string {
	tag, err := cmd.Flags().GetString("transcript-tag")
	if err != nil {
		log.WithError(err).Fatal("reading transcript-tag flag")
	}

	return tag
}

func commitmentTag(cmd *cobra.Command) string {
	tag, err := cmd.Flags().GetString("commitment-tag")
	if err != nil {
		log.WithError(err).Fatal("reading commitment-tag flag")
	}

	return tag
}
