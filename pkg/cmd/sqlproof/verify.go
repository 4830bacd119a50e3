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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/queryresult"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof against a set of published column commitments.",
	Long:  `Reads a commitments fixture (schema, row count, and per-column commitments, plus the plan being checked) and a serialised proof, and reports acceptance or rejection.`,
	Run: func(cmd *cobra.Command, args []string) {
		commitmentsPath := mustGetString(cmd, "commitments")
		proofPath := mustGetString(cmd, "proof")

		log.WithFields(log.Fields{"commitments": commitmentsPath, "proof": proofPath}).Info("loading fixtures")

		engine := commitment.NewPedersenEngine(commitmentTag(cmd))

		accessor, plan, err := LoadCommitments(commitmentsPath, engine)
		if err != nil {
			fail("loading commitments", err)
		}

		wire, err := os.ReadFile(proofPath)
		if err != nil {
			log.WithError(err).Fatal("reading proof file")
		}

		vqr, err := queryresult.Deserialize(wire)
		if err != nil {
			fail("deserialising proof", err)
		}

		log.Info("verifying")

		result, err := vqr.Verify(transcriptTag(cmd), plan, accessor)
		if err != nil {
			fail("verifying", err)
		}

		log.WithField("rows", result.NumRows()).Info("proof accepted")
		fmt.Printf("accepted: %d rows, %d columns\n", result.NumRows(), result.NumColumns())
		printResult(result)
	},
}

// printResult writes result's rows to stdout, column-major header then one
// row per line, rendering each value with Column.StringAt (Decimal75's
// scale-aware decimal notation included).
func printResult(result database.OwnedTable) {
	names := result.ColumnNames()
	for i, name := range names {
		if i > 0 {
			fmt.Print("\t")
		}

		fmt.Print(name.Name())
	}

	fmt.Println()

	for row := 0; row < result.NumRows(); row++ {
		for i := 0; i < result.NumColumns(); i++ {
			if i > 0 {
				fmt.Print("\t")
			}

			fmt.Print(result.ColumnAt(i).StringAt(row))
		}

		fmt.Println()
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("commitments", "", "path to the commitments fixture (JSON)")
	verifyCmd.Flags().String("proof", "", "path to the serialised proof (binary)")

	for _, flag := range []string{"commitments", "proof"} {
		if err := verifyCmd.MarkFlagRequired(flag); err != nil {
			log.WithError(err).Fatal("registering required flag")
		}
	}
}
