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

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/queryresult"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove that a plan, evaluated over a table, produces its declared result.",
	Long:  `Reads a table and a plan fixture, runs the two-round prover protocol, and writes a serialised VerifiableQueryResult.`,
	Run: func(cmd *cobra.Command, args []string) {
		tablePath := mustGetString(cmd, "table")
		planPath := mustGetString(cmd, "plan")
		outPath := mustGetString(cmd, "out")

		log.WithFields(log.Fields{"table": tablePath, "plan": planPath}).Info("loading fixtures")

		table, _, tbl, err := LoadTable(tablePath)
		if err != nil {
			fail("loading table", err)
		}

		plan, err := LoadPlan(planPath)
		if err != nil {
			fail("loading plan", err)
		}

		engine := commitment.NewPedersenEngine(commitmentTag(cmd))

		accessor, err := database.NewOwnedTableAccessor(table, tbl, 0, engine)
		if err != nil {
			fail("building accessor", err)
		}

		log.WithField("rows", tbl.NumRows()).Info("proving")

		vqr, err := queryresult.Prove(transcriptTag(cmd), plan, accessor)
		if err != nil {
			fail("proving", err)
		}

		wire, err := vqr.Serialize()
		if err != nil {
			fail("serialising proof", err)
		}

		if err := os.WriteFile(outPath, wire, 0o644); err != nil {
			log.WithError(err).Fatal("writing proof file")
		}

		log.WithFields(log.Fields{"out": outPath, "bytes": len(wire), "result_rows": vqr.RowCount}).Info("prove complete")
	},
}

func fail(stage string, err error) {
	if pe, ok := err.(*prooferr.Error); ok {
		log.WithFields(log.Fields{"stage": stage, "kind": pe.Kind}).Error(pe.Detail())
	} else {
		log.WithField("stage", stage).Error(err)
	}

	os.Exit(1)
}

func mustGetString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		log.WithError(err).Fatalf("reading --%s flag", flag)
	}

	return v
}

func init() {
	rootCmd.AddCommand(proveCmd)

	proveCmd.Flags().String("table", "", "path to the table fixture (JSON)")
	proveCmd.Flags().String("plan", "", "path to the plan fixture (JSON)")
	proveCmd.Flags().String("out", "", "path to write the serialised proof (binary)")

	for _, flag := range []string{"table", "plan", "out"} {
		if err := proveCmd.MarkFlagRequired(flag); err != nil {
			log.WithError(err).Fatal("registering required flag")
		}
	}
}
