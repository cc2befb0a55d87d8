package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/weiihann/kernbench/config"
	"github.com/weiihann/kernbench/harness"
	"github.com/weiihann/kernbench/suite"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List benchmarks and their backends",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return listBenchmarks(os.Stdout)
		},
	}
}

func listBenchmarks(w io.Writer) error {
	plan, err := suite.Build(config.Default(), nil)
	if err != nil {
		return err
	}

	fmt.Fprint(w, benchmarkTree(plan).String())

	return nil
}

func benchmarkTree(plan []suite.Planned) treeprint.Tree {
	tree := treeprint.NewWithRoot("kernbench")

	for _, p := range plan {
		b := p.Benchmark
		branch := tree.AddBranch(fmt.Sprintf("%s: %s", b.Name(), p.Description))

		for _, name := range b.BackendNames() {
			role := harness.Accelerated
			if name == b.Baseline() {
				role = harness.Baseline
			}

			branch.AddNode(fmt.Sprintf("%s (%s, %d trials)", name, role, p.Trials[name]))
		}
	}

	return tree
}
