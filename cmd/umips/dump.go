package main

import (
	"fmt"
	"maps"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/umips/emulator"
	"github.com/ezrec/umips/internal"
	"github.com/ezrec/umips/machine"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the initial machine state.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defines, _ := cmd.Flags().GetBool("defines")
		if defines {
			values := maps.Collect(machine.Defines())
			for _, name := range internal.SortedDefines(machine.Defines()) {
				fmt.Printf("%-16s %d\n", name, values[name])
			}
			return
		}

		m, _, err := loadMachine(cmd)
		if err != nil {
			return
		}

		err = emulator.DumpState(os.Stdout, m)
		return
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("defines", false, "list the constants predeclared in machine descriptions")
}
