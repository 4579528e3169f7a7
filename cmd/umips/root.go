package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ezrec/umips/config"
	"github.com/ezrec/umips/machine"
	"github.com/ezrec/umips/trace"
)

var rootCmd = &cobra.Command{
	Use:   "umips",
	Short: "Address translation and trap dispatch of a simulated MIPS machine.",
	Long: `umips loads a Starlark machine description, then translates ` +
		`addresses through it, dumps its state, or serves it over HTTP. ` +
		`Defaults for --machine, --trace and --port may be set by ` +
		`UMIPS_MACHINE, UMIPS_TRACE and UMIPS_PORT, or in a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("machine", "m", "", "machine description (.star)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every machine event")
	rootCmd.PersistentFlags().String("trace", "", "record machine events to this SQLite database")
}

// flagOrEnv returns a string flag, or the environment variable if the flag
// was not given.
func flagOrEnv(cmd *cobra.Command, name string, env string) (value string) {
	value, _ = cmd.Flags().GetString(name)
	if !cmd.Flags().Changed(name) {
		if setting, ok := os.LookupEnv(env); ok {
			value = setting
		}
	}
	return
}

func intFlagOrEnv(cmd *cobra.Command, name string, env string) (value int, err error) {
	value, _ = cmd.Flags().GetInt(name)
	if !cmd.Flags().Changed(name) {
		if setting, ok := os.LookupEnv(env); ok {
			value, err = strconv.Atoi(setting)
		}
	}
	return
}

// kernel is a trap handler that reports each trap and carries on.
type kernel struct {
	status machine.Status
	traps  int
	last   machine.TrapKind
}

func (k *kernel) HandleTrap(kind machine.TrapKind) {
	k.traps++
	k.last = kind
	log.Printf("kernel: %v", kind)
}

// loadMachine builds the machine described by the --machine file, with the
// event sinks selected by --verbose and --trace.
func loadMachine(cmd *cobra.Command) (m *machine.Machine, k *kernel, err error) {
	name := flagOrEnv(cmd, "machine", "UMIPS_MACHINE")

	desc := &config.Description{Config: machine.DefaultConfig()}
	if name != "" {
		var inf *os.File
		inf, err = os.Open(name)
		if err != nil {
			return
		}
		defer inf.Close()

		desc, err = config.Load(name, inf)
		if err != nil {
			return
		}
	}

	k = &kernel{}
	m, err = machine.NewMachine(desc.Config, &k.status, k)
	if err != nil {
		return
	}

	var sinks trace.Tee

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		sinks = append(sinks, &trace.Logger{Name: m.ID})
	}

	path := flagOrEnv(cmd, "trace", "UMIPS_TRACE")
	if path != "" {
		var recorder *trace.Recorder
		recorder, err = trace.NewRecorder(path, m.ID)
		if err != nil {
			return
		}
		log.Printf("trace: %v", recorder.Name())
		sinks = append(sinks, recorder)
	}

	switch len(sinks) {
	case 0:
	case 1:
		trace.Attach(m, sinks[0])
	default:
		trace.Attach(m, sinks)
	}

	err = desc.Install(m)

	return
}
