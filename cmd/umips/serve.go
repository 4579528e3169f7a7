package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/ezrec/umips/monitor"
)

var serveCmd = &cobra.Command{
	Use:   "serve [ADDR...]",
	Short: "Serve the machine state over HTTP.",
	Long: "`serve [ADDR...]` translates any given addresses, then serves " +
		"the machine state until interrupted.",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "port number, 0 for any")
	serveCmd.Flags().Bool("open", false, "open the monitor in a browser")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	addrs, err := parseAddresses(args)
	if err != nil {
		return
	}

	port, err := intFlagOrEnv(cmd, "port", "UMIPS_PORT")
	if err != nil {
		return
	}

	m, k, err := loadMachine(cmd)
	if err != nil {
		return
	}

	mon := monitor.NewMonitor(m).WithPortNumber(port)
	url, err := mon.StartServer()
	if err != nil {
		return
	}
	defer mon.Close()

	fmt.Fprintf(os.Stderr, "Monitoring machine %v with %v\n", m.ID, url)

	open, _ := cmd.Flags().GetBool("open")
	if open {
		err = browser.OpenURL(url)
		if err != nil {
			log.Printf("browser: %v", err)
			err = nil
		}
	}

	if len(addrs) > 0 {
		stream := &addressStream{m: m, k: k, out: os.Stdout, addrs: addrs}
		mon.Lock()
		for done := false; !done; {
			done, err = stream.Step()
			if err != nil {
				break
			}
		}
		mon.Unlock()
		if err != nil {
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	return
}
