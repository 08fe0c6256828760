package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"

	x86 "github.com/jeswin1811/emu8086"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emu8086",
		Short: "Real-mode Intel 8086 emulator for DOS-style programs",
	}

	var maxSteps int

	runCmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a flat binary loaded at 0000:0100 and print its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load program: %w", err)
			}
			out := x86.Execute(program, maxSteps)
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", x86.DefaultMaxSteps,
		"abort the session after this many CPU steps")

	var port int
	var serveSteps int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve emulation sessions over TCP, one connection at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			log.Printf("[x86] listening on %s", ln.Addr())
			return x86.Serve(ln, serveSteps)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 5555, "TCP port to listen on")
	serveCmd.Flags().IntVar(&serveSteps, "max-steps", x86.DefaultMaxSteps,
		"per-session CPU step budget")

	rootCmd.AddCommand(runCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
