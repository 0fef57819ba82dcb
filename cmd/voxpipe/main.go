// ABOUTME: Entry point for the voxpipe CLI
// ABOUTME: Wires config, playback engine, synthesis client, and commands
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/voxpipe/voxpipe-go/internal/client"
	"github.com/voxpipe/voxpipe-go/internal/config"
	"github.com/voxpipe/voxpipe-go/internal/output"
	"github.com/voxpipe/voxpipe-go/internal/record"
	"github.com/voxpipe/voxpipe-go/internal/speaker"
	"github.com/voxpipe/voxpipe-go/internal/version"
)

var (
	verbose bool
	device  int
)

func main() {
	root := &cobra.Command{
		Use:     "voxpipe",
		Short:   "Stream synthesized speech to your speakers",
		Long:    "Voxpipe streams synthesized speech from a remote synthesis service to a local audio device and records each session to a WAV file.",
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: runChat,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().IntVarP(&device, "device", "d", -2, "output device index (overrides VOXPIPE_OUTPUT_DEVICE)")

	say := &cobra.Command{
		Use:   "say [text]",
		Short: "Speak one utterance and exit",
		Args:  cobra.ExactArgs(1),
		RunE:  runSay,
	}
	say.Flags().Duration("linger", 5*time.Second, "how long to keep playing after the last flush")

	devices := &cobra.Command{
		Use:   "devices",
		Short: "List output devices",
		RunE:  runDevices,
	}

	root.AddCommand(say, devices)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// openPipeline builds the playback engine and connects the synthesis client.
// The returned client owns finalization: closing it stops the engine and
// exports the recording.
func openPipeline() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if device != -2 {
		cfg.DeviceIndex = device
	}

	audioCfg := cfg.Audio()
	engine := speaker.New(audioCfg, output.Default(audioCfg.DeviceIndex))
	if err := engine.Start(); err != nil {
		return nil, err
	}

	exporter := record.NewWAVExporter(cfg.RecordingPath, audioCfg)

	cl, err := client.Dial(client.Config{
		URL:    cfg.SynthEndpoint(),
		APIKey: cfg.SynthAPIKey,
	}, engine, exporter)
	if err != nil {
		// The client never took ownership; stop playback here.
		if stopErr := engine.Stop(); stopErr != nil {
			log.Error("stop playback failed", "err", stopErr)
		}
		return nil, err
	}

	return cl, nil
}

func runSay(cmd *cobra.Command, args []string) error {
	linger, _ := cmd.Flags().GetDuration("linger")

	cl, err := openPipeline()
	if err != nil {
		return err
	}

	if err := cl.Speak(args[0]); err != nil {
		cl.Close()
		return err
	}
	if err := cl.Flush(); err != nil {
		cl.Close()
		return err
	}

	// Audio arrives asynchronously; give it time to stream and play out.
	time.Sleep(linger)

	return cl.Close()
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := output.Devices()
	if err != nil {
		return err
	}
	fmt.Println("Available audio output devices:")
	for _, d := range devices {
		fmt.Printf("  %3d  %s\n", d.Index, d.Name)
	}
	return nil
}
