package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/soundpress/masterchain/internal/analysis"
	"github.com/soundpress/masterchain/internal/assist"
	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/cli"
	"github.com/soundpress/masterchain/internal/engine"
	"github.com/soundpress/masterchain/internal/params"
	"github.com/soundpress/masterchain/internal/playback"
	"github.com/soundpress/masterchain/internal/report"
	"github.com/soundpress/masterchain/internal/ui"
	"github.com/soundpress/masterchain/internal/wavcodec"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Verbose bool   `help:"Enable debug logging"`
	Assist  bool   `short:"a" help:"Derive settings with the mastering assistant"`
	Preset  string `short:"p" help:"Apply a named preset" placeholder:"name"`
	Export  string `short:"e" type:"path" help:"Render to a WAV file instead of opening the transport" placeholder:"out.wav"`
	Bits    int    `short:"b" default:"16" enum:"16,24,32" help:"Export bit depth (16, 24 int, 32 float)"`
	File    string `arg:"" name:"file" help:"WAV file to master" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("masterchain"),
		kong.Description("Audio mastering chain with an interactive transport and a mastering assistant"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	log.SetLevel(log.WarnLevel)
	if cliArgs.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cliArgs.File == "" {
		cli.PrintError("No input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := run(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(cliArgs *CLI) error {
	buf, meta, err := audio.LoadWAV(cliArgs.File)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cliArgs.File, err)
	}
	log.WithFields(log.Fields{
		"duration":   meta.Duration,
		"sampleRate": meta.SampleRate,
		"channels":   meta.Channels,
	}).Debug("input loaded")

	set := params.Manual()
	var decisions []string
	switch {
	case cliArgs.Assist:
		set, decisions = assist.Recommend(analysis.ComputeMetrics(buf))
	case cliArgs.Preset != "":
		preset, ok := params.FindPreset(cliArgs.Preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", cliArgs.Preset)
		}
		set = preset.Apply()
	}

	if cliArgs.Export != "" {
		return export(buf, set, decisions, cliArgs)
	}
	return interactive(buf, set, decisions, cliArgs)
}

// export renders the chain offline and writes the result as WAV.
func export(buf *audio.Buffer, set params.ParameterSet, decisions []string, cliArgs *CLI) error {
	host := nopHost{}
	eng := engine.New(host)
	eng.Load(buf)
	if err := eng.ApplySettings(set); err != nil {
		return err
	}

	out, err := eng.Render()
	if err != nil {
		return err
	}

	f, err := os.Create(cliArgs.Export)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := wavcodec.Encode(f, out, cliArgs.Bits); err != nil {
		return err
	}

	fmt.Println(report.Settings("Rendered with", set))
	if len(decisions) > 0 {
		fmt.Println(report.Decisions(decisions))
	}
	fmt.Printf("Wrote %s (%d-bit, %.1fs)\n", cliArgs.Export, cliArgs.Bits, out.Duration())
	return nil
}

// interactive opens the audio device and the transport TUI.
func interactive(buf *audio.Buffer, set params.ParameterSet, decisions []string, cliArgs *CLI) error {
	host, err := playback.NewHost(buf.SampleRate)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	defer host.Stop()

	eng := engine.New(host)
	eng.Load(buf)
	if err := eng.ApplySettings(set); err != nil {
		return err
	}

	model := ui.NewModel(eng, cliArgs.File)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// nopHost satisfies the engine host for offline-only runs.
type nopHost struct{}

func (nopHost) Start(io.Reader) error { return nil }
func (nopHost) Stop()                 {}
