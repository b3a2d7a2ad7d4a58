package main

import (
	"encoding/json"
	"fmt"
	"io"
	"syscall"

	"codeberg.org/mutker/loopfetch/internal/engine"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/metrics"
	"codeberg.org/mutker/loopfetch/internal/pid"
	"codeberg.org/mutker/loopfetch/internal/styled"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	written, err := writeScript(cfg.Script, forceInit)
	if err != nil {
		return err
	}

	if !written {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, use --force to overwrite\n", cfg.Script)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Script)

	return nil
}

func runReload(cmd *cobra.Command, _ []string) error {
	n, err := pid.NewRegistry(pid.DefaultDir()).Signal(syscall.SIGHUP)
	if err != nil {
		return errors.New().Wrap(errors.ErrSignalReload, err)
	}
	if n == 0 {
		return errors.New().WithMessage(errors.ErrResourceNotFound, "no running loopfetch instance")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "reloaded %d instance(s)\n", n)

	return nil
}

// checkReport is the headless view of one logic pass.
type checkReport struct {
	Settings checkSettings `yaml:"settings"        json:"settings"`
	Lines    []checkLine   `yaml:"lines"           json:"lines"`
	Error    string        `yaml:"error,omitempty" json:"error,omitempty"`
}

type checkSettings struct {
	FPS    uint32 `yaml:"fps"    json:"fps"`
	TPS    uint32 `yaml:"tps"    json:"tps"`
	RPS    uint32 `yaml:"rps"    json:"rps"`
	Layout string `yaml:"layout" json:"layout"`
	Order  string `yaml:"order"  json:"order"`
	Comp   string `yaml:"comp"   json:"comp"`
}

type checkLine struct {
	Text  string      `yaml:"text"            json:"text"`
	Spans []checkSpan `yaml:"spans,omitempty" json:"spans,omitempty"`
}

type checkSpan struct {
	Text   string `yaml:"text"             json:"text"`
	FG     string `yaml:"fg,omitempty"     json:"fg,omitempty"`
	BG     string `yaml:"bg,omitempty"     json:"bg,omitempty"`
	Bold   bool   `yaml:"bold,omitempty"   json:"bold,omitempty"`
	Italic bool   `yaml:"italic,omitempty" json:"italic,omitempty"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if checkFormat != "yaml" && checkFormat != "json" {
		return errors.New().WithMessage(errors.ErrInvalidArgument, "format must be yaml or json")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cmd.ErrOrStderr())

	eng, err := newEngine(cmd.Context(), cfg, metrics.NewLoop(false))
	if err != nil {
		return err
	}
	defer eng.Close()

	frame := eng.Pass(cmd.Context(), nil)
	report := newCheckReport(frame)

	if err := writeReport(cmd.OutOrStdout(), report); err != nil {
		return errors.New().Wrap(errors.ErrOperationFailed, err)
	}

	return frame.Err
}

func newCheckReport(frame engine.Frame) checkReport {
	s := frame.Settings
	report := checkReport{
		Settings: checkSettings{
			FPS:    s.FPS,
			TPS:    s.TPS,
			RPS:    s.RPS,
			Layout: s.Layout.String(),
			Order:  s.Order.String(),
			Comp:   s.Vars.Comp,
		},
		Lines: make([]checkLine, 0, len(frame.Lines)),
	}

	for _, line := range frame.Lines {
		report.Lines = append(report.Lines, newCheckLine(line))
	}
	if frame.Err != nil {
		report.Error = frame.Err.Error()
	}

	return report
}

func newCheckLine(line styled.Line) checkLine {
	out := checkLine{Text: line.Text()}
	for _, span := range line {
		cs := checkSpan{Text: span.Text, Bold: span.Style.Bold, Italic: span.Style.Italic}
		if span.Style.FG != nil {
			cs.FG = span.Style.FG.Hex()
		}
		if span.Style.BG != nil {
			cs.BG = span.Style.BG.Hex()
		}
		out.Spans = append(out.Spans, cs)
	}
	return out
}

func writeReport(w io.Writer, report checkReport) error {
	if checkFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
