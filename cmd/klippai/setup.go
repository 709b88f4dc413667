package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Bigcheese1989/KlippAi/core/parse"
	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/moonraker"
)

type setupFlags struct {
	printerMake  string
	model        string
	bedWidth     float64
	bedDepth     float64
	originX      float64
	originY      float64
	kinematics   string
	moonrakerURL string
	apiKey       string
}

// probeFunc is swapped in tests.
type probeFunc func(ctx context.Context, klipper config.KlipperConfig, client *http.Client) (moonraker.PrinterInfo, error)

func newSetupCommand(configPath *string) *cobra.Command {
	var f setupFlags

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Record printer details and Moonraker connection settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{Path: *configPath})
			if err != nil {
				return err
			}
			w := &wizard{
				in:      newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
				out:     cmd.OutOrStdout(),
				changed: cmd.Flags().Changed,
				probe:   moonraker.Probe,
			}
			printer, klipper, err := w.run(cmd.Context(), cfg, f)
			if err != nil {
				return err
			}
			path := *configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.SavePrinterAndKlipper(path, printer, klipper); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved printer and Klipper settings to %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.printerMake, "make", "", "printer make, e.g. Prusa or Creality")
	flags.StringVar(&f.model, "model", "", "printer model, e.g. MK3S or Ender 3")
	flags.Float64Var(&f.bedWidth, "bed-width", 0, "bed width in mm")
	flags.Float64Var(&f.bedDepth, "bed-depth", 0, "bed depth in mm")
	flags.Float64Var(&f.originX, "origin-x", 0, "origin X in mm")
	flags.Float64Var(&f.originY, "origin-y", 0, "origin Y in mm")
	flags.StringVar(&f.kinematics, "kinematics", "", "one of "+strings.Join(config.Kinematics, ", "))
	flags.StringVar(&f.moonrakerURL, "moonraker-url", "", "Moonraker base URL (default "+config.DefaultMoonrakerURL+")")
	flags.StringVar(&f.apiKey, "api-key", "", "Moonraker API key if required")
	return cmd
}

type wizard struct {
	in      *prompter
	out     io.Writer
	changed func(name string) bool
	probe   probeFunc
}

// run fills every printer field from its flag or a prompt, then checks the
// Moonraker URL. An unreachable URL is asked for once more and the result is
// kept either way, so a printer that is powered off can still be recorded.
func (w *wizard) run(ctx context.Context, cfg config.Config, f setupFlags) (config.PrinterConfig, config.KlipperConfig, error) {
	var current config.PrinterConfig
	if cfg.Printer != nil {
		current = *cfg.Printer
	}
	var (
		p   config.PrinterConfig
		err error
	)

	if p.Make, err = w.text("make", f.printerMake, "Printer make", current.Make); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.Model, err = w.text("model", f.model, "Printer model", current.Model); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.BedWidthMM, err = w.number("bed-width", f.bedWidth, "Bed width (mm)", current.BedWidthMM, false); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.BedDepthMM, err = w.number("bed-depth", f.bedDepth, "Bed depth (mm)", current.BedDepthMM, false); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.OriginXMM, err = w.number("origin-x", f.originX, "Origin X (mm)", current.OriginXMM, true); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.OriginYMM, err = w.number("origin-y", f.originY, "Origin Y (mm)", current.OriginYMM, true); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if p.Kinematics, err = w.kinematics(f.kinematics, current.Kinematics); err != nil {
		return p, config.KlipperConfig{}, err
	}

	klipper := cfg.Klipper
	if w.changed("moonraker-url") && f.moonrakerURL != "" {
		klipper.MoonrakerURL = f.moonrakerURL
	}
	if w.changed("api-key") && f.apiKey != "" {
		klipper.APIKey = f.apiKey
	}

	logger := zerolog.Ctx(ctx)
	info, err := w.probe(ctx, klipper, nil)
	if err == nil {
		fmt.Fprintf(w.out, "Moonraker reachable at %s (state: %s)\n", klipper.MoonrakerURL, stateOrUnknown(info.State))
		return p, klipper, nil
	}
	logger.Debug().Err(err).Msg("moonraker probe failed")
	fmt.Fprintf(w.out, "Moonraker not reachable at %s. Let's set it.\n", klipper.MoonrakerURL)

	if klipper.MoonrakerURL, err = w.in.ask("Moonraker URL", klipper.MoonrakerURL); err != nil {
		return p, config.KlipperConfig{}, err
	}
	if info, err := w.probe(ctx, klipper, nil); err != nil {
		fmt.Fprintf(w.out, "Still cannot reach Moonraker (%v); saving the URL anyway.\n", err)
	} else {
		fmt.Fprintf(w.out, "Moonraker reachable at %s (state: %s)\n", klipper.MoonrakerURL, stateOrUnknown(info.State))
	}
	return p, klipper, nil
}

func (w *wizard) text(flag, value, label, def string) (string, error) {
	if w.changed(flag) && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	for {
		v, err := w.in.ask(label, def)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintln(w.out, "A value is required.")
	}
}

func (w *wizard) number(flag string, value float64, label string, def float64, anySign bool) (float64, error) {
	if w.changed(flag) {
		if err := checkDimension(value, anySign); err != nil {
			return 0, fmt.Errorf("--%s: %w", flag, err)
		}
		return value, nil
	}
	defText := ""
	if def != 0 || anySign {
		defText = strconv.FormatFloat(def, 'f', -1, 64)
	}
	for {
		raw, err := w.in.ask(label, defText)
		if err != nil {
			return 0, err
		}
		v, err := parse.ParseStringAs[float64](raw)
		if err == nil {
			err = checkDimension(v, anySign)
		}
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(w.out, "Invalid number %q: %v\n", raw, err)
	}
}

func (w *wizard) kinematics(value, def string) (string, error) {
	if value != "" {
		return config.ParseKinematics(value)
	}
	if def == "" {
		def = config.DefaultPrinterKinematic
	}
	for {
		raw, err := w.in.ask("Kinematics ("+strings.Join(config.Kinematics, ", ")+")", def)
		if err != nil {
			return "", err
		}
		k, err := config.ParseKinematics(raw)
		if err == nil {
			return k, nil
		}
		fmt.Fprintln(w.out, err)
	}
}

func checkDimension(v float64, anySign bool) error {
	if !anySign && v <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func stateOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// prompter reads answers line by line. An empty answer takes the default.
type prompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%s: no answer given", label)
		}
		return "", err
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return def, nil
}
