// Command hatctl exercises the HAT peripherals from a Linux host: the
// MAX31343 clock, the ADS1119 ADC, the MCP23017 expander and the TPS2H
// switches behind it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hatdevices-go/config"
	"hatdevices-go/errcode"
	"hatdevices-go/internal/logging"
	"hatdevices-go/internal/platform"
)

// tool carries the process edges so tests can replace them.
type tool struct {
	stdout, stderr io.Writer
	open           platform.Opener
	now            func() time.Time
	sleep          func(time.Duration)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	t := &tool{
		stdout: os.Stdout,
		stderr: os.Stderr,
		open:   platform.OpenI2C,
		now:    time.Now,
		sleep:  time.Sleep,
	}
	code := t.run(ctx, os.Args)
	stop()
	os.Exit(code)
}

func (t *tool) run(ctx context.Context, args []string) int {
	err := t.app().RunContext(ctx, args)
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(t.stderr, msg)
		}
		return ec.ExitCode()
	}
	code := errcode.MapDriverErr(err)
	fmt.Fprintf(t.stderr, "error [%s]: %v\n", code, err)
	return exitCode(code)
}

// exitCode maps an error code onto the process status: 2 for bad
// arguments, 3 when the ADC produced no conversion, 1 for the rest.
func exitCode(c errcode.Code) int {
	switch c {
	case errcode.OK:
		return 0
	case errcode.InvalidParams:
		return 2
	case errcode.NotReady:
		return 3
	}
	return 1
}

func (t *tool) app() *cli.App {
	return &cli.App{
		Name:      "hatctl",
		Usage:     "talk to the HAT peripherals over I2C",
		Writer:    t.stdout,
		ErrWriter: t.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bus", Aliases: []string{"b"}, EnvVars: []string{"HAT_I2C_BUS"}, Usage: "I2C bus (overrides the board file)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"HAT_CONFIG"}, Usage: "board description (JSON)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log register traffic"},
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			t.rtcCommand(),
			t.adcCommand(),
			t.ioCommand(),
			t.switchCommand(),
		},
	}
}

// session is one open bus plus the board it carries.
type session struct {
	board config.Board
	bus   platform.Bus
	log   *zap.Logger
}

// withSession opens the configured bus around fn and closes it afterwards.
func (t *tool) withSession(c *cli.Context, fn func(*session) error) (err error) {
	board, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("bus") {
		board.Bus = c.String("bus")
	}
	log := logging.New(t.stderr, c.Bool("verbose")).Named("hatctl")
	defer log.Sync() //nolint:errcheck

	bus, err := t.open(board.Bus)
	if err != nil {
		return errors.Wrapf(err, "open i2c bus %q", board.Bus)
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(bus.Close(), "close i2c bus"))
	}()
	log.Debug("bus open", zap.String("bus", board.Bus))
	return fn(&session{board: board, bus: bus, log: log})
}

func (t *tool) printf(format string, a ...any) {
	fmt.Fprintf(t.stdout, format, a...)
}
