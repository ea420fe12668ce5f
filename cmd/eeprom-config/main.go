// Command eeprom-config shows or changes the configuration registers of the
// HAT's 24CW EEPROM: write protection and the bus address the chip answers on.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hatdevices-go/drivers/eeprom24cw"
	"hatdevices-go/errcode"
	"hatdevices-go/internal/logging"
	"hatdevices-go/internal/platform"
	"hatdevices-go/x/conv"
	"hatdevices-go/x/mathx"
)

const (
	msgNothing  = "To make a change address or write protection scheme must be set!"
	msgConflict = "Cannot write enable and write protect at the same time!"
	msgRange    = "Target address is out of range! Use 0x50 to 0x57"
	msgAddr     = "EEPROM address is out of range! Use 0x50 to 0x57"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr, platform.OpenI2C))
}

// run executes the tool and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, open platform.Opener) int {
	app := newApp(stdout, stderr, open)
	err := app.Run(args)
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(stdout, msg)
		}
		return ec.ExitCode()
	}
	code := errcode.MapDriverErr(err)
	fmt.Fprintf(stderr, "error [%s]: %v\n", code, err)
	if code == errcode.InvalidParams {
		return 2
	}
	return 1
}

func newApp(stdout, stderr io.Writer, open platform.Opener) *cli.App {
	return &cli.App{
		Name:      "eeprom-config",
		Usage:     "show or change 24CW EEPROM write protection and bus address",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bus", Aliases: []string{"b"}, Value: "9", EnvVars: []string{"HAT_I2C_BUS"}, Usage: "I2C bus the EEPROM is on"},
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Value: "0x50", Usage: "current EEPROM address (hex)"},
			&cli.BoolFlag{Name: "show", Aliases: []string{"s"}, Usage: "print the current configuration and exit"},
			&cli.StringFlag{Name: "target-address", Aliases: []string{"t"}, Usage: "new EEPROM address, 0x50 to 0x57 (hex)"},
			&cli.BoolFlag{Name: "write-protect", Aliases: []string{"wp"}, Usage: "protect the whole array"},
			&cli.BoolFlag{Name: "write-enable", Aliases: []string{"we"}, Usage: "remove write protection"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log register traffic"},
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			log := logging.New(stderr, c.Bool("verbose")).Named("eeprom-config")
			defer log.Sync() //nolint:errcheck
			return configure(c, stdout, log, open)
		},
	}
}

func request(c *cli.Context) (eeprom24cw.Request, error) {
	req := eeprom24cw.Request{
		Show:      c.Bool("show"),
		Protect:   c.Bool("write-protect"),
		Unprotect: c.Bool("write-enable"),
	}
	if c.IsSet("target-address") {
		t, err := conv.ParseHexByte(c.String("target-address"))
		if err != nil {
			return req, cli.Exit(msgRange, 1)
		}
		req.Target, req.HasTarget = t, true
	}
	return req, nil
}

func configure(c *cli.Context, stdout io.Writer, log *zap.Logger, open platform.Opener) (err error) {
	addr, err := conv.ParseHexByte(c.String("address"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if !mathx.Between(addr, eeprom24cw.AddressMin, eeprom24cw.AddressMax) {
		return cli.Exit(msgAddr, 1)
	}
	req, err := request(c)
	if err != nil {
		return err
	}
	log.Debug("request",
		zap.String("address", conv.Hex(addr)),
		zap.Bool("show", req.Show),
		zap.Bool("protect", req.Protect),
		zap.Bool("unprotect", req.Unprotect),
		zap.Bool("has_target", req.HasTarget),
		zap.String("target", conv.Hex(req.Target)))

	bus, err := open(c.String("bus"))
	if err != nil {
		return errors.Wrapf(err, "open i2c bus %q", c.String("bus"))
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(bus.Close(), "close i2c bus"))
	}()

	dev, err := eeprom24cw.New(bus, uint16(addr))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	plan, err := dev.Apply(req)
	return report(stdout, log, plan, err)
}

// report turns the outcome of Apply into output and an exit status.
func report(w io.Writer, log *zap.Logger, p eeprom24cw.Plan, err error) error {
	switch {
	case errors.Is(err, eeprom24cw.ErrConflict):
		fmt.Fprintln(w, msgConflict)
		return nil
	case eeprom24cw.IsRangeError(err):
		return cli.Exit(msgRange, 1)
	case err != nil:
		return errors.Wrap(err, "eeprom configuration")
	}
	log.Debug("registers",
		zap.String("write_protect", conv.Hex(p.Cur.WriteProtect)),
		zap.String("address", conv.Hex(p.Cur.Address)))

	switch p.Action {
	case eeprom24cw.ActionShow:
		for _, l := range eeprom24cw.Decode(p.Cur).Lines() {
			fmt.Fprintln(w, l)
		}
	case eeprom24cw.ActionNone:
		fmt.Fprintln(w, msgNothing)
	case eeprom24cw.ActionWrite:
		log.Info("configuration written",
			zap.String("write_protect", conv.Hex(p.Next.WriteProtect)),
			zap.String("address", conv.Hex(p.Next.Address)))
	}
	return nil
}
