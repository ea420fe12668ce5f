package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"hatdevices-go/drivers/mcp23017"
	"hatdevices-go/x/conv"
)

func parsePort(s string) (mcp23017.Port, error) {
	switch strings.ToUpper(s) {
	case "A":
		return mcp23017.PortA, nil
	case "B":
		return mcp23017.PortB, nil
	}
	return 0, cli.Exit("port must be A or B", 2)
}

func (s *session) io() (*mcp23017.Device, error) {
	return mcp23017.New(s.bus, mcp23017.Config{Address: uint16(s.board.IO.Address), Logger: s.log})
}

// ioAction runs fn with the expander, the selected port and the hex
// argument named arg (skipped when arg is empty).
func (t *tool) ioAction(arg string, fn func(d *mcp23017.Device, p mcp23017.Port, v byte) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := parsePort(c.String("port"))
		if err != nil {
			return err
		}
		var v byte
		if arg != "" {
			if v, err = conv.ParseHexByte(c.String(arg)); err != nil {
				return cli.Exit(err.Error(), 2)
			}
		}
		return t.withSession(c, func(s *session) error {
			d, err := s.io()
			if err != nil {
				return err
			}
			return fn(d, p, v)
		})
	}
}

func (t *tool) ioCommand() *cli.Command {
	port := &cli.StringFlag{Name: "port", Aliases: []string{"p"}, Value: "A", Usage: "A or B"}
	hexFlag := func(name, usage string) cli.Flag {
		return &cli.StringFlag{Name: name, Required: true, Usage: usage + " (hex)"}
	}
	return &cli.Command{
		Name:  "io",
		Usage: "MCP23017 port expander",
		Subcommands: []*cli.Command{
			{
				Name:  "dir",
				Usage: "set the direction mask, 1 = input",
				Flags: []cli.Flag{port, hexFlag("mask", "direction mask")},
				Action: t.ioAction("mask", func(d *mcp23017.Device, p mcp23017.Port, v byte) error {
					return errors.Wrapf(d.SetIODirection(p, v), "set direction on port %s", p)
				}),
			},
			{
				Name:  "out",
				Usage: "write the output latch",
				Flags: []cli.Flag{port, hexFlag("value", "pin pattern")},
				Action: t.ioAction("value", func(d *mcp23017.Device, p mcp23017.Port, v byte) error {
					return errors.Wrapf(d.SetOutput(p, v), "write port %s", p)
				}),
			},
			{
				Name:  "in",
				Usage: "read the pin levels",
				Flags: []cli.Flag{port},
				Action: t.ioAction("", func(d *mcp23017.Device, p mcp23017.Port, _ byte) error {
					v, err := d.Pins(p)
					if err != nil {
						return errors.Wrapf(err, "read port %s", p)
					}
					t.printf("port %s: %s\n", p, conv.Hex(v))
					return nil
				}),
			},
			{
				Name:  "pullup",
				Usage: "set the pull-up mask, 1 = enabled",
				Flags: []cli.Flag{port, hexFlag("mask", "pull-up mask")},
				Action: t.ioAction("mask", func(d *mcp23017.Device, p mcp23017.Port, v byte) error {
					return errors.Wrapf(d.SetPullUp(p, v), "set pull-ups on port %s", p)
				}),
			},
		},
	}
}
