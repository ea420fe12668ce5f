package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"hatdevices-go/drivers/ads1119"
	"hatdevices-go/drivers/tps2h"
)

// diagSettle lets the sense output follow a new diagnostic selection.
const diagSettle = 100 * time.Millisecond

type switchBoard struct {
	sw  *tps2h.Device
	adc *ads1119.Device
}

// switches composes the TPS2H channels from the expander and the ADC and
// picks up the state an earlier run left behind.
func (s *session) switches(resume bool) (*switchBoard, error) {
	v, err := s.board.Variant()
	if err != nil {
		return nil, err
	}
	io, err := s.io()
	if err != nil {
		return nil, err
	}
	adc, err := s.adc(ads1119.DefaultConfig())
	if err != nil {
		return nil, err
	}
	sw := tps2h.New(io, adc, tps2h.Config{Variant: v})
	if resume {
		if err := sw.Resume(io); err != nil {
			return nil, errors.Wrap(err, "read switch state")
		}
		s.log.Debug("switch state", zap.Uint8("outputs", uint8(sw.Outputs())), zap.Stringer("diag", sw.Selection().Mode()))
	}
	return &switchBoard{sw: sw, adc: adc}, nil
}

func channelFlag() cli.Flag {
	return &cli.IntFlag{Name: "channel", Aliases: []string{"ch"}, Required: true, Usage: "switch channel 0..3"}
}

func (t *tool) withSwitches(resume bool, fn func(*switchBoard, *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return t.withSession(c, func(s *session) error {
			b, err := s.switches(resume)
			if err != nil {
				return err
			}
			return fn(b, c)
		})
	}
}

func (t *tool) printOutputs(o tps2h.Outputs) {
	t.printf("outputs:")
	for ch := 0; ch <= tps2h.MaxChannel; ch++ {
		state := "off"
		if o.Has(ch) {
			state = "on"
		}
		t.printf(" %d=%s", ch, state)
	}
	t.printf("\n")
}

func (t *tool) switchCommand() *cli.Command {
	return &cli.Command{
		Name:  "switch",
		Usage: "TPS2H high-side switches",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "make both expander ports outputs and switch everything off",
				Action: t.withSwitches(false, func(b *switchBoard, c *cli.Context) error {
					if err := b.sw.Configure(); err != nil {
						return errors.Wrap(err, "configure switches")
					}
					t.printOutputs(b.sw.Outputs())
					return nil
				}),
			},
			{
				Name:  "on",
				Usage: "switch a channel on",
				Flags: []cli.Flag{channelFlag()},
				Action: t.withSwitches(true, func(b *switchBoard, c *cli.Context) error {
					if err := b.sw.SetOutput(c.Int("channel")); err != nil {
						return errors.Wrap(err, "switch on")
					}
					t.printOutputs(b.sw.Outputs())
					return nil
				}),
			},
			{
				Name:  "off",
				Usage: "switch a channel off",
				Flags: []cli.Flag{channelFlag()},
				Action: t.withSwitches(true, func(b *switchBoard, c *cli.Context) error {
					if err := b.sw.ClearOutput(c.Int("channel")); err != nil {
						return errors.Wrap(err, "switch off")
					}
					t.printOutputs(b.sw.Outputs())
					return nil
				}),
			},
			{
				Name:  "measure",
				Usage: "route a channel's sense output to the ADC and convert it",
				Flags: []cli.Flag{
					channelFlag(),
					&cli.BoolFlag{Name: "temperature", Aliases: []string{"t"}, Usage: "junction temperature instead of load current"},
					&cli.IntFlag{Name: "mux", Usage: "ADC input the sense line is wired to"},
				},
				Action: t.withSwitches(true, func(b *switchBoard, c *cli.Context) error {
					mux, err := muxFlag(c)
					if err != nil {
						return err
					}
					cfg := ads1119.DefaultConfig().WithMux(mux)
					sel := tps2h.Selection{Channel: c.Int("channel")}
					if c.Bool("temperature") {
						sel.Temperature = true
					} else {
						sel.Current = true
					}
					if err := t.startADC(b.adc, cfg); err != nil {
						return err
					}
					if err := b.sw.Diag(sel); err != nil {
						return errors.Wrap(err, "select diagnostic")
					}
					t.sleep(diagSettle)
					r, err := b.sw.Measure(sel.Mode())
					if err != nil {
						return errors.Wrap(err, "measure")
					}
					t.printf("channel %d %s: %s (%.4f V)\n", sel.Channel, r.Mode, r, r.Volts)
					return nil
				}),
			},
			{
				Name:  "diag-off",
				Usage: "disable the diagnostic sense output",
				Action: t.withSwitches(true, func(b *switchBoard, c *cli.Context) error {
					return errors.Wrap(b.sw.DiagOff(), "diagnostics off")
				}),
			},
		},
	}
}
