package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"hatdevices-go/drivers/max31343"
	"hatdevices-go/x/conv"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func parseTime(s string) (time.Time, error) {
	for _, l := range timeLayouts {
		if tm, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse time %q", s)
}

func statusFlags(s byte) string {
	var names []string
	for _, f := range []struct {
		bit  byte
		name string
	}{
		{max31343.IntAlarm1, "alarm1"},
		{max31343.IntAlarm2, "alarm2"},
		{max31343.IntTimer, "timer"},
		{max31343.IntTemperature, "temperature"},
		{max31343.IntPowerFail, "power-fail"},
	} {
		if s&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

func (s *session) rtc() (*max31343.Device, error) {
	return max31343.New(s.bus, max31343.Config{Address: uint16(s.board.RTC.Address), Logger: s.log})
}

func (t *tool) withRTC(fn func(*max31343.Device, *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return t.withSession(c, func(s *session) error {
			d, err := s.rtc()
			if err != nil {
				return err
			}
			return fn(d, c)
		})
	}
}

func (t *tool) rtcCommand() *cli.Command {
	return &cli.Command{
		Name:  "rtc",
		Usage: "MAX31343 real-time clock",
		Subcommands: []*cli.Command{
			{
				Name:  "set-time",
				Usage: "write the host time (or --time) to the clock",
				Flags: []cli.Flag{&cli.StringFlag{Name: "time", Usage: "RFC3339 or \"2006-01-02 15:04:05\""}},
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					tm := t.now()
					if c.IsSet("time") {
						var err error
						if tm, err = parseTime(c.String("time")); err != nil {
							return cli.Exit(err.Error(), 2)
						}
					}
					if err := d.SetTime(tm); err != nil {
						return errors.Wrap(err, "set time")
					}
					t.printf("%s\n", max31343.FieldsFromTime(tm))
					return nil
				}),
			},
			{
				Name:  "time",
				Usage: "read the clock",
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					f, err := d.Time()
					if err != nil {
						return errors.Wrap(err, "read time")
					}
					t.printf("%s\n", f)
					return nil
				}),
			},
			{
				Name:  "alarm",
				Usage: "arm alarm 2 to fire daily at --hour:--minute",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "hour", Required: true},
					&cli.IntFlag{Name: "minute", Required: true},
				},
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					return errors.Wrap(d.SetAlarm2(c.Int("hour"), c.Int("minute")), "set alarm 2")
				}),
			},
			{
				Name:  "trickle",
				Usage: "configure the backup-cell trickle charger",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "off", Usage: "disable charging"},
					&cli.StringFlag{Name: "setting", Value: conv.Hex(max31343.TrickleDiode3k), Usage: "path select, low nibble (hex)"},
				},
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					v, err := conv.ParseHexByte(c.String("setting"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return errors.Wrap(d.SetTrickleCharger(!c.Bool("off"), v), "set trickle charger")
				}),
			},
			{
				Name:  "temp",
				Usage: "read the die temperature",
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					v, err := d.Temperature()
					if err != nil {
						return errors.Wrap(err, "read temperature")
					}
					t.printf("%.2f °C\n", v)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "read (and clear) the status flags",
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					s, err := d.Status()
					if err != nil {
						return errors.Wrap(err, "read status")
					}
					t.printf("status %s: %s\n", conv.Hex(s), statusFlags(s))
					return nil
				}),
			},
			{
				Name:  "reset",
				Usage: "software reset",
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					return errors.Wrap(d.Reset(), "reset")
				}),
			},
			{
				Name:  "watch",
				Usage: "print the clock every --interval until interrupted",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "interval", Value: time.Second},
					&cli.IntFlag{Name: "count", Usage: "stop after this many readings (0 = forever)"},
				},
				Action: t.withRTC(func(d *max31343.Device, c *cli.Context) error {
					return t.watch(c, d, c.Duration("interval"), c.Int("count"))
				}),
			},
		},
	}
}

// watch loops until the context is cancelled or count readings are printed.
func (t *tool) watch(c *cli.Context, d *max31343.Device, every time.Duration, count int) error {
	if every <= 0 {
		return cli.Exit("interval must be positive", 2)
	}
	tick := time.NewTicker(every)
	defer tick.Stop()

	for n := 1; ; n++ {
		f, err := d.Time()
		if err != nil {
			return errors.Wrap(err, "read time")
		}
		t.printf("%s\n", f)
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-c.Context.Done():
			return nil
		case <-tick.C:
		}
	}
}
