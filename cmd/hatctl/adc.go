package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"hatdevices-go/drivers/ads1119"
	"hatdevices-go/errcode"
	"hatdevices-go/x/conv"
	"hatdevices-go/x/mathx"
)

// adcSettle is how long the first continuous conversion takes to land.
const adcSettle = 200 * time.Millisecond

var rateSPS = []int{20, 90, 330, 1000}

func parseRate(sps int) (ads1119.DataRate, error) {
	for i, v := range rateSPS {
		if v == sps {
			return ads1119.DataRate(i), nil
		}
	}
	return 0, errcode.Invalid("hatctl.adc", "rate must be one of 20, 90, 330, 1000")
}

func adcFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "mux", Usage: "input select 0..7 (0 = AIN0-AIN1)"},
		&cli.IntFlag{Name: "gain", Value: 1, Usage: "1 or 4"},
		&cli.IntFlag{Name: "rate", Value: 20, Usage: "samples per second"},
		&cli.BoolFlag{Name: "external-ref", Usage: "use REFP/REFN instead of the internal 2.048 V"},
		&cli.BoolFlag{Name: "single-shot", Usage: "one conversion per START instead of continuous"},
	}
}

// muxFlag and gainFlag check the flag before it is narrowed to the
// register field, so out-of-range values cannot wrap into valid ones.
func muxFlag(c *cli.Context) (ads1119.Mux, error) {
	v := c.Int("mux")
	if !mathx.Between(v, 0, int(ads1119.MuxShorted)) {
		return 0, errcode.Invalid("hatctl.adc", "mux must be 0..7")
	}
	return ads1119.Mux(v), nil
}

func gainFlag(c *cli.Context) (ads1119.Gain, error) {
	switch v := c.Int("gain"); v {
	case int(ads1119.Gain1), int(ads1119.Gain4):
		return ads1119.Gain(v), nil
	}
	return 0, errcode.Invalid("hatctl.adc", "gain must be 1 or 4")
}

// adcConfig builds the conversion setup from the adc flags and the board.
func (s *session) adcConfig(c *cli.Context) (ads1119.Config, error) {
	rate, err := parseRate(c.Int("rate"))
	if err != nil {
		return ads1119.Config{}, err
	}
	mux, err := muxFlag(c)
	if err != nil {
		return ads1119.Config{}, err
	}
	gain, err := gainFlag(c)
	if err != nil {
		return ads1119.Config{}, err
	}
	cfg := ads1119.DefaultConfig().
		WithMux(mux).
		WithGain(gain).
		WithDataRate(rate).
		WithExternalRef(c.Bool("external-ref")).
		WithContinuous(!c.Bool("single-shot"))
	if cfg.VRef == ads1119.VRefExt && s.board.ADC.RefVolts > 0 {
		cfg = cfg.WithRefVolts(s.board.ADC.RefVolts)
	}
	return cfg, cfg.Validate()
}

func (s *session) adc(cfg ads1119.Config) (*ads1119.Device, error) {
	return ads1119.New(s.bus, cfg, ads1119.Options{Address: uint16(s.board.ADC.Address), Logger: s.log})
}

// startADC resets the converter, writes cfg and starts converting.
func (t *tool) startADC(d *ads1119.Device, cfg ads1119.Config) error {
	if err := d.Reset(); err != nil {
		return errors.Wrap(err, "adc reset")
	}
	if err := d.Configure(cfg); err != nil {
		return errors.Wrap(err, "adc configure")
	}
	if err := d.Start(); err != nil {
		return errors.Wrap(err, "adc start")
	}
	t.sleep(adcSettle)
	return nil
}

func (t *tool) adcCommand() *cli.Command {
	return &cli.Command{
		Name:  "adc",
		Usage: "ADS1119 analog-to-digital converter",
		Subcommands: []*cli.Command{
			{
				Name:  "read",
				Usage: "configure, start and read one sample",
				Flags: append(adcFlags(), &cli.BoolFlag{Name: "raw", Usage: "print the raw code as well"}),
				Action: func(c *cli.Context) error {
					return t.withSession(c, func(s *session) error {
						cfg, err := s.adcConfig(c)
						if err != nil {
							return err
						}
						d, err := s.adc(cfg)
						if err != nil {
							return err
						}
						if err := t.startADC(d, cfg); err != nil {
							return err
						}
						smp, err := d.Read()
						if err != nil {
							return errors.Wrap(err, "adc read")
						}
						if !smp.Ready {
							return &errcode.E{C: errcode.NotReady, Op: "adc read", Msg: "no conversion within the poll budget"}
						}
						v := ads1119.SampleToVoltage(smp.Raw, d.Config())
						if c.Bool("raw") {
							t.printf("raw %d\n", smp.Raw)
						}
						t.printf("%.4f V (%s)\n", v, ads1119.Potential(v))
						return nil
					})
				},
			},
			{
				Name:  "config",
				Usage: "read back the configuration register",
				Action: func(c *cli.Context) error {
					return t.withSession(c, func(s *session) error {
						d, err := s.adc(ads1119.ResetConfig())
						if err != nil {
							return err
						}
						b, err := d.ReadConfig()
						if err != nil {
							return errors.Wrap(err, "adc read config")
						}
						cfg := ads1119.ParseConfig(b, s.board.ADC.RefVolts)
						mode := "single-shot"
						if cfg.Mode == ads1119.Continuous {
							mode = "continuous"
						}
						vref := "internal"
						if cfg.VRef == ads1119.VRefExt {
							vref = "external"
						}
						t.printf("config %s: mux %d, gain %d, %d SPS, %s, %s reference\n",
							conv.Hex(b), cfg.Mux, cfg.Gain, rateSPS[cfg.DataRate], mode, vref)
						return nil
					})
				},
			},
		},
	}
}
