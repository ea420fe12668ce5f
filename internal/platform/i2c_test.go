package platform

import (
	"testing"

	"hatdevices-go/internal/i2ctest"
)

func TestBusName(t *testing.T) {
	cases := map[string]string{
		"1":          "1",
		" 9 ":        "9",
		"i2c-1":      "1",
		"/dev/i2c-9": "9",
		"I2C1":       "I2C1",
		"":           "",
	}
	for in, want := range cases {
		if got := BusName(in); got != want {
			t.Fatalf("BusName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNopCloser(t *testing.T) {
	fake := i2ctest.New()
	b := Nop(fake)
	if err := b.Tx(0x20, []byte{0x12, 0x01}, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if len(fake.Log()) != 1 {
		t.Fatalf("Tx not forwarded")
	}
}
