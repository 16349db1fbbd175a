package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	in := "Exchange,Name,Ticker\n" +
		"NSE,Reliance Industries,RELIANCE.NS\n" +
		"NSE,,BLANK.NS\n" +
		"NSE,No Ticker,\n" +
		"NSE,Nifty 50,^NSEI\n"
	c, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Options) != 2 {
		t.Fatalf("expected 2 options, got %d: %+v", len(c.Options), c.Options)
	}
	if c.Options[0].Label != "Reliance Industries - RELIANCE.NS" || c.Options[0].Value != "RELIANCE.NS" {
		t.Errorf("unexpected first option %+v", c.Options[0])
	}
	if c.Options[1].Value != "^NSEI" {
		t.Errorf("expected file order preserved, got %+v", c.Options[1])
	}
}

func TestParse_Latin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Ticker,Name\nNESN.SW,Nestl")
	buf.WriteByte(0xe9) // é in ISO-8859-1
	buf.WriteString(" SA\n")

	c, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Options) != 1 || c.Options[0].Label != "Nestlé SA - NESN.SW" {
		t.Errorf("unexpected options %+v", c.Options)
	}
}

func TestParse_ShortRowSkipped(t *testing.T) {
	c, err := Parse(strings.NewReader("Ticker,Name\nONLY\nTCS.NS,Tata Consultancy\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Options) != 1 || c.Options[0].Value != "TCS.NS" {
		t.Errorf("unexpected options %+v", c.Options)
	}
}

func TestParse_MissingColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("Symbol,Description\nA,B\n")); err == nil {
		t.Error("expected error for missing header columns")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")
	if err := os.WriteFile(path, []byte("Ticker,Name\nINFY.NS,Infosys\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Options) != 1 {
		t.Errorf("expected 1 option, got %d", len(c.Options))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
