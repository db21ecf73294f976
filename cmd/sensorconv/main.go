// Binary sensorconv converts sensor readings between units and computes
// summary statistics of a list of readings.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mtraver/sensorutils/convert"
	"github.com/mtraver/sensorutils/stats"
)

var (
	from     string
	to       string
	dewpoint bool
	altitude bool
	summary  bool
	capacity int
)

type unitPair struct {
	from, to string
}

var conversions = map[unitPair]func(float64) float64{
	{"c", "f"}:      convert.Fahrenheit,
	{"f", "c"}:      convert.Celsius,
	{"pa", "inhg"}:  convert.InchesHg,
	{"pa", "mmhg"}:  convert.MmHg,
	{"pa", "atm"}:   convert.AtmospheresP,
	{"inhg", "atm"}: convert.AtmospheresHg,
	{"m", "ft"}:     convert.LengthF,
}

func converter(from, to string) (func(float64) float64, error) {
	f, ok := conversions[unitPair{strings.ToLower(from), strings.ToLower(to)}]
	if !ok {
		return nil, fmt.Errorf("no conversion from %q to %q", from, to)
	}
	return f, nil
}

func strsToFloats(strs []string) ([]float64, error) {
	floats := make([]float64, len(strs))
	for i, s := range strs {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		floats[i] = f
	}

	return floats, nil
}

// readSamples adds every number in r to acc. Numbers may be separated by
// whitespace or commas.
func readSamples(r io.Reader, acc *stats.Accumulator) error {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		for _, field := range strings.Split(scanner.Text(), ",") {
			if field == "" {
				continue
			}

			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return err
			}
			acc.Add(v)
		}
	}

	return scanner.Err()
}

// summarize reads samples from r and returns the JSON encoding of their statistics.
func summarize(r io.Reader, capacity int) ([]byte, error) {
	acc := stats.New(capacity)
	defer acc.Close()

	if err := readSamples(r, acc); err != nil {
		return nil, err
	}
	if err := acc.Compute(); err != nil {
		return nil, err
	}
	return acc.JSON()
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if summary {
		b, err := summarize(stdin, capacity)
		if errors.Is(err, stats.ErrEmptyDataset) {
			return fmt.Errorf("no samples on stdin")
		} else if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(b))
		return nil
	}

	vals, err := strsToFloats(args)
	if err != nil {
		return err
	}

	switch {
	case dewpoint:
		if len(vals) != 2 {
			return fmt.Errorf("dewpoint takes a temperature (°C) and a relative humidity (%%)")
		}
		fmt.Fprintln(stdout, convert.Dewpoint(vals[0], vals[1]))
	case altitude:
		if len(vals) != 1 && len(vals) != 2 {
			return fmt.Errorf("altitude takes a pressure and optionally a sea level pressure")
		}
		seaLevel := convert.StandardPressure
		if len(vals) == 2 {
			seaLevel = vals[1]
		}
		fmt.Fprintln(stdout, convert.Altitude(vals[0], seaLevel))
	default:
		f, err := converter(from, to)
		if err != nil {
			return err
		}
		for _, v := range vals {
			fmt.Fprintln(stdout, f(v))
		}
	}

	return nil
}

func init() {
	flag.StringVar(&from, "from", "c", "unit to convert from: c, f, pa, inhg, m")
	flag.StringVar(&to, "to", "f", "unit to convert to: c, f, inhg, mmhg, atm, ft")
	flag.BoolVar(&dewpoint, "dewpoint", false, "compute the dewpoint from a temperature and relative humidity")
	flag.BoolVar(&altitude, "altitude", false, "compute the altitude from a pressure and optional sea level pressure")
	flag.BoolVar(&summary, "stats", false, "print summary statistics of the numbers read from stdin as JSON")
	flag.IntVar(&capacity, "capacity", 0, "number of samples to allocate room for up front with -stats")

	flag.Usage = func() {
		message := `usage: sensorconv [options] value...
       sensorconv -stats < values

Options:
`

		fmt.Fprint(flag.CommandLine.Output(), message)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if capacity < 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "sensorconv: %v\n", err)
		os.Exit(1)
	}
}
