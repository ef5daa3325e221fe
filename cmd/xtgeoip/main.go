package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"xtgeoip/compiler"
	"xtgeoip/config"
	"xtgeoip/converter"
	"xtgeoip/csvfeed"
	"xtgeoip/logging"
)

// exitUsage is returned for command line errors.
const exitUsage = 64

type osFileSystem struct{}

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fset := flag.NewFlagSet("xtgeoip", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprintf(stderr, "Usage: xtgeoip [options]\n\nConverts GeoLite2 country CSV feeds into xt_geoip range tables.\n\n")
		fset.PrintDefaults()
	}

	var (
		allow, forbid, countryFile, ipv4File, ipv6File, targetDir string
		noVirtual, verbose                                        bool
	)
	stringFlag := func(p *string, short, long, usage string) {
		fset.StringVar(p, short, "", usage)
		fset.StringVar(p, long, "", usage)
	}
	boolFlag := func(p *bool, short, long, usage string) {
		fset.BoolVar(p, short, false, usage)
		fset.BoolVar(p, long, false, usage)
	}

	stringFlag(&allow, "a", "allow-countries", "only generate tables for these comma separated country codes")
	stringFlag(&forbid, "f", "forbid-countries", "do not generate tables for these comma separated country codes")
	boolFlag(&noVirtual, "n", "no-virtual-countries", "do not generate tables for the A1, A2 and O1 virtual countries")
	stringFlag(&countryFile, "c", "country-file", "country feed (default "+config.DefaultCountryFile+")")
	stringFlag(&ipv4File, "4", "ipv4-file", "IPv4 range feed, empty to skip IPv4 (default "+config.DefaultIPv4File+")")
	stringFlag(&ipv6File, "6", "ipv6-file", "IPv6 range feed, empty to skip IPv6 (default "+config.DefaultIPv6File+")")
	stringFlag(&targetDir, "d", "target-dir", "output directory (default "+config.DefaultTargetDir+")")
	boolFlag(&verbose, "v", "verbose", "report progress")
	configPath := fset.String("config", "", "YAML configuration file; command line options take precedence")
	logLevel := fset.String("loglevel", "", "sets log level. Can be one of: debug, info, warn, error, fatal, panic.")
	reportFile := fset.String("report", "", "append a JSON build report to this file")

	if err := fset.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return exitUsage
	}
	if fset.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument %q\n", fset.Arg(0))
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(osFileSystem{}, *configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a", "allow-countries":
			cfg.AllowCountries = allow
		case "f", "forbid-countries":
			cfg.ForbidCountries = forbid
		case "n", "no-virtual-countries":
			cfg.NoVirtualCountries = noVirtual
		case "c", "country-file":
			cfg.CountryFile = countryFile
		case "4", "ipv4-file":
			cfg.IPv4File = ipv4File
		case "6", "ipv6-file":
			cfg.IPv6File = ipv6File
		case "d", "target-dir":
			cfg.TargetDir = targetDir
		case "v", "verbose":
			cfg.Verbose = verbose
		case "loglevel":
			cfg.LogLevel = *logLevel
		case "report":
			cfg.ReportFile = *reportFile
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level, _ := cfg.Level()
	logger := logging.NewConsoleLogger(stderr, level)

	report := logging.NewZerologReportLogger(logger)
	if cfg.ReportFile != "" {
		fileReport, err := logging.NewFileReportLogger(logging.NewLogFileSystem(), logger, cfg.ReportFile)
		if err != nil {
			return exitUsage
		}
		report = fileReport
	}
	defer report.Close()

	res := converter.Run(logger, cfg, csvfeed.NewFileSystem(), compiler.NewOutputFileSystem(), report)
	return res.ExitCode()
}
