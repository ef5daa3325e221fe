package main

import (
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"

	"github.com/rs/zerolog"

	"xtgeoip/config"
	"xtgeoip/geodb"
	"xtgeoip/ipaddresses"
	"xtgeoip/logging"
)

const (
	exitNotFound = 1
	exitUsage    = 64
)

func main() {
	os.Exit(run(os.Args[1:], geodb.NewFileSystem(), os.Stdout, os.Stderr))
}

func run(args []string, fs geodb.FileSystem, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("xtgeoiplookup", flag.ContinueOnError)
	fset.SetOutput(stderr)

	dir := fset.String("d", config.DefaultTargetDir, "directory holding the range tables")
	ip := fset.String("ip", "", "print the country code of this address")
	dump := fset.String("dump", "", "print the ranges of this country code")
	family := fset.Int("family", 4, "address family of -dump, 4 or 6")
	logLevel := fset.String("loglevel", "warn", "sets log level. Can be one of: debug, info, warn, error, fatal, panic.")

	if err := fset.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return exitUsage
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger := logging.NewConsoleLogger(stderr, level)

	switch {
	case *ip != "" && *dump == "":
		addr, err := netip.ParseAddr(*ip)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		f := ipaddresses.IPv6
		if addr.Is4() {
			f = ipaddresses.IPv4
		}

		db, err := geodb.Open(logger, fs, *dir, f)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitNotFound
		}
		code := db.Lookup(*ip)
		if code == "" {
			fmt.Fprintln(stdout, "--")
			return exitNotFound
		}
		fmt.Fprintln(stdout, code)
		return 0

	case *dump != "" && *ip == "":
		f := ipaddresses.Family(*family)
		if !f.Valid() {
			fmt.Fprintf(stderr, "invalid address family %d\n", *family)
			return exitUsage
		}

		db, err := geodb.Open(logger, fs, *dir, f)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitNotFound
		}
		if err := db.Dump(stdout, *dump); err != nil {
			fmt.Fprintln(stderr, err)
			return exitNotFound
		}
		return 0
	}

	fset.Usage()
	return exitUsage
}
