// Package converter runs a complete conversion: it loads the country feed,
// applies the configured filter and compiles the IPv4 and IPv6 range feeds.
package converter

import (
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"xtgeoip/compiler"
	"xtgeoip/config"
	"xtgeoip/countries"
	"xtgeoip/csvfeed"
	"xtgeoip/ipaddresses"
	"xtgeoip/logging"
)

// Exit codes of a conversion run.
const (
	ExitSuccess        = 0
	ExitCountryFailure = 1
	ExitNoRanges       = 2
)

// Result summarizes a conversion run.
type Result struct {
	Countries int
	Virtual   int
	Filtered  int

	IPv4, IPv6 int

	CountryErr error
	Err4, Err6 error
}

// ExitCode maps the result onto the process exit status.
func (r Result) ExitCode() int {
	switch {
	case r.CountryErr != nil:
		return ExitCountryFailure
	case r.IPv4 > 0 || r.IPv6 > 0:
		return ExitSuccess
	}
	return ExitNoRanges
}

// Run performs a conversion. Feeds are read from in and tables written to out.
// The two range feeds are compiled concurrently, and a failure of one does not
// stop the other.
func Run(logger zerolog.Logger, cfg config.Main, in csvfeed.FileSystem, out compiler.OutputFileSystem, report logging.ReportLogger) (res Result) {
	registry := countries.NewRegistry(logger, in)
	registry.MaxLineLength = cfg.MaxLineLength

	logger.Info().Str("file", cfg.CountryFile).Msg("Processing country file")
	res.Countries, res.CountryErr = registry.LoadFile(cfg.CountryFile)
	report.CountriesLoaded(cfg.CountryFile, res.Countries, res.CountryErr)
	if res.CountryErr != nil {
		logger.Error().Err(res.CountryErr).Str("file", cfg.CountryFile).Msg("Unable to process country file")
		return
	}
	logger.Info().Int("countries", res.Countries).Msg("Read countries")

	if !cfg.NoVirtualCountries {
		res.Virtual = registry.AddVirtualCountries()
		logger.Info().Int("countries", res.Virtual).Msg("Added virtual countries")
	}

	if codes, forbid, ok := cfg.Filter(); ok {
		res.Filtered = registry.Filter(countries.ParseCodeList(codes), forbid)
		logger.Info().Int("countries", res.Filtered).Bool("forbid", forbid).Msg("Filtered countries")
	}

	c := compiler.New(logger, registry, in, out, cfg.TargetDir)
	c.MaxLineLength = cfg.MaxLineLength

	var g errgroup.Group
	compile := func(family ipaddresses.Family, feed string, rows *int, errp *error) {
		if feed == "" {
			logger.Info().Str("family", family.String()).Msg("Range file disabled")
			return
		}

		g.Go(func() error {
			logger.Info().Str("family", family.String()).Str("file", feed).Msg("Processing range file")
			*rows, *errp = c.CompileFile(feed, family)
			report.RangesCompiled(family, feed, *rows, *errp)

			if *errp != nil {
				logger.Error().Err(*errp).Str("family", family.String()).Str("file", feed).Msg("Unable to process range file")
			} else {
				logger.Info().Str("family", family.String()).Int("ranges", *rows).Msg("Processed range file")
			}
			return nil
		})
	}

	compile(ipaddresses.IPv4, cfg.IPv4File, &res.IPv4, &res.Err4)
	compile(ipaddresses.IPv6, cfg.IPv6File, &res.IPv6, &res.Err6)
	_ = g.Wait()

	return
}
