// Package compiler turns a range feed into per-country xt_geoip tables.
//
// Every table is a flat run of big-endian (start, end) address pairs, 4 bytes
// per address for IPv4 and 16 for IPv6. Consecutive feed rows that belong to
// the same country and cover adjacent networks are merged into one pair.
package compiler

import (
	"bufio"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xtgeoip/countries"
	"xtgeoip/csvfeed"
	"xtgeoip/ipaddresses"
)

// Columns a range feed must provide.
var requiredColumns = []string{
	"network",
	"geoname_id",
	"registered_country_geoname_id",
	"is_anonymous_proxy",
	"is_satellite_provider",
}

const (
	networkCol = iota
	geonameIDCol
	registeredIDCol
	proxyCol
	satelliteCol
)

// Compiler writes range tables for the countries of a registry.
type Compiler struct {
	// MaxLineLength limits the length of a feed line; 0 means csvfeed.DefaultMaxLineLength.
	MaxLineLength int

	logger    zerolog.Logger
	registry  *countries.Registry
	in        csvfeed.FileSystem
	out       OutputFileSystem
	targetDir string
}

// New creates a Compiler that reads feeds from in and writes tables below targetDir on out.
// The registry must not change while a compilation is running.
func New(logger zerolog.Logger, registry *countries.Registry, in csvfeed.FileSystem, out OutputFileSystem, targetDir string) *Compiler {
	return &Compiler{
		logger:    logger,
		registry:  registry,
		in:        in,
		out:       out,
		targetDir: targetDir,
	}
}

// TablePath returns the path of the table for a country code and family.
func (c *Compiler) TablePath(code string, family ipaddresses.Family) string {
	return filepath.Join(c.targetDir, code+family.Suffix())
}

// CompileFile compiles the range feed stored in the named file.
func (c *Compiler) CompileFile(name string, family ipaddresses.Family) (int, error) {
	if err := c.precheck(family); err != nil {
		return 0, err
	}

	f, err := c.in.Open(name)
	if err != nil {
		return 0, errors.Wrapf(ErrOpenFailed, "%s: %v", name, err)
	}
	defer f.Close()

	return c.Compile(f, family)
}

// Compile reads a range feed and writes one table per allowed country of the
// registry, replacing existing tables. It returns the number of feed rows
// written. Any error aborts the whole feed; the tables written so far must
// then be considered invalid. Errors caused by the feed content carry the line
// number.
func (c *Compiler) Compile(feed io.Reader, family ipaddresses.Family) (int, error) {
	if err := c.precheck(family); err != nil {
		return 0, err
	}

	comp := &compilation{
		Compiler: c,
		family:   family,
		resolver: c.registry.NewResolver(),
		sinks:    map[countries.CodeKey]*sink{},
	}

	if err := comp.open(); err != nil {
		comp.close()
		return 0, err
	}

	rows, err := comp.run(feed)
	if cerr := comp.close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}

	c.logger.Debug().
		Str("family", family.String()).
		Int("rows", rows).
		Int("intervals", comp.intervals).
		Int("tables", len(comp.sinks)).
		Msg("Compiled range feed")

	return rows, nil
}

func (c *Compiler) precheck(family ipaddresses.Family) error {
	if c.registry.Len() == 0 {
		return ErrNoCountries
	}
	if !family.Valid() {
		return errors.Wrapf(ErrInvalidFamily, "%d", int(family))
	}
	return nil
}

// compilation holds the state of a single Compile call.
type compilation struct {
	*Compiler

	family   ipaddresses.Family
	resolver *countries.Resolver
	sinks    map[countries.CodeKey]*sink

	// last is the range of the most recently written row and lastKey its country.
	last    ipaddresses.AddressRange
	lastKey countries.CodeKey
	// pending is the interval being grown by contiguous rows of lastKey.
	pending interval

	intervals int
}

type interval struct {
	start, end [ipaddresses.IPv6Bytes]byte
}

type sink struct {
	name string
	f    io.WriteCloser
	w    *bufio.Writer
}

// open creates the table of every allowed country.
func (comp *compilation) open() error {
	for _, country := range comp.registry.Countries() {
		if country.Forbidden {
			continue
		}

		name := comp.TablePath(country.Code, comp.family)
		f, err := comp.out.Create(name)
		if err != nil {
			return errors.Wrapf(ErrOpenOutput, "%s: %v", name, err)
		}

		comp.sinks[country.Key] = &sink{name: name, f: f, w: bufio.NewWriter(f)}
	}
	return nil
}

func (comp *compilation) run(feed io.Reader) (int, error) {
	reader := csvfeed.NewReader(feed, comp.MaxLineLength)
	cols, err := reader.ReadHeader(requiredColumns)
	if err == io.EOF {
		return 0, csvfeed.AtLine(reader.Line()+1, ErrNoUsableData)
	}
	if err != nil {
		return 0, err
	}

	rows := 0
	for {
		fields, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		written, err := comp.row(fields, cols.Positions)
		if err != nil {
			return 0, csvfeed.AtLine(reader.Line(), err)
		}
		if written {
			rows++
		}
	}

	if err := comp.flush(); err != nil {
		return 0, csvfeed.AtLine(reader.Line()+1, err)
	}
	if rows == 0 {
		return 0, csvfeed.AtLine(reader.Line()+1, ErrNoUsableData)
	}

	return rows, nil
}

// row processes a single feed row and reports whether it was written.
func (comp *compilation) row(fields []string, cols []int) (bool, error) {
	idText := fields[cols[geonameIDCol]]
	if !startsWithDigit(idText) {
		idText = fields[cols[registeredIDCol]]
	}

	id := countries.ParseGeonameID(idText)
	if countries.IsReserved(id) {
		return false, errors.Wrap(countries.ErrReservedGeonameID, idText)
	}

	proxy := truthy(fields[cols[proxyCol]])
	sat := truthy(fields[cols[satelliteCol]])

	country, ok := comp.resolver.Resolve(id, proxy, sat)
	if !ok {
		country, ok = comp.resolver.Resolve(countries.OtherGeonameID, false, false)
	}
	if !ok {
		comp.logger.Debug().Uint64("geonameID", id).Msg("Skipping range of unknown country")
		return false, nil
	}
	if country.Forbidden {
		return false, nil
	}

	s := comp.sinks[country.Key]
	if s == nil {
		return false, errors.Wrap(ErrMissingSink, country.Code)
	}

	network := fields[cols[networkCol]]
	r, err := ipaddresses.ParseCIDR(network)
	if err != nil {
		return false, errors.Wrap(ErrInvalidCIDR, err.Error())
	}
	if r.Family != comp.family {
		return false, errors.Wrapf(ErrWrongFamily, "%s in %s feed", network, comp.family)
	}

	if comp.lastKey == country.Key && ipaddresses.Contiguous(r, comp.last) {
		comp.extend(r)
	} else {
		if err := comp.flush(); err != nil {
			return false, err
		}
		copy(comp.pending.start[:], r.Start())
		copy(comp.pending.end[:], r.End())
	}

	comp.last = r
	comp.lastKey = country.Key
	return true, nil
}

// extend grows the pending interval by a range adjacent to the last one.
func (comp *compilation) extend(r ipaddresses.AddressRange) {
	n := comp.family.Bytes()
	if ipaddresses.Compare(r.Start(), comp.pending.start[:n], comp.family) < 0 {
		copy(comp.pending.start[:], r.Start())
		return
	}
	copy(comp.pending.end[:], r.End())
}

// flush writes the pending interval to the table of its country.
func (comp *compilation) flush() error {
	if comp.lastKey == 0 {
		return nil
	}

	s := comp.sinks[comp.lastKey]
	n := comp.family.Bytes()
	if _, err := s.w.Write(comp.pending.start[:n]); err != nil {
		return errors.Wrapf(ErrWriteFailed, "%s: %v", s.name, err)
	}
	if _, err := s.w.Write(comp.pending.end[:n]); err != nil {
		return errors.Wrapf(ErrWriteFailed, "%s: %v", s.name, err)
	}

	comp.intervals++
	comp.lastKey = 0
	return nil
}

// close flushes and closes every table and returns the first error.
func (comp *compilation) close() error {
	var first error
	for _, s := range comp.sinks {
		if err := s.w.Flush(); err != nil && first == nil {
			first = errors.Wrapf(ErrWriteFailed, "%s: %v", s.name, err)
		}
		if err := s.f.Close(); err != nil && first == nil {
			first = errors.Wrapf(ErrCloseFailed, "%s: %v", s.name, err)
		}
	}
	return first
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// truthy interprets a feed flag. Only an empty cell and "0" are false.
func truthy(s string) bool {
	return s != "" && s != "0"
}
