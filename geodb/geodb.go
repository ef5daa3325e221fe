// Package geodb loads compiled xt_geoip range tables and answers lookups against them.
package geodb

import (
	"fmt"
	"io"
	"net/netip"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go4.org/netipx"

	"xtgeoip/ipaddresses"
)

// GeoDB holds the tables of one address family.
type GeoDB struct {
	family ipaddresses.Family
	tree   *btree.BTree
	byCode map[string][]Interval
	logger zerolog.Logger
}

// Open loads every table of the given family found in dir.
func Open(logger zerolog.Logger, fs FileSystem, dir string, family ipaddresses.Family) (*GeoDB, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrReadFailed, "%s: %v", dir, err)
	}

	db := &GeoDB{family: family, byCode: map[string][]Interval{}, logger: logger}
	suffix := family.Suffix()

	var all []Interval
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || len(name) != 2+len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(ErrReadFailed, "%s: %v", path, err)
		}

		intervals, err := ReadTable(data, family)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}

		code := strings.ToUpper(name[:2])
		for i := range intervals {
			intervals[i].Code = code
		}
		db.byCode[code] = intervals
		all = append(all, intervals...)
	}

	if err := validate(all); err != nil {
		logger.Err(err).Str("dir", dir).Msg("Error while validating range tables")
		return nil, err
	}

	db.tree = btree.New(2)
	for _, iv := range all {
		db.tree.ReplaceOrInsert(treeNode(iv))
	}

	logger.Info().Str("dir", dir).Str("family", family.String()).Int("tables", len(db.byCode)).Int("intervals", len(all)).Msg("Loaded range tables")
	return db, nil
}

// Lookup returns the code of the country whose table covers ipAddr, or "".
func (db *GeoDB) Lookup(ipAddr string) (countryCode string) {
	ip, err := ipaddresses.ParseAddress(ipAddr, db.family)
	if err != nil {
		return
	}

	addr, _ := netip.AddrFromSlice(ip)
	found := db.tree.Get(treeNode{Start: addr, End: addr})

	// Special-purpose blocks are never part of the tables.
	if found == nil {
		if special, _ := ipaddresses.IsSpecialPurposeAddress(ipAddr); !special {
			db.logger.Warn().Msgf("GeoDB failed to look up record for IP address %s", ipAddr)
		}
		return
	}

	countryCode = found.(treeNode).Code
	return
}

// Codes returns the codes of all loaded tables, sorted.
func (db *GeoDB) Codes() []string {
	codes := make([]string, 0, len(db.byCode))
	for code := range db.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Intervals returns the intervals of a country in table order.
func (db *GeoDB) Intervals(code string) []Interval {
	return append([]Interval(nil), db.byCode[strings.ToUpper(code)]...)
}

// Dump writes every interval of a country together with the smallest set of
// networks covering it.
func (db *GeoDB) Dump(w io.Writer, code string) error {
	for _, iv := range db.Intervals(code) {
		var prefixes []string
		for _, p := range netipx.IPRangeFrom(iv.Start, iv.End).Prefixes() {
			prefixes = append(prefixes, p.String())
		}

		if _, err := fmt.Fprintf(w, "%s-%s\t%s\n", iv.Start, iv.End, strings.Join(prefixes, " ")); err != nil {
			return err
		}
	}
	return nil
}

func validate(intervals []Interval) error {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Less(intervals[j].Start)
	})

	for i, curr := range intervals {
		if curr.End.Less(curr.Start) {
			return errors.Wrapf(ErrInvalidInterval, "(%s, %s, %s)", curr.Start, curr.End, curr.Code)
		}

		if i == 0 {
			continue
		}

		prev := intervals[i-1]
		if !prev.End.Less(curr.Start) {
			return errors.Wrapf(ErrOverlap, "(%s, %s, %s) and (%s, %s, %s)", prev.Start, prev.End, prev.Code, curr.Start, curr.End, curr.Code)
		}
	}

	return nil
}

// treeNode orders disjoint intervals. A single address compares equal to the
// interval containing it.
type treeNode Interval

func (node treeNode) Less(other btree.Item) bool {
	o := other.(treeNode)
	return node.Start.Less(o.Start) && node.End.Less(o.End)
}
