package logging

import (
	"xtgeoip/csvfeed"
	"xtgeoip/ipaddresses"
)

const (
	reportCategory      = "XtGeoipBuild"
	loadCountriesOpName = "LoadCountries"
	compileRangesOpName = "CompileRanges"
	resultSucceeded     = "Succeeded"
	resultFailed        = "Failed"
)

type reportEntry struct {
	OperationName string              `json:"operationName"`
	Category      string              `json:"category"`
	Properties    reportEntryProperty `json:"properties"`
}

type reportEntryProperty struct {
	Feed    string             `json:"feed"`
	Family  string             `json:"family,omitempty"`
	Count   int                `json:"count"`
	Result  string             `json:"result"`
	Details reportDetailsEntry `json:"details"`
}

type reportDetailsEntry struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
}

func newCountriesEntry(feed string, countries int, err error) *reportEntry {
	return newReportEntry(loadCountriesOpName, feed, "", countries, err)
}

func newRangesEntry(family ipaddresses.Family, feed string, rows int, err error) *reportEntry {
	return newReportEntry(compileRangesOpName, feed, family.String(), rows, err)
}

func newReportEntry(op, feed, family string, count int, err error) *reportEntry {
	p := reportEntryProperty{
		Feed:   feed,
		Family: family,
		Count:  count,
		Result: resultSucceeded,
	}
	if err != nil {
		p.Result = resultFailed
		p.Details = reportDetailsEntry{Message: err.Error(), Line: csvfeed.LineOf(err)}
	}

	return &reportEntry{
		OperationName: op,
		Category:      reportCategory,
		Properties:    p,
	}
}
