// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package junit

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"piishield/internal/formatters"
	"piishield/internal/formatters/shared"
	"piishield/internal/report"
)

// JUnit XML structures based on the standard JUnit XML schema
type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Errors     int         `xml:"errors,attr"`
	Time       string      `xml:"time,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	Time      string     `xml:"time,attr"`
	TestCases []TestCase `xml:"testcase"`
}

type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Failure `xml:"failure,omitempty"`
}

type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Formatter implements JUnit XML output formatting. Every document is a test
// case that fails when a span was left unredacted or the output re-scan found
// residual PII.
type Formatter struct{}

// NewFormatter creates a new JUnit XML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "junit"
}

func (f *Formatter) Description() string {
	return "JUnit XML format for CI/CD integration and test reporting"
}

func (f *Formatter) FileExtension() string {
	return ".xml"
}

func (f *Formatter) Format(summaries []*report.Summary, options formatters.FormatterOptions) (string, error) {
	suite := TestSuite{Name: "redaction", TestCases: []TestCase{}}
	var millis int64
	for _, s := range summaries {
		if s == nil {
			continue
		}
		tc := f.createTestCase(s)
		suite.TestCases = append(suite.TestCases, tc)
		suite.Tests++
		if tc.Failure != nil {
			suite.Failures++
		}
		millis += s.DurationMillis
	}
	suite.Time = seconds(millis)

	suites := TestSuites{
		Name:       "piishield",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       suite.Time,
		TestSuites: []TestSuite{suite},
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JUnit XML: %w", err)
	}
	return xml.Header + string(data), nil
}

func (f *Formatter) createTestCase(s *report.Summary) TestCase {
	tc := TestCase{
		Name:      s.Document,
		ClassName: "piishield." + strings.TrimPrefix(filepath.Ext(s.Document), "."),
		Time:      seconds(s.DurationMillis),
	}
	if s.Success {
		return tc
	}

	var content strings.Builder
	for _, fs := range s.Failed {
		fmt.Fprintf(&content, "%s %s: %s\n", fs.Origin, strings.Join(fs.Categories, ","), fs.Reason)
	}
	message := fmt.Sprintf("%d span(s) not redacted", len(s.Failed))
	failureType := "UnredactedSpan"
	if v := s.Verification; v != nil && !v.Clean() {
		if len(s.Failed) == 0 {
			message = fmt.Sprintf("%d residual finding(s) in output", v.Residual)
			failureType = "ResidualPII"
		}
		for _, cat := range shared.SortedCategories(v.Categories) {
			fmt.Fprintf(&content, "residual %s: %d\n", cat, v.Categories[cat])
		}
		if v.Error != "" {
			fmt.Fprintf(&content, "verification error: %s\n", v.Error)
		}
	}
	tc.Failure = &Failure{Message: message, Type: failureType, Content: content.String()}
	return tc
}

func seconds(millis int64) string {
	return fmt.Sprintf("%.3f", float64(millis)/1000)
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
