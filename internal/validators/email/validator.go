// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"regexp"
	"strings"

	"piishield/internal/detector"
)

const validatorName = "email_syntax"

var (
	localPart = regexp.MustCompile("^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*$")
	domainLbl = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)
	tld       = regexp.MustCompile(`^[a-z]{2,24}$`)
)

// Validator checks the shape of email addresses
type Validator struct {
	// Addresses used as form placeholders rather than real mailboxes
	placeholderAddresses map[string]bool
}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	v := &Validator{placeholderAddresses: make(map[string]bool)}
	for _, a := range []string{
		"test@test.com", "email@example.com", "user@example.com", "name@example.com",
		"abc@xyz.com", "your@email.com", "youremail@example.com", "someone@example.com",
		"example@example.com", "name@domain.com",
	} {
		v.placeholderAddresses[a] = true
	}
	return v
}

// Validate requires exactly one '@', an RFC-shaped local part and a dotted
// domain with an alphabetic top-level label.
func (v *Validator) Validate(value string) detector.ValidationResult {
	addr := strings.ToLower(strings.TrimSpace(value))
	if addr == "" {
		return detector.Inconclusive(validatorName, "empty value")
	}
	if strings.Count(addr, "@") != 1 {
		return detector.Fail(validatorName, addr, "expected exactly one @")
	}
	local, domain, _ := strings.Cut(addr, "@")
	if len(local) == 0 || len(local) > 64 || !localPart.MatchString(local) {
		return detector.Fail(validatorName, addr, "invalid local part")
	}
	if !validDomain(domain) {
		return detector.Fail(validatorName, addr, "invalid domain")
	}
	if v.placeholderAddresses[addr] {
		return detector.Fail(validatorName, addr, "placeholder address")
	}
	return detector.Pass(validatorName, addr)
}

func validDomain(domain string) bool {
	if len(domain) > 253 {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if !domainLbl.MatchString(l) {
			return false
		}
	}
	return tld.MatchString(labels[len(labels)-1])
}
