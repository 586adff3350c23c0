// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validators runs the category validator of each candidate. Dispatch
// is a closed switch over detector.Category; TestEveryCategoryHasAValidator
// fails when a category reaches the default branch.
package validators

import (
	"time"

	"piishield/internal/detector"
	"piishield/internal/help"
	"piishield/internal/validators/aadhaar"
	"piishield/internal/validators/banking"
	"piishield/internal/validators/creditcard"
	"piishield/internal/validators/email"
	"piishield/internal/validators/govid"
	"piishield/internal/validators/personal"
	"piishield/internal/validators/phone"
)

// Set holds one validator per family. It is immutable once built.
type Set struct {
	aadhaar  *aadhaar.Validator
	card     *creditcard.Validator
	phone    *phone.Validator
	email    *email.Validator
	govid    *govid.Validator
	banking  *banking.Validator
	personal *personal.Validator
}

// NewSet builds the validators; now is the clock used for dates (nil means time.Now)
func NewSet(now func() time.Time) *Set {
	return &Set{
		aadhaar:  aadhaar.NewValidator(),
		card:     creditcard.NewValidator(),
		phone:    phone.NewValidator(),
		email:    email.NewValidator(),
		govid:    govid.NewValidator(),
		banking:  banking.NewValidator(),
		personal: personal.NewValidator(now),
	}
}

var defaultSet = NewSet(nil)

// Validate runs the validator of cat with the default set
func Validate(cat detector.Category, value string) detector.ValidationResult {
	return defaultSet.Validate(cat, value)
}

// Validate runs the validator of cat on value
func (s *Set) Validate(cat detector.Category, value string) detector.ValidationResult {
	switch cat {
	case detector.Aadhaar:
		return s.aadhaar.Validate(value)
	case detector.PAN:
		return s.govid.ValidatePAN(value)
	case detector.DrivingLicense:
		return s.govid.ValidateDrivingLicense(value)
	case detector.Passport:
		return s.govid.ValidatePassport(value)
	case detector.VoterID:
		return s.govid.ValidateVoterID(value)
	case detector.PaymentCard:
		return s.card.Validate(value)
	case detector.BankAccount:
		return s.banking.ValidateAccount(value)
	case detector.IFSC:
		return s.banking.ValidateIFSC(value)
	case detector.Mobile:
		return s.phone.Validate(value)
	case detector.Email:
		return s.email.Validate(value)
	case detector.DateOfBirth:
		return s.personal.ValidateDOB(value)
	case detector.Age:
		return s.personal.ValidateAge(value)
	case detector.Pincode:
		return s.personal.ValidatePincode(value)
	case detector.Address:
		return s.personal.ValidateAddress(value)
	case detector.PersonName, detector.FatherName, detector.MotherName:
		return s.personal.ValidateName(value)
	case detector.BiometricID:
		return s.personal.ValidateBiometric(value)
	case detector.HealthID:
		return s.personal.ValidateHealthID(value)
	}
	return detector.Inconclusive("none", "no validator for category "+cat.String())
}

// ValidateAll validates every candidate; results are index-aligned with cands
func (s *Set) ValidateAll(cands []detector.Candidate) []detector.ValidationResult {
	out := make([]detector.ValidationResult, len(cands))
	for i, c := range cands {
		res := s.Validate(c.Category, c.Value)
		res.CandidateID = c.ID
		out[i] = res
	}
	return out
}

// Providers returns the help providers of every validator family
func (s *Set) Providers() []help.Provider {
	return []help.Provider{s.aadhaar, s.govid, s.card, s.banking, s.phone, s.email, s.personal}
}

// CheckInfos describes every category, with the mandatory flag and priority filled in
func (s *Set) CheckInfos() []help.CheckInfo {
	var out []help.CheckInfo
	for _, p := range s.Providers() {
		for _, info := range p.GetCheckInfo() {
			if cat, err := detector.ParseCategory(info.Name); err == nil {
				info.Mandatory = cat.MandatoryValidator()
				info.Priority = cat.Priority()
			}
			out = append(out, info)
		}
	}
	return out
}
