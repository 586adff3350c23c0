// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personal

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the personal attribute checks
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	nameRules := []string{"2 to 50 letters and spaces", "not a bare title (Mr, Dr, Smt, ...)"}
	return []help.CheckInfo{
		{
			Name:             "DOB",
			ShortDescription: "Detects dates of birth",
			Patterns:         []string{"dd/mm/yyyy, mm/dd/yyyy, yyyy-mm-dd", "15 Aug 1990", "DOB: label"},
			Validation:       []string{"parses as a calendar date", "not in the future", "year 1900 or later"},
			Examples:         []string{"DOB: 15/08/1990"},
		},
		{
			Name:             "AGE",
			ShortDescription: "Detects ages next to an age label",
			Patterns:         []string{"Age: 34", "34 years old"},
			Validation:       []string{"0 to 150"},
		},
		{
			Name:             "PINCODE",
			ShortDescription: "Detects 6-digit postal index numbers",
			Patterns:         []string{"6 digits (e.g., 560001)", "PIN: 560 001"},
			Validation:       []string{"6 digits", "no leading zero"},
		},
		{
			Name:             "ADDRESS",
			ShortDescription: "Detects postal addresses",
			Patterns:         []string{"Address: label followed by the line", "house or flat number up to a street word"},
			Validation:       []string{"longer than 10 characters", "contains a street keyword (road, nagar, sector, ...)"},
		},
		{
			Name:             "PERSON_NAME",
			ShortDescription: "Detects names next to a name label",
			Patterns:         []string{"Name: Ravi Kumar"},
			Validation:       nameRules,
		},
		{
			Name:             "FATHER_NAME",
			ShortDescription: "Detects father's or guardian's names",
			Patterns:         []string{"Father's Name: Suresh Kumar", "S/O Suresh Kumar"},
			Validation:       nameRules,
		},
		{
			Name:             "MOTHER_NAME",
			ShortDescription: "Detects mother's names",
			Patterns:         []string{"Mother's Name: Lakshmi Devi"},
			Validation:       nameRules,
		},
		{
			Name:             "BIOMETRIC_ID",
			ShortDescription: "Detects biometric template identifiers",
			Patterns:         []string{"12 to 16 digits"},
			Validation:       []string{"12 to 16 digits"},
		},
		{
			Name:             "HEALTH_ID",
			ShortDescription: "Detects ABHA health account numbers",
			Patterns:         []string{"12-3456-7890-1234", "ABHA: 14 digits"},
			Validation:       []string{"14 digits, dashed 2-4-4-4 or plain"},
		},
	}
}
