// Package models holds the plain entity records shared by the repositories and services.
// Records carry no storage handle; persistence lives in internal/adapters/sqlite.
package models

import (
	"strings"

	"github.com/example/blotter/internal/errs"
)

// Priority of a case.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
}

// ParsePriority accepts a priority name case-insensitively. Blank means Normal.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityNormal, nil
	}
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", errs.Validation("case", "unknown priority %q", s)
}

// PersonType tags a Person for search.
type PersonType string

const (
	PersonComplainant PersonType = "Complainant"
	PersonWitness     PersonType = "Witness"
	PersonSuspect     PersonType = "Suspect"
	PersonRespondent  PersonType = "Respondent"
)

// PersonTypes lists every person type.
func PersonTypes() []PersonType {
	return []PersonType{PersonComplainant, PersonWitness, PersonSuspect, PersonRespondent}
}

// ParsePersonType accepts a person type case-insensitively.
func ParsePersonType(s string) (PersonType, error) {
	for _, p := range PersonTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", errs.Validation("person", "unknown person type %q", s)
}

// SmsStatus is the delivery state of a queued text message.
type SmsStatus string

const (
	SmsPending SmsStatus = "Pending"
	SmsSent    SmsStatus = "Sent"
	SmsFailed  SmsStatus = "Failed"
)

// ParseSmsStatus accepts an SMS status case-insensitively.
func ParseSmsStatus(s string) (SmsStatus, error) {
	for _, st := range []SmsStatus{SmsPending, SmsSent, SmsFailed} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", errs.Validation("sms notification", "unknown sms status %q", s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func cloneIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	copy(out, ss)
	return out
}
