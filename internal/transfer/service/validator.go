package service

import (
	"fmt"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

type validationRule struct {
	failed  func(c *casesDomain.Case) bool
	message string
}

// Validator checks that cases are safe to transfer. Every rule runs against every case;
// findings are collected, never short-circuited.
type Validator struct {
	rules []validationRule
}

// NewValidator creates a validator with the pending-action and listed-hearing rules, in
// that order.
func NewValidator() *Validator {
	return &Validator{
		rules: []validationRule{
			{
				failed:  (*casesDomain.Case).HasUnclearedActions,
				message: "Case %s has pending actions that have not been cleared",
			},
			{
				failed:  (*casesDomain.Case).HasListedHearings,
				message: "Case %s has hearings listed",
			},
		},
	}
}

// Validate returns one message per failed rule, in rule order.
func (v *Validator) Validate(c *casesDomain.Case) []string {
	var messages []string
	for _, rule := range v.rules {
		if rule.failed(c) {
			messages = append(messages, fmt.Sprintf(rule.message, c.Reference))
		}
	}
	return messages
}

// ValidateSet validates every case of the set in resolution order.
func (v *Validator) ValidateSet(set *transferDomain.LinkedCaseSet) []string {
	var messages []string
	for _, c := range set.Cases() {
		messages = append(messages, v.Validate(c)...)
	}
	return messages
}
