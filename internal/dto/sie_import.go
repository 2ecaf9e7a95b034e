package dto

import "github.com/klarbok/klarbok/internal/sie"

// OrgMismatch surfaces an organization identity difference between a SIE
// document and the organization the caller is importing into. It is a
// decision point, not a validation failure: the caller chooses to proceed,
// create a new organization, or cancel.
type OrgMismatch struct {
	FileCompanyName        string `json:"fileCompanyName"`
	FileOrganizationNumber string `json:"fileOrganizationNumber"`
	CurrentName            string `json:"currentName"`
	CurrentOrgNumber       string `json:"currentOrganizationNumber"`
}

// ReconciledAccount tags one parsed account as new or already existing in the
// target organization.
type ReconciledAccount struct {
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	Exists        bool   `json:"exists"`
}

// ImportValidationResult is the outcome of validating a parsed SIE document
// against an organization. Errors is a complete list so the caller can render
// every problem at once.
type ImportValidationResult struct {
	IsValid      bool                `json:"isValid"`
	Errors       []sie.Issue         `json:"errors,omitempty"`
	AccountCount int                 `json:"accountCount"`
	OrgMismatch  *OrgMismatch        `json:"orgMismatch,omitempty"`
	Accounts     []ReconciledAccount `json:"accounts,omitempty"`
}

// ImportOptions controls the account import step.
type ImportOptions struct {
	ImportAccounts bool `json:"importAccounts"`
	SkipExisting   bool `json:"skipExisting"`
}

// ImportFailure records one account row that could not be written.
type ImportFailure struct {
	AccountNumber string `json:"accountNumber"`
	Reason        string `json:"reason"`
}

// ImportReport is the full diagnostic result of an account import, returned
// even on partial success.
type ImportReport struct {
	ImportedCount int             `json:"importedCount"`
	SkippedCount  int             `json:"skippedCount"`
	Failures      []ImportFailure `json:"failures,omitempty"`
}
