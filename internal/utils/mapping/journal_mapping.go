package mapping

import (
	"github.com/klarbok/klarbok/internal/core/domain"
	"github.com/klarbok/klarbok/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:            d.EntryID,
		OrganizationID:     d.OrganizationID,
		FiscalYearID:       d.FiscalYearID,
		VerificationNumber: d.VerificationNumber,
		EntryDate:          d.EntryDate,
		Description:        d.Description,
		Status:             models.EntryStatus(d.Status),
		SourceType:         string(d.SourceType),
		PostedAt:           d.PostedAt,
		OriginalEntryID:    d.OriginalEntryID,
		ReversingEntryID:   d.ReversingEntryID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:            m.EntryID,
		OrganizationID:     m.OrganizationID,
		FiscalYearID:       m.FiscalYearID,
		VerificationNumber: m.VerificationNumber,
		EntryDate:          m.EntryDate,
		Description:        m.Description,
		Status:             domain.EntryStatus(m.Status),
		SourceType:         domain.EntrySource(m.SourceType),
		PostedAt:           m.PostedAt,
		OriginalEntryID:    m.OriginalEntryID,
		ReversingEntryID:   m.ReversingEntryID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line to a model line
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:             d.LineID,
		EntryID:            d.EntryID,
		AccountID:          d.AccountID,
		DebitAmount:        d.DebitAmount,
		CreditAmount:       d.CreditAmount,
		LineOrder:          d.LineOrder,
		EntryDate:          d.EntryDate,
		VerificationNumber: d.VerificationNumber,
		EntryDescription:   d.EntryDescription,
	}
}

// ToDomainJournalEntryLine converts a model line to a domain line
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:             m.LineID,
		EntryID:            m.EntryID,
		AccountID:          m.AccountID,
		DebitAmount:        m.DebitAmount,
		CreditAmount:       m.CreditAmount,
		LineOrder:          m.LineOrder,
		EntryDate:          m.EntryDate,
		VerificationNumber: m.VerificationNumber,
		EntryDescription:   m.EntryDescription,
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
