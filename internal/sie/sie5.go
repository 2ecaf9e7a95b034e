package sie

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klarbok/klarbok/internal/core/domain"
)

// Namespace is the XML namespace of SIE5 documents.
const Namespace = "http://www.sie.se/sie5"

type sie5Document struct {
	XMLName     xml.Name         `xml:"Sie"`
	Company     sie5Company      `xml:"Company"`
	FiscalYears []sie5FiscalYear `xml:"FiscalYears>FiscalYear"`
	Accounts    []sie5Account    `xml:"Accounts>Account"`
}

type sie5Company struct {
	Name           string `xml:"name,attr"`
	OrganizationID string `xml:"organizationId,attr"`
}

type sie5FiscalYear struct {
	Start   string `xml:"start,attr"`
	End     string `xml:"end,attr"`
	Primary string `xml:"primary,attr"`
}

type sie5Account struct {
	ID             string              `xml:"id,attr"`
	Name           string              `xml:"name,attr"`
	Type           string              `xml:"type,attr"`
	OpeningBalance *sie5OpeningBalance `xml:"OpeningBalance"`
	ClosingBalance *sie5ClosingBalance `xml:"ClosingBalance"`
}

type sie5OpeningBalance struct {
	Amount string `xml:"amount,attr"`
}

type sie5ClosingBalance struct {
	Amount string `xml:"amount,attr"`
}

// parseSIE5 decodes a SIE5 XML document. A root element outside the SIE5
// namespace is an unsupported format; malformed XML and bad field values are
// collected as issues.
func parseSIE5(ctx context.Context, raw []byte) (*ParsedLedgerImport, error) {
	doc := &ParsedLedgerImport{Format: FormatSIE5}

	if len(bytes.TrimSpace(raw)) == 0 {
		doc.addIssue(0, "file is empty")
		return doc, nil
	}
	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	root, err := rootElement(raw)
	if err != nil {
		doc.addIssue(0, "malformed XML: %v", err)
		return doc, nil
	}
	if root.Space != Namespace || root.Local != "Sie" {
		return nil, fmt.Errorf("%w: root element {%s}%s is not a SIE5 document", ErrUnsupportedFormat, root.Space, root.Local)
	}

	var xdoc sie5Document
	if err := xml.Unmarshal(raw, &xdoc); err != nil {
		doc.addIssue(0, "malformed XML: %v", err)
		return doc, nil
	}

	doc.CompanyName = xdoc.Company.Name
	doc.OrganizationNumber = xdoc.Company.OrganizationID

	if fy, ok := primaryFiscalYear(xdoc.FiscalYears); ok {
		start, err := time.Parse("2006-01-02", fy.Start)
		if err != nil {
			doc.addIssue(0, "fiscal year start %q is not YYYY-MM-DD", fy.Start)
		} else {
			doc.FiscalYearStart = start
		}
		end, err := time.Parse("2006-01-02", fy.End)
		if err != nil {
			doc.addIssue(0, "fiscal year end %q is not YYYY-MM-DD", fy.End)
		} else {
			doc.FiscalYearEnd = end
		}
		if !doc.FiscalYearStart.IsZero() && !doc.FiscalYearEnd.IsZero() && doc.FiscalYearEnd.Before(doc.FiscalYearStart) {
			doc.addIssue(0, "fiscal year end %s precedes start %s", fy.End, fy.Start)
		}
	}

	for _, acc := range xdoc.Accounts {
		parsed := ParsedAccount{
			AccountNumber: strings.TrimSpace(acc.ID),
			Name:          acc.Name,
			Class:         accountClassForSIE5Type(acc.Type),
		}
		if acc.OpeningBalance != nil {
			amount, err := ParseAmount(acc.OpeningBalance.Amount)
			if err != nil {
				doc.addIssue(0, "account %s opening balance %q is not a valid decimal", acc.ID, acc.OpeningBalance.Amount)
			} else {
				parsed.OpeningBalance = &amount
			}
		}
		if acc.ClosingBalance != nil {
			amount, err := ParseAmount(acc.ClosingBalance.Amount)
			if err != nil {
				doc.addIssue(0, "account %s closing balance %q is not a valid decimal", acc.ID, acc.ClosingBalance.Amount)
			} else {
				parsed.ClosingBalance = &amount
			}
		}
		doc.Accounts = append(doc.Accounts, parsed)
	}

	return doc, nil
}

// rootElement reads tokens until the first start element so the namespace can
// be checked before committing to a full unmarshal.
func rootElement(raw []byte) (xml.Name, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.Name{}, fmt.Errorf("no root element")
		}
		if err != nil {
			return xml.Name{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name, nil
		}
	}
}

// primaryFiscalYear picks the fiscal year flagged primary="true", or the only
// one when exactly one is present.
func primaryFiscalYear(years []sie5FiscalYear) (sie5FiscalYear, bool) {
	for _, fy := range years {
		if strings.EqualFold(fy.Primary, "true") {
			return fy, true
		}
	}
	if len(years) == 1 {
		return years[0], true
	}
	return sie5FiscalYear{}, false
}

func accountClassForSIE5Type(t string) domain.AccountClass {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "asset":
		return domain.Assets
	case "liability":
		return domain.Liabilities
	case "equity":
		return domain.Equity
	case "income", "revenue":
		return domain.Revenue
	case "cost", "expense":
		return domain.Expenses
	default:
		return ""
	}
}
