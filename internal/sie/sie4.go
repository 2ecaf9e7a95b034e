package sie

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// deadlineCheckInterval is how many lines the SIE4 scanner processes between
// context checks.
const deadlineCheckInterval = 512

// parseSIE4 decodes a SIE4 flat file. Each line is a #KEYWORD followed by
// space delimited fields; quoted fields may contain spaces. Unknown keywords
// are ignored per the SIE specification.
func parseSIE4(ctx context.Context, raw []byte) (*ParsedLedgerImport, error) {
	doc := &ParsedLedgerImport{Format: FormatSIE4}

	text := decodePC8(raw)
	if strings.TrimSpace(text) == "" {
		doc.addIssue(0, "file is empty")
		return doc, nil
	}

	accountIdx := make(map[string]int)
	lineNo := 0

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		if lineNo%deadlineCheckInterval == 0 {
			if err := checkDeadline(ctx); err != nil {
				return nil, err
			}
		}

		fields, err := splitFields(sc.Text())
		if err != nil {
			doc.addIssue(lineNo, "%v", err)
			continue
		}
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "#FNAMN":
			if len(fields) < 2 {
				doc.addIssue(lineNo, "#FNAMN requires a company name")
				continue
			}
			doc.CompanyName = fields[1]

		case "#ORGNR":
			if len(fields) >= 2 {
				doc.OrganizationNumber = fields[1]
			}

		case "#RAR":
			// Only year index 0 (the primary fiscal year) is relevant here;
			// comparison years use negative indexes.
			if len(fields) < 4 {
				doc.addIssue(lineNo, "#RAR requires a year index and two dates")
				continue
			}
			if fields[1] != "0" {
				continue
			}
			start, err := time.Parse("20060102", fields[2])
			if err != nil {
				doc.addIssue(lineNo, "#RAR start date %q is not YYYYMMDD", fields[2])
				continue
			}
			end, err := time.Parse("20060102", fields[3])
			if err != nil {
				doc.addIssue(lineNo, "#RAR end date %q is not YYYYMMDD", fields[3])
				continue
			}
			doc.FiscalYearStart = start
			doc.FiscalYearEnd = end

		case "#KONTO":
			if len(fields) < 3 {
				doc.addIssue(lineNo, "#KONTO requires an account number and a name")
				continue
			}
			number := fields[1]
			if idx, seen := accountIdx[number]; seen {
				// Last declaration wins, matching how other Swedish software
				// tolerates re-declared accounts.
				doc.Accounts[idx].Name = fields[2]
				continue
			}
			accountIdx[number] = len(doc.Accounts)
			doc.Accounts = append(doc.Accounts, ParsedAccount{
				AccountNumber: number,
				Name:          fields[2],
			})

		case "#IB":
			number, amount, ok := parseBalanceFields(doc, lineNo, "#IB", fields)
			if !ok {
				continue
			}
			idx, seen := accountIdx[number]
			if !seen {
				doc.addIssue(lineNo, "#IB references unknown account %q", number)
				continue
			}
			doc.Accounts[idx].OpeningBalance = &amount

		case "#UB":
			number, amount, ok := parseBalanceFields(doc, lineNo, "#UB", fields)
			if !ok {
				continue
			}
			idx, seen := accountIdx[number]
			if !seen {
				doc.addIssue(lineNo, "#UB references unknown account %q", number)
				continue
			}
			doc.Accounts[idx].ClosingBalance = &amount
		}
	}
	if err := sc.Err(); err != nil {
		doc.addIssue(lineNo, "read error: %v", err)
	}

	if !doc.FiscalYearStart.IsZero() && doc.FiscalYearEnd.Before(doc.FiscalYearStart) {
		doc.addIssue(0, "fiscal year end %s precedes start %s",
			doc.FiscalYearEnd.Format("2006-01-02"), doc.FiscalYearStart.Format("2006-01-02"))
	}

	return doc, nil
}

// parseBalanceFields handles the shared #IB/#UB shape: <yearindex> <account>
// <amount>. Returns ok=false after recording an issue, or for a non-zero year
// index (comparison year balances are skipped silently).
func parseBalanceFields(doc *ParsedLedgerImport, lineNo int, tag string, fields []string) (string, decimal.Decimal, bool) {
	if len(fields) < 4 {
		doc.addIssue(lineNo, "%s requires a year index, account and amount", tag)
		return "", decimal.Zero, false
	}
	if fields[1] != "0" {
		return "", decimal.Zero, false
	}
	amount, err := ParseAmount(fields[3])
	if err != nil {
		doc.addIssue(lineNo, "%s amount %q is not a valid decimal", tag, fields[3])
		return "", decimal.Zero, false
	}
	return fields[2], amount, true
}

// ParseAmount parses a SIE money field into a decimal. The SIE4 convention is
// a "." separator but "," appears in the wild, so both are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// decodePC8 converts a SIE4 payload to UTF-8. The standard mandates the IBM
// "PC8" code page (CP437); files that are already valid UTF-8 are passed
// through unchanged. CP437 maps every byte, so the conversion cannot fail.
func decodePC8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, _ := charmap.CodePage437.NewDecoder().Bytes(raw)
	return string(decoded)
}

// encodePC8 converts UTF-8 text back to CP437 for SIE4 output. Runes outside
// the code page are replaced by the encoder's substitute byte.
func encodePC8(text string) []byte {
	var buf bytes.Buffer
	enc := charmap.CodePage437.NewEncoder()
	out, err := enc.Bytes([]byte(text))
	if err != nil {
		// Fall back to a rune-by-rune pass, substituting '?' where the code
		// page has no mapping.
		for _, r := range text {
			b, encErr := enc.Bytes([]byte(string(r)))
			if encErr != nil {
				buf.WriteByte('?')
				continue
			}
			buf.Write(b)
		}
		return buf.Bytes()
	}
	return out
}

// splitFields tokenizes one SIE4 line into fields, honoring double quoted
// fields (which may contain spaces) and backslash escapes inside quotes.
// An unterminated quote is a structural error.
func splitFields(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	started := false

	flush := func() {
		if started {
			fields = append(fields, cur.String())
			cur.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			if inQuote {
				inQuote = false
				flush()
			} else {
				inQuote = true
				started = true
			}
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quoted field")
	}
	flush()
	return fields, nil
}

// quoteField wraps a field in double quotes for SIE4 output when it contains
// whitespace or quotes, escaping embedded quotes.
func quoteField(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
