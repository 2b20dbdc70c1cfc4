package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

const banner = "CITYBIKE ANALYSIS REPORT"

// Text renders the report as plain text, one block per question.
func (r *Report) Text() string {
	var b strings.Builder
	line := strings.Repeat("=", len(banner))
	b.WriteString(line + "\n" + banner + "\n" + line + "\n")
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	b.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))

	if len(r.Cleaning) > 0 {
		b.WriteString("\n[CLEANING]\n")
		for _, c := range r.Cleaning {
			b.WriteString("- " + c + "\n")
		}
	}

	for _, s := range r.Sections() {
		b.WriteString(fmt.Sprintf("\n[%s] %s\n", s.Number, strings.ToUpper(s.Title)))
		if len(s.Rows) == 0 {
			b.WriteString("(no data)\n")
		} else {
			tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(s.Header, "\t"))
			for _, row := range s.Rows {
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			_ = tw.Flush()
		}
		for _, n := range s.Notes {
			b.WriteString(n + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
