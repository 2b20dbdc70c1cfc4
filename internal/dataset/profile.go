package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Profile is a per-column inspection of a raw table: inferred kind, missing
// counts and basic statistics.
type Profile struct {
	Name       string
	Rows       int
	Cols       []ColumnSummary
	Duplicates int // rows whose first column repeats an earlier value
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// Inspect profiles every column of t.
func Inspect(t *Table) *Profile {
	p := &Profile{Name: t.Name, Rows: t.Len()}
	ncol := len(t.Header)
	type colAcc struct {
		nonNil int
		miss   int
		// numeric stats via Welford
		n      int
		mean   float64
		m2     float64
		min    float64
		max    float64
		dtCnt  int
		txtCnt int
		cats   map[string]int
		exText []string
	}
	cols := make([]*colAcc, ncol)
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: make(map[string]int)}
	}
	seenKey := map[string]struct{}{}
	for _, rec := range t.Rows {
		if ncol > 0 {
			k := strings.TrimSpace(rec[0])
			if _, ok := seenKey[k]; ok && k != "" {
				p.Duplicates++
			}
			seenKey[k] = struct{}{}
		}
		for j := 0; j < ncol; j++ {
			v := strings.TrimSpace(rec[j])
			c := cols[j]
			if v == "" || isNullToken(v) {
				c.miss++
				continue
			}
			c.nonNil++
			if x := ParseFloat(v); !math.IsNaN(x) {
				c.n++
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				continue
			}
			if _, ok := ParseTime(v); ok {
				c.dtCnt++
				continue
			}
			c.txtCnt++
			if len(c.cats) <= 10000 && len(v) <= 64 {
				c.cats[v]++
			}
			if len(c.exText) < 3 {
				c.exText = append(c.exText, v)
			}
		}
	}

	p.Cols = make([]ColumnSummary, 0, ncol)
	for j, c := range cols {
		s := ColumnSummary{Name: t.Header[j], NonNull: c.nonNil, Missing: c.miss}
		kind := "unknown"
		switch {
		case c.n >= c.dtCnt && c.n >= c.txtCnt && c.n > 0:
			kind = "numeric"
			s.Min, s.Max, s.Mean = c.min, c.max, c.mean
			if c.n > 1 {
				s.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
		case c.dtCnt >= c.txtCnt && c.dtCnt > 0:
			kind = "datetime"
		case len(c.cats) > 0 && len(c.cats) <= 50:
			kind = "categorical"
			tops := make([]CategoryCount, 0, len(c.cats))
			for k, v := range c.cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 8 {
				tops = tops[:8]
			}
			s.TopValues = tops
			s.Unique = len(c.cats)
		case c.txtCnt > 0:
			kind = "text"
			s.Unique = len(c.cats)
			s.ExampleTexts = c.exText
		}
		s.Kind = kind
		p.Cols = append(p.Cols, s)
	}
	return p
}

// Markdown renders a compact inspection report.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(p.Cols)))
	if p.Duplicates > 0 {
		b.WriteString(fmt.Sprintf("Duplicate keys: %d\n", p.Duplicates))
	}
	b.WriteString("\n[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d = %.1f%%)", c.Name, c.Kind, c.NonNull, c.Missing, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" — e.g., ")
				b.WriteString(strings.Join(c.ExampleTexts, " | "))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
