package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
)

// translate renders a predicate in RediSearch query syntax (DIALECT 2).
// Eq and Member map to TAG matches, Range to an inclusive-exclusive
// NUMERIC range over unix seconds. A nil predicate renders as "".
func translate(p *filter.Predicate) (string, error) {
	if p == nil {
		return "", nil
	}
	for _, f := range p.Fields() {
		if err := checkField(f); err != nil {
			return "", err
		}
	}
	return render(p)
}

func render(p *filter.Predicate) (string, error) {
	switch p.Op {
	case filter.OpEq, filter.OpMember:
		if p.Field == "" {
			return "", errFieldRequired
		}
		return fmt.Sprintf("@%s:{%s}", p.Field, tagEscaper.Replace(p.Value)), nil

	case filter.OpRange:
		if p.Field == "" {
			return "", errFieldRequired
		}
		from := strconv.FormatInt(p.From.Unix(), 10)
		to := strconv.FormatInt(p.To.Unix(), 10)
		return fmt.Sprintf("@%s:[%s (%s]", p.Field, from, to), nil

	case filter.OpAnd, filter.OpOr:
		parts := make([]string, 0, len(p.Children))
		for _, c := range p.Children {
			if c == nil {
				continue
			}
			s, err := render(c)
			if err != nil {
				return "", err
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", nil
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		sep := " "
		if p.Op == filter.OpOr {
			sep = " | "
		}
		return "(" + strings.Join(parts, sep) + ")", nil

	default:
		return "", fmt.Errorf("%w: unknown predicate op %q", db.ErrInvalidQuery, p.Op)
	}
}

var errFieldRequired = fmt.Errorf("%w: predicate field is required", db.ErrInvalidQuery)

// checkField accepts attribute names that can appear unescaped after '@'.
func checkField(name string) error {
	for _, r := range name {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && !isDigit && r != '_' {
			return fmt.Errorf("%w: field %q cannot be pushed down", db.ErrInvalidQuery, name)
		}
	}
	return nil
}

// withFilter combines a query clause with a translated predicate.
// Both empty yields the match-all query.
func withFilter(clause string, p *filter.Predicate) (string, error) {
	f, err := translate(p)
	if err != nil {
		return "", err
	}
	switch {
	case clause == "" && f == "":
		return "*", nil
	case f == "":
		return clause, nil
	case clause == "":
		return f, nil
	default:
		return clause + " " + f, nil
	}
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
