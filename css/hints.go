package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Hints are presentation properties a publication declares for its root
// elements in stylesheets.
type Hints struct {
	Direction   string // "ltr" or "rtl"
	WritingMode string // e.g. "horizontal-tb", "vertical-rl"
}

// IsVertical reports whether text flows vertically.
func (h Hints) IsVertical() bool {
	return strings.HasPrefix(h.WritingMode, "vertical")
}

// Merge fills empty fields of h from other.
func (h *Hints) Merge(other Hints) {
	if len(h.Direction) == 0 {
		h.Direction = other.Direction
	}
	if len(h.WritingMode) == 0 {
		h.WritingMode = other.WritingMode
	}
}

// HintScanner looks for direction and writing mode declared on html, body
// or :root in stylesheets.
type HintScanner struct {
	log *zap.Logger
}

// NewHintScanner creates a new stylesheet scanner.
func NewHintScanner(log *zap.Logger) *HintScanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &HintScanner{log: log.Named("css-hints")}
}

// Scan tokenizes stylesheet data. The optional source parameter identifies
// what's being scanned (for debug logging). Later declarations win.
func (s *HintScanner) Scan(data []byte, source ...string) Hints {
	var hints Hints

	if len(source) > 0 && source[0] != "" {
		s.log.Debug("Scanning CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				s.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return hints

		case css.BeginAtRuleGrammar:
			// @media and friends are conditional, ignore them
			skipBlock(parser)

		case css.BeginRulesetGrammar:
			rootLevel := targetsRoot(selectors(data, parser.Values()))
			for _, d := range declarations(parser) {
				if !rootLevel {
					continue
				}
				switch d.name {
				case "direction":
					hints.Direction = d.value
				case "writing-mode", "-epub-writing-mode", "-webkit-writing-mode":
					hints.WritingMode = d.value
				}
			}
		}
	}
}

func targetsRoot(sels []string) bool {
	for _, sel := range sels {
		switch strings.ToLower(sel) {
		case "html", "body", ":root":
			return true
		}
	}
	return false
}

// selectors extracts selector strings from token data.
func selectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var res []string
	for sel := range strings.SplitSeq(sb.String(), ",") {
		sel = strings.TrimSpace(sel)
		if sel != "" {
			res = append(res, sel)
		}
	}
	return res
}

type declaration struct {
	name, value string
}

// declarations reads property declarations until end of ruleset in source
// order, values are lowercased with !important dropped.
func declarations(parser *css.Parser) []declaration {
	var props []declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar:
			var sb strings.Builder
			for _, t := range parser.Values() {
				sb.Write(t.Data)
			}
			value := strings.ToLower(strings.TrimSpace(sb.String()))
			value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
			if value != "" {
				props = append(props, declaration{name: strings.ToLower(string(data)), value: value})
			}
		}
	}
}

func skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
