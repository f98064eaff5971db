package service

import (
	"regexp"
	"strings"

	"github.com/spec-kit/support-bot/internal/domain"
)

// Intent is the structured reading of one chat utterance.
type Intent struct {
	Kind        domain.WorkflowKind
	Email       string
	DateExpr    string
	Features    []string
	CurrentPlan string
	TargetPlan  string
	PlanType    string
	Company     string
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

var (
	planPairPattern = regexp.MustCompile(`from\s+(trial|standard|enterprise)(?:\s+plan)?\s+to\s+(trial|standard|enterprise)`)
	planToPattern   = regexp.MustCompile(`to\s+(?:the\s+)?(trial|standard|enterprise)`)
	planWordPattern = regexp.MustCompile(`\b(trial|standard|enterprise)\b`)
)

// RecognizeIntent maps free text onto one of the four workflows. It returns
// false when no workflow phrasing is present; argument extraction is best
// effort and the conversation pipeline validates what it finds.
func RecognizeIntent(text string) (Intent, bool) {
	lower := strings.ToLower(text)
	intent := Intent{Email: emailPattern.FindString(text)}

	switch {
	case strings.Contains(lower, "extend") && strings.Contains(lower, "trial"),
		strings.Contains(lower, "trial extension"):
		intent.Kind = domain.WorkflowTrialExtension
		intent.DateExpr = expressionAfter(lower, " until ", " till ", " to ", " by ")

	case strings.Contains(lower, "approve") &&
		(strings.Contains(lower, "signup") || strings.Contains(lower, "sign up") || strings.Contains(lower, "sign-up")):
		intent.Kind = domain.WorkflowSignupApproval
		intent.Company = companyName(text)
		intent.PlanType = planMention(lower)

	case strings.Contains(lower, "enable") &&
		(strings.Contains(lower, "beta") || strings.Contains(lower, "feature")):
		intent.Kind = domain.WorkflowBetaEnable
		intent.Features = featureList(text)

	case strings.Contains(lower, "upgrade"):
		intent.Kind = domain.WorkflowSubscriptionUpgrade
		intent.CurrentPlan, intent.TargetPlan = planPair(lower)
		intent.DateExpr = expressionAfter(lower, " effective from ", " effective ", " starting ")

	default:
		return Intent{}, false
	}
	return intent, true
}

// expressionAfter returns the text after the rightmost marker, trimmed of
// trailing punctuation. Longer markers must be listed first so that ties at
// the same position keep the longer match.
func expressionAfter(lower string, markers ...string) string {
	best, bestLen := -1, 0
	for _, m := range markers {
		if idx := strings.LastIndex(lower, m); idx > best {
			best, bestLen = idx, len(m)
		}
	}
	if best < 0 {
		return ""
	}
	expr := strings.TrimSpace(lower[best+bestLen:])
	expr = strings.TrimPrefix(expr, "from ")
	return strings.Trim(expr, ".!?, ")
}

func companyName(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range []string{" company ", " at ", " from "} {
		idx := strings.LastIndex(lower, marker)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(marker):]
		restLower := strings.ToLower(rest)
		for _, stop := range []string{" on ", " with ", ",", "."} {
			if cut := strings.Index(restLower, stop); cut >= 0 {
				rest = rest[:cut]
				restLower = restLower[:cut]
			}
		}
		rest = strings.TrimSpace(rest)
		if rest != "" && !strings.Contains(rest, "@") {
			return rest
		}
	}
	return ""
}

func planMention(lower string) string {
	return planWordPattern.FindString(lower)
}

func planPair(lower string) (string, string) {
	if m := planPairPattern.FindStringSubmatch(lower); m != nil {
		return m[1], m[2]
	}
	// a bare "to <plan>" names only the target
	if m := planToPattern.FindStringSubmatch(lower); m != nil {
		return "", m[1]
	}
	return "", ""
}

func featureList(text string) []string {
	lower := strings.ToLower(text)
	seg := ""
	for _, marker := range []string{" features ", " feature "} {
		if idx := strings.LastIndex(lower, marker); idx >= 0 {
			seg = text[idx+len(marker):]
			break
		}
	}
	if seg == "" {
		if idx := strings.LastIndex(lower, "enable "); idx >= 0 {
			seg = text[idx+len("enable "):]
		}
	}

	// drop a trailing "for someone@example.com"
	segLower := strings.ToLower(seg)
	if idx := strings.LastIndex(segLower, " for "); idx >= 0 && strings.Contains(seg[idx:], "@") {
		seg = seg[:idx]
	}
	if strings.HasPrefix(strings.ToLower(seg), "for ") && strings.Contains(seg, "@") {
		seg = ""
	}
	seg = strings.TrimSpace(seg)
	for _, prefix := range []string{"beta features", "beta feature", "beta"} {
		if strings.EqualFold(seg, prefix) {
			seg = ""
			break
		}
		if strings.HasPrefix(strings.ToLower(seg), prefix+" ") {
			seg = seg[len(prefix)+1:]
			break
		}
	}

	seg = strings.ReplaceAll(seg, " and ", ",")
	parts := strings.Split(seg, ",")
	features := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			features = append(features, t)
		}
	}
	return features
}
