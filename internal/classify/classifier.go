package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Scoring weights. A merchant hit is worth the most, a pattern hit a bit
// less, keywords score proportionally to the fraction of the rule's keyword
// set that appears. The accumulated score is capped at 1 before being scaled
// by the rule's base confidence, so confidence stays in [0,1].
const (
	merchantWeight = 0.60
	patternWeight  = 0.45
	keywordWeight  = 0.35
)

// CategoryOther is the fallback when no rule clears the threshold.
const CategoryOther = "Other"

// otherConfidence is the fixed confidence of the fallback category.
const otherConfidence = 0.10

// Result is a classification outcome.
type Result struct {
	Category    string
	Subcategory string
	Merchant    string // display name of the matched merchant, if any
	Confidence  float64
	Reasons     []string
}

// Classifier scores transactions against an injected rule set. Safe for
// concurrent use after construction.
type Classifier struct {
	rules     []compiledRule
	threshold float64
}

type compiledRule struct {
	rule     Rule
	patterns []*regexp.Regexp
}

// NewClassifier compiles a rule set. threshold is the minimum accepted
// confidence; rules scoring below it fall through to CategoryOther.
func NewClassifier(rules []Rule, threshold float64) (*Classifier, error) {
	c := &Classifier{threshold: threshold}
	for i, r := range rules {
		// Rule files are user-edited; an out-of-range base would leak
		// confidences outside [0,1] past the score cap.
		if r.BaseConfidence < 0 || r.BaseConfidence > 1 {
			return nil, fmt.Errorf("rule %d (%s): base confidence %v outside [0,1]", i, r.Category, r.BaseConfidence)
		}
		cr := compiledRule{rule: r}
		for _, p := range r.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): bad pattern %q: %w", i, r.Category, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Classify scores the description (and optional merchant hint) against every
// rule in scope for the region. The highest score wins; ties go to the rule
// declared first. Classification is pure: the same input always produces the
// same result.
func (c *Classifier) Classify(description, merchantHint, region string) Result {
	desc := strings.ToLower(description)
	if merchantHint != "" {
		desc += " " + strings.ToLower(merchantHint)
	}

	best := Result{Category: CategoryOther, Confidence: otherConfidence}
	bestScore := 0.0

	for _, cr := range c.rules {
		if !cr.inScope(region) {
			continue
		}
		score, merchant, reasons := cr.score(desc)
		if score < c.threshold || score <= bestScore {
			continue
		}
		bestScore = score
		best = Result{
			Category:    cr.rule.Category,
			Subcategory: cr.subcategory(desc),
			Merchant:    merchant,
			Confidence:  score,
			Reasons:     reasons,
		}
	}
	return best
}

func (cr compiledRule) inScope(region string) bool {
	if len(cr.rule.Regions) == 0 || region == "" {
		return true
	}
	for _, r := range cr.rule.Regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// score returns the rule's weighted score for a lowercased description, the
// matched merchant display name, and human-readable match reasons.
func (cr compiledRule) score(desc string) (float64, string, []string) {
	var total float64
	var merchant string
	var reasons []string

	for _, m := range cr.rule.Merchants {
		if strings.Contains(desc, strings.ToLower(m)) {
			total += merchantWeight
			merchant = m
			reasons = append(reasons, "merchant:"+m)
			break
		}
	}

	for _, re := range cr.patterns {
		if re.MatchString(desc) {
			total += patternWeight
			reasons = append(reasons, "pattern:"+re.String())
			break
		}
	}

	if len(cr.rule.Keywords) > 0 {
		hits := 0
		for _, kw := range cr.rule.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > 0 {
			frac := float64(hits) / float64(len(cr.rule.Keywords))
			total += keywordWeight * frac
			reasons = append(reasons, fmt.Sprintf("keywords:%d/%d", hits, len(cr.rule.Keywords)))
		}
	}

	if total > 1 {
		total = 1
	}
	return total * cr.rule.BaseConfidence, merchant, reasons
}

// subcategory re-scans the description against the rule's subcategory
// keyword table, falling back to the first declared subcategory.
func (cr compiledRule) subcategory(desc string) string {
	for _, sub := range cr.rule.Subcategories {
		for _, kw := range cr.rule.SubcategoryKeywords[sub] {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return sub
			}
		}
	}
	if len(cr.rule.Subcategories) > 0 {
		return cr.rule.Subcategories[0]
	}
	return ""
}
