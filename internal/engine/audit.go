// Package engine implements the requirement-matching audit over a structured
// transcript and an ordered degree plan. The engine is synchronous, performs
// no I/O, and is deterministic for identical inputs.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/joshsymonds/degree-audit/internal/model"
	"github.com/joshsymonds/degree-audit/internal/pattern"
)

// Auditor matches a transcript against a requirement sequence, producing one
// result per requirement plus a credit summary.
type Auditor struct{}

// New creates a new audit engine.
func New() *Auditor {
	return &Auditor{}
}

// Audit runs the full requirement match. It is total: every requirement
// yields exactly one result, Pending with a diagnostic note when unmet.
func (a *Auditor) Audit(t *model.Transcript, reqs []model.Requirement) ([]model.RequirementResult, model.AuditSummary) {
	courses := dedupeRetakes(t.Courses())
	ledger := NewCourseLedger(courses)

	results := make([]model.RequirementResult, len(reqs))
	for _, idx := range auditOrder(reqs) {
		results[idx] = a.auditRequirement(ledger, reqs[idx])
	}

	summary := summarize(t, courses, results)

	slog.Info("Audit complete",
		"requirements", len(reqs),
		"courses", len(courses),
		"credits_applied", summary.TotalApplied,
		"credits_remaining", summary.TotalRemaining)

	return results, summary
}

// auditOrder returns processing indices with catch-all-primary requirements
// moved behind everything else, so explicit requirements claim courses before
// broad buckets compete for the same pool. Relative order inside each group
// is preserved.
func auditOrder(reqs []model.Requirement) []int {
	order := make([]int, 0, len(reqs))
	var catchAll []int
	for i, r := range reqs {
		if pattern.IsCatchAll(r.CourseCode) {
			catchAll = append(catchAll, i)
		} else {
			order = append(order, i)
		}
	}
	return append(order, catchAll...)
}

// dedupeRetakes collapses retaken courses: when any attempt of a code carries
// the "**" marker, only the chronologically last attempt of that code
// survives. Codes repeated without the marker stay independently matchable.
func dedupeRetakes(courses []model.Course) []model.Course {
	retaken := make(map[string]bool)
	lastIdx := make(map[string]int)
	for i, c := range courses {
		key := pattern.Normalize(c.Code)
		lastIdx[key] = i
		if model.IsRetakeMarked(c.Grade) {
			retaken[key] = true
		}
	}

	out := make([]model.Course, 0, len(courses))
	for i, c := range courses {
		key := pattern.Normalize(c.Code)
		if retaken[key] && i != lastIdx[key] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// compiled holds a requirement's pattern groups parsed once per audit.
type compiled struct {
	alts      [][]pattern.Group // Per alternative, per AND-component
	altRaws   [][]string
	mustHaves []pattern.Group
	excepts   []pattern.Group
}

func compileRequirement(req model.Requirement) compiled {
	var c compiled
	c.altRaws = req.Alternatives()
	for _, alt := range c.altRaws {
		groups := make([]pattern.Group, len(alt))
		for i, raw := range alt {
			if g, err := pattern.ParseGroup(raw); err == nil {
				groups[i] = g
			}
			// A group that fails to parse stays nil and never matches;
			// the loader validates patterns so this only happens with
			// hand-built requirements.
		}
		c.alts = append(c.alts, groups)
	}
	for _, raw := range req.MustHaves {
		if g, err := pattern.ParseGroup(raw); err == nil {
			c.mustHaves = append(c.mustHaves, g)
		}
	}
	for _, raw := range req.Excepts {
		if g, err := pattern.ParseGroup(raw); err == nil {
			c.excepts = append(c.excepts, g)
		}
	}
	return c
}

func (a *Auditor) auditRequirement(ledger *CourseLedger, req model.Requirement) model.RequirementResult {
	c := compileRequirement(req)

	if len(c.alts) == 0 {
		return model.RequirementResult{
			Requirement:      req,
			Status:           model.StatusPending,
			CreditsRemaining: req.CreditsNeed,
			Note:             "No course pattern",
		}
	}

	if isBucket(c, req) {
		return a.auditBucket(ledger, req, c)
	}
	return a.auditAlternatives(ledger, req, c)
}

// isBucket reports whether every alternative reduces to a single
// wildcard/range pattern with a positive credit target: such requirements
// pool credits instead of matching one course per component.
func isBucket(c compiled, req model.Requirement) bool {
	if req.CreditsNeed <= 0 {
		return false
	}
	for _, alt := range c.alts {
		if len(alt) != 1 || alt[0] == nil || !alt[0].IsBucket() {
			return false
		}
	}
	return true
}

// eligible reports whether ledger course i can serve a pattern group under
// the requirement's grade minimum and exclusion list. A course whose credits
// have been spent by earlier requirements is out of play; a course that never
// had credits (pass/fail placeholders) stays matchable.
func eligible(ledger *CourseLedger, i int, group pattern.Group, minGrade string, excepts []pattern.Group) bool {
	if group == nil {
		return false
	}
	course := ledger.Course(i)
	if ledger.Exhausted(i) && course.Credits > 0 {
		return false
	}
	if !group.Matches(course.Code) {
		return false
	}
	if !model.GradeMeets(course.Grade, minGrade) {
		return false
	}
	for _, ex := range excepts {
		if ex.Matches(course.Code) {
			return false
		}
	}
	return true
}

// auditBucket greedily accumulates credits from every course matching any of
// the bucket's patterns. Wildcard and range buckets consume most recent
// first; catch-all buckets take courses in encounter order.
func (a *Auditor) auditBucket(ledger *CourseLedger, req model.Requirement, c compiled) model.RequirementResult {
	isAny := false
	for _, alt := range c.alts {
		if alt[0].IsAny() {
			isAny = true
			break
		}
	}

	var candidates []int
	for i := 0; i < ledger.Len(); i++ {
		for _, alt := range c.alts {
			if eligible(ledger, i, alt[0], req.MinGrade, c.excepts) {
				candidates = append(candidates, i)
				break
			}
		}
	}
	if !isAny {
		reverse(candidates)
	}

	result := model.RequirementResult{Requirement: req}
	needed := req.CreditsNeed
	for _, i := range candidates {
		if needed <= 0 {
			break
		}
		take := min(ledger.Remaining(i), needed)
		if take <= 0 {
			continue
		}
		mustConsume(ledger, i, take)
		course := ledger.Course(i)
		result.UsedCourses = append(result.UsedCourses, model.CourseUse{
			Code:    course.Code,
			Title:   course.Title,
			Credits: take,
		})
		result.CreditsApplied += take
		needed -= take
	}

	result.CreditsRemaining = needed
	if needed <= 0 {
		result.Status = model.StatusSatisfied
	} else {
		result.Status = model.StatusPending
		result.Note = "Not enough credits in bucket"
	}
	return result
}

// attempt tracks one alternative's outcome while searching for a satisfying
// course set.
type attempt struct {
	missing         string // First component with no eligible course
	mustHaveMissing string
	reserved        []int
	available       float64
}

// auditAlternatives tries each OR-alternative in order, looking for one whose
// every AND-component finds an eligible course and whose must-have
// constraints hold. The best partial alternative is consumed on failure so
// two pending requirements cannot both claim the same credits.
func (a *Auditor) auditAlternatives(ledger *CourseLedger, req model.Requirement, c compiled) model.RequirementResult {
	var best *attempt

	for altIdx, alt := range c.alts {
		att := a.tryAlternative(ledger, req, c, altIdx, alt)

		if att.missing == "" && att.mustHaveMissing == "" &&
			(req.CreditsNeed <= 0 || att.available >= req.CreditsNeed) {
			return a.applyAttempt(ledger, req, att, model.StatusSatisfied, "")
		}
		if best == nil || att.available > best.available {
			best = &att
		}
	}

	note := "Insufficient credits"
	switch {
	case best == nil || len(best.reserved) == 0:
		note = fmt.Sprintf("Missing %s", c.altRaws[0][0])
		if best != nil && best.missing != "" {
			note = fmt.Sprintf("Missing %s", best.missing)
		}
	case best.missing != "":
		note = fmt.Sprintf("Missing %s", best.missing)
	case best.mustHaveMissing != "":
		note = fmt.Sprintf("Missing %s", best.mustHaveMissing)
	}

	if best == nil || req.CreditsNeed <= 0 {
		// No numeric target: a pending result applies nothing.
		return model.RequirementResult{
			Requirement:      req,
			Status:           model.StatusPending,
			CreditsRemaining: req.CreditsNeed,
			Note:             note,
		}
	}

	return a.applyAttempt(ledger, req, *best, model.StatusPending, note)
}

// tryAlternative matches each AND-component of one alternative against the
// first eligible, not-yet-reserved course.
func (a *Auditor) tryAlternative(ledger *CourseLedger, req model.Requirement, c compiled, altIdx int, alt []pattern.Group) attempt {
	att := attempt{}
	reserved := make(map[int]bool)

	for compIdx, group := range alt {
		found := -1
		for i := 0; i < ledger.Len(); i++ {
			if reserved[i] {
				continue
			}
			if eligible(ledger, i, group, req.MinGrade, c.excepts) {
				found = i
				break
			}
		}
		if found < 0 {
			att.missing = c.altRaws[altIdx][compIdx]
			break
		}
		reserved[found] = true
		att.reserved = append(att.reserved, found)
		att.available += ledger.Remaining(found)
	}

	if att.missing == "" && len(c.mustHaves) > 0 && !satisfiesMustHave(ledger, att.reserved, c.mustHaves) {
		att.mustHaveMissing = req.MustHaves[0]
	}

	return att
}

// satisfiesMustHave reports whether at least one reserved course matches at
// least one must-have pattern.
func satisfiesMustHave(ledger *CourseLedger, reserved []int, mustHaves []pattern.Group) bool {
	for _, i := range reserved {
		for _, mh := range mustHaves {
			if mh.Matches(ledger.Course(i).Code) {
				return true
			}
		}
	}
	return false
}

// applyAttempt consumes the attempt's reserved courses from the ledger, up
// to the requirement's credit target. A requirement with no numeric target
// records the matching courses but consumes nothing, leaving their credits
// free for bucket requirements.
func (a *Auditor) applyAttempt(ledger *CourseLedger, req model.Requirement, att attempt, status model.RequirementStatus, note string) model.RequirementResult {
	result := model.RequirementResult{
		Requirement: req,
		Status:      status,
		Note:        note,
	}

	needed := req.CreditsNeed
	for _, i := range att.reserved {
		var take float64
		if req.CreditsNeed > 0 {
			if needed <= 0 {
				break
			}
			take = min(ledger.Remaining(i), needed)
			needed -= take
		}
		mustConsume(ledger, i, take)
		course := ledger.Course(i)
		result.UsedCourses = append(result.UsedCourses, model.CourseUse{
			Code:    course.Code,
			Title:   course.Title,
			Credits: take,
		})
		result.CreditsApplied += take
	}

	if req.CreditsNeed > 0 {
		result.CreditsRemaining = req.CreditsNeed - result.CreditsApplied
	}
	return result
}

// summarize aggregates credit figures. TotalTaken prefers the transcript's
// own overall earned-credits figure, falling back to summing credits of
// surviving courses with applicable grades.
func summarize(t *model.Transcript, courses []model.Course, results []model.RequirementResult) model.AuditSummary {
	var s model.AuditSummary
	for _, r := range results {
		s.TotalRequired += r.Requirement.CreditsNeed
		s.TotalApplied += r.CreditsApplied
		s.TotalRemaining += r.CreditsRemaining
	}

	if t.CreditsEarned != nil {
		s.TotalTaken = *t.CreditsEarned
	} else {
		for _, c := range courses {
			if model.GradeApplicable(c.Grade) {
				s.TotalTaken += c.Credits
			}
		}
	}
	return s
}

// mustConsume panics on a ledger violation; amounts are always computed from
// the ledger's own remaining balances so this cannot fire on valid inputs.
func mustConsume(ledger *CourseLedger, i int, amount float64) {
	if err := ledger.Consume(i, amount); err != nil {
		panic(err)
	}
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
