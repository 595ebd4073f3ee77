// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package quality

import (
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/AleutianAI/sentinel/datatypes"
)

// =============================================================================
// Weights and thresholds
// =============================================================================

// Sub-score weights, in order: completeness, variety, edge case,
// assertion density, readability, isolation, task alignment.
// They sum to 1.0 and are part of the scoring contract.
var overallWeights = [7]float64{0.20, 0.15, 0.20, 0.15, 0.10, 0.10, 0.10}

const (
	// minTestCodeLen is the floor under which test code counts as empty.
	minTestCodeLen = 10

	strengthThreshold = 0.7
	weaknessThreshold = 0.4

	// defaultAlignment is used when no task description is available.
	defaultAlignment = 0.7
)

// =============================================================================
// Evaluation
// =============================================================================

// Evaluate scores test code on the seven quality dimensions.
//
// Description:
//
//	Computes completeness, variety, edge-case coverage, assertion
//	density, readability, isolation, and task alignment over the test
//	code, each in [0,1], and combines them with fixed weights into
//	OverallQuality. Empty or sub-minimal test code returns an all-zero
//	metrics value with the single weakness "Tests appear to be empty or
//	minimal"; that floor is part of the contract, not an error. The
//	function is pure: identical inputs always produce identical scores.
//
// Inputs:
//
//	testCode - The generated test code blob.
//	taskDescription - Optional; "" disables alignment scoring (0.7 default).
//	sourceCode - Optional code under test, enables a cheap coverage ratio.
//	language - Optional; "" triggers DetectLanguage.
//
// Outputs:
//
//	datatypes.QualityMetrics - The populated metrics.
func Evaluate(testCode, taskDescription, sourceCode, language string) datatypes.QualityMetrics {
	if len(strings.TrimSpace(testCode)) < minTestCodeLen {
		slog.Warn("Empty or minimal test code provided for quality evaluation")
		return datatypes.QualityMetrics{
			Weaknesses: []string{"Tests appear to be empty or minimal"},
		}
	}

	if language == "" {
		language = DetectLanguage(testCode)
		slog.Debug("Detected test language", "language", language)
	}

	completeness, testCount := scoreCompleteness(testCode, sourceCode)
	variety := scoreVariety(testCode)
	edgeCase := scoreEdgeCases(testCode, language)
	density, assertionCount := scoreAssertionDensity(testCode)
	readability := scoreReadability(testCode, language)
	isolation := scoreIsolation(testCode, language)
	alignment := defaultAlignment
	if taskDescription != "" {
		alignment = scoreTaskAlignment(testCode, taskDescription)
	}

	scores := [7]float64{completeness, variety, edgeCase, density, readability, isolation, alignment}
	overall := 0.0
	for i, s := range scores {
		overall += s * overallWeights[i]
	}
	overall = clamp01(overall)

	m := datatypes.QualityMetrics{
		TestCount:        testCount,
		AssertionCount:   assertionCount,
		Completeness:     completeness,
		Variety:          variety,
		EdgeCase:         edgeCase,
		AssertionDensity: density,
		Readability:      readability,
		Isolation:        isolation,
		TaskAlignment:    alignment,
		OverallQuality:   overall,
		DetectedLanguage: language,
	}
	m.Strengths, m.Weaknesses = summarize(scores)
	return m
}

// summarize thresholds each sub-score into fixed strength/weakness
// labels: >0.7 is a strength, <0.4 a weakness.
func summarize(scores [7]float64) (strengths, weaknesses []string) {
	labels := [7][2]string{
		{"Good test coverage", "Limited test coverage"},
		{"Good variety of test approaches", "Limited variety of test approaches"},
		{"Good edge case handling", "Insufficient edge case handling"},
		{"Strong assertion density", "Low assertion density"},
		{"High test readability", "Poor test readability"},
		{"Well-isolated tests", "Tests lack proper isolation"},
		{"Tests well-aligned with task requirements", "Tests don't align well with task requirements"},
	}
	for i, s := range scores {
		if s > strengthThreshold {
			strengths = append(strengths, labels[i][0])
		}
		if s < weaknessThreshold {
			weaknesses = append(weaknesses, labels[i][1])
		}
	}
	return strengths, weaknesses
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}

// =============================================================================
// Completeness
// =============================================================================

var sourceFuncPatterns = compileAll(
	`def\s+(\w+)\s*\(`,
	`function\s+(\w+)\s*\(`,
	`(?:public|private|protected)\s+\w+\s+(\w+)\s*\(`,
	`\w+\s+(\w+)\s*\([^)]*\)\s*\{`,
	`fn\s+(\w+)\s*\(`,
	`func\s+(\w+)\s*\(`,
)

var testedFuncPatterns = compileAll(
	`test\w*_(\w+)`,
	`test\s+that\s+(\w+)`,
	`(\w+)\s*\([^)]*\)\s*(?:should|must|will)`,
	`(?:assert|expect)[^;]*(?:\.|\s+)(\w+)\s*\(`,
)

// scoreCompleteness estimates how much of the code under test the
// tests touch. With source code available it computes a regex-level
// coverage ratio over extracted function names; otherwise it falls
// back to a diminishing-returns curve where 10 tests reach 1.0.
func scoreCompleteness(testCode, sourceCode string) (float64, int) {
	testCount := CountTests(testCode)

	if sourceCode != "" {
		sourceFuncs := make(map[string]bool)
		for _, re := range sourceFuncPatterns {
			for _, m := range re.FindAllStringSubmatch(sourceCode, -1) {
				sourceFuncs[m[1]] = true
			}
		}
		if len(sourceFuncs) > 0 {
			tested := make(map[string]bool)
			for _, re := range testedFuncPatterns {
				for _, m := range re.FindAllStringSubmatch(testCode, -1) {
					tested[m[1]] = true
				}
			}
			covered := 0
			for fn := range sourceFuncs {
				if tested[fn] {
					covered++
				}
			}
			return float64(covered) / float64(len(sourceFuncs)), testCount
		}
	}

	return math.Min(1.0, math.Sqrt(float64(testCount)/10.0)), testCount
}

// =============================================================================
// Variety
// =============================================================================

func anyMatch(patterns []*regexp.Regexp, code string) bool {
	for _, re := range patterns {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

// scoreVariety counts distinct testing approaches; three or more reach
// 1.0, with a small bonus when parameterized and data-driven styles
// appear together.
func scoreVariety(testCode string) float64 {
	parameterized := anyMatch(parameterizedPatterns, testCode)
	dataDriven := dataDrivenRe.MatchString(testCode)

	approaches := []bool{
		parameterized,
		anyMatch(mockingPatterns, testCode),
		anyMatch(fixturePatterns, testCode),
		testGroupingRe.MatchString(testCode),
		dataDriven,
		anyMatch(performancePatterns, testCode),
		anyMatch(securityPatterns, testCode),
	}
	count := 0
	for _, used := range approaches {
		if used {
			count++
		}
	}

	score := math.Min(1.0, float64(count)/3.0)
	if parameterized && dataDriven {
		score = math.Min(1.0, score+0.1)
	}
	return score
}

// =============================================================================
// Edge-case coverage
// =============================================================================

var edgeCaseTypeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:null|none|empty|undefined|''|""|\[\]|\{\})`),
	regexp.MustCompile(`(?:boundary|limit|min|max|zero|negative|upper|lower)`),
	regexp.MustCompile(`(?:exception|error|throw|invalid|fail|panic|crash)`),
	regexp.MustCompile(`(?:large|big|huge|overflow|many|multiple|long)`),
	regexp.MustCompile(`(?:special|character|symbol|unicode|utf|escape|non-ascii)`),
	regexp.MustCompile(`(?:timeout|slow|fast|performance|benchmark)`),
	regexp.MustCompile(`(?:concurrent|parallel|race|deadlock|thread|async|await)`),
}

var memorySafetyRe = regexp.MustCompile(
	`(?:memory|leak|dangling|null|overflow|underflow|bound|out of bounds|buffer)`)

// scoreEdgeCases weighs type diversity (7 edge-case families) over raw
// match count, with a memory-safety bonus for C++ and Rust.
func scoreEdgeCases(testCode, language string) float64 {
	seenLines := make(map[int]bool)
	uniqueCount := 0
	for _, re := range edgeCasePatterns {
		for _, loc := range re.FindAllStringIndex(testCode, -1) {
			line := strings.Count(testCode[:loc[0]], "\n")
			if !seenLines[line] {
				seenLines[line] = true
				uniqueCount++
			}
		}
	}

	lower := strings.ToLower(testCode)
	typesCovered := 0
	for _, re := range edgeCaseTypeRes {
		if re.MatchString(lower) {
			typesCovered++
		}
	}

	typeScore := float64(typesCovered) / float64(len(edgeCaseTypeRes))
	countScore := math.Min(1.0, float64(uniqueCount)/5.0)
	score := typeScore*0.6 + countScore*0.4

	if (language == "cpp" || language == "rust") && memorySafetyRe.MatchString(lower) {
		score = math.Min(1.0, score+0.1)
	}
	return score
}

// =============================================================================
// Assertion density
// =============================================================================

var assertionTypeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:equal|same|identical|matches|is)\b`),
	regexp.MustCompile(`(?i)(?:not\s+equal|different|not\s+same|inequality|isNot)\b`),
	regexp.MustCompile(`(?i)(?:true|false|assertTrue|assertFalse|isTrue|isFalse)\b`),
	regexp.MustCompile(`(?i)(?:null|none|nil|undefined|assertNull|assertNotNull|isNull|isNotNull)\b`),
	regexp.MustCompile(`(?i)(?:throws|exception|assertThrows|expect\w*\s*\w+\s*to\s*throw|catch|try)\b`),
	regexp.MustCompile(`(?i)(?:instanceof|typeof|is_a|isinstance|isInstanceOf|assertInstanceOf)\b`),
	regexp.MustCompile(`(?i)(?:contains|size|length|empty|has|elements|in)\b`),
}

// scoreAssertionDensity normalizes assertions-per-test through a
// piecewise curve (3-5 per test is the sweet spot) and boosts for
// assertion-type diversity.
func scoreAssertionDensity(testCode string) (normalized float64, assertionCount int) {
	testCount := CountTests(testCode)
	if testCount < 1 {
		testCount = 1
	}
	assertionCount = CountAssertions(testCode)
	density := float64(assertionCount) / float64(testCount)

	typed := 0
	for _, re := range assertionTypeRes {
		if re.MatchString(testCode) {
			typed++
		}
	}
	diversity := float64(typed) / float64(len(assertionTypeRes))

	switch {
	case density <= 0:
		normalized = 0.0
	case density < 1:
		normalized = density * 0.5
	case density <= 5:
		normalized = 0.5 + density/10.0
	default:
		normalized = 1.0
	}
	normalized = math.Min(1.0, normalized+diversity*0.2)
	return normalized, assertionCount
}

// =============================================================================
// Readability
// =============================================================================

var commentPatterns = map[string][]*regexp.Regexp{
	"python":  compileAll(`^\s*#`, `^\s*"""`),
	"unknown": compileAll(`^\s*#`, `^\s*//`, `^\s*/\*`, `^\s*"""`),
}

var slashCommentLangs = map[string]bool{
	"javascript": true, "typescript": true, "java": true,
	"cpp": true, "csharp": true, "rust": true, "go": true,
}

var slashCommentPatterns = compileAll(`^\s*//`, `^\s*/\*`)

var testNamePatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`def\s+test_(\w+)`),
	"javascript": regexp.MustCompile(`(?:test|it)\s*\(\s*['"]([^'"]+)`),
	"typescript": regexp.MustCompile(`(?:test|it)\s*\(\s*['"]([^'"]+)`),
	"java":       regexp.MustCompile(`(?:public|private|protected)\s+void\s+test(\w+)`),
	"cpp":        regexp.MustCompile(`TEST\s*\([^,]*,\s*(\w+)`),
	"csharp":     regexp.MustCompile(`public\s+void\s+Test(\w+)`),
	"rust":       regexp.MustCompile(`fn\s+test_(\w+)`),
	"unknown":    regexp.MustCompile(`(?:test|Test)_?(\w+)`),
}

var testOrgPatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`class\s+\w+Test`),
	"javascript": regexp.MustCompile(`describe\s*\(`),
	"typescript": regexp.MustCompile(`describe\s*\(`),
	"java":       regexp.MustCompile(`(?:public|private)\s+class\s+\w+Test`),
	"cpp":        regexp.MustCompile(`TEST_F\s*\(`),
	"csharp":     regexp.MustCompile(`public\s+class\s+\w+Test`),
	"rust":       regexp.MustCompile(`mod\s+tests`),
	"unknown":    regexp.MustCompile(`(?:class|describe|module)\s+\w+`),
}

var camelHumpRe = regexp.MustCompile(`[A-Z][a-z]`)

// scoreReadability combines comment ratio, descriptive test names,
// grouping, line length, and indent consistency with fixed weights.
func scoreReadability(testCode, language string) float64 {
	lines := strings.Split(testCode, "\n")
	total := len(lines)
	if total == 0 {
		return 0.0
	}

	patterns, ok := commentPatterns[language]
	if !ok {
		if slashCommentLangs[language] {
			patterns = slashCommentPatterns
		} else {
			patterns = commentPatterns["unknown"]
		}
	}
	commentLines := 0
	for _, line := range lines {
		for _, re := range patterns {
			if re.MatchString(strings.TrimSpace(line)) {
				commentLines++
				break
			}
		}
	}
	commentRatio := float64(commentLines) / float64(total)

	nameRe, ok := testNamePatterns[language]
	if !ok {
		nameRe = testNamePatterns["unknown"]
	}
	var descriptive, named int
	for _, m := range nameRe.FindAllStringSubmatch(testCode, -1) {
		named++
		name := m[1]
		if len(name) >= 8 || strings.Contains(name, "_") || camelHumpRe.MatchString(name) {
			descriptive++
		}
	}
	descriptiveRatio := 0.0
	if named > 0 {
		descriptiveRatio = float64(descriptive) / float64(named)
	}

	orgRe, ok := testOrgPatterns[language]
	if !ok {
		orgRe = testOrgPatterns["unknown"]
	}
	organized := 0.0
	if orgRe.MatchString(testCode) {
		organized = 1.0
	}

	totalLen := 0
	for _, line := range lines {
		totalLen += len(line)
	}
	avgLineLen := float64(totalLen) / float64(total)
	lineLengthScore := math.Max(0.0, math.Min(1.0, 2.0-avgLineLen/80.0))

	indentConsistency := indentConsistencyScore(lines)

	commentScore := math.Min(1.0, commentRatio*5)
	return commentScore*0.25 +
		descriptiveRatio*0.25 +
		organized*0.2 +
		lineLengthScore*0.15 +
		indentConsistency*0.15
}

// indentConsistencyScore finds the modal leading-space count and scores
// the fraction of lines whose indent is a multiple of it. A modal
// indent of zero means flat code, which counts as fully consistent.
func indentConsistencyScore(lines []string) float64 {
	var indents []int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indents = append(indents, len(line)-len(strings.TrimLeft(line, " ")))
	}
	if len(indents) == 0 {
		return 1.0
	}

	counts := make(map[int]int)
	mode, modeCount := 0, 0
	for _, n := range indents {
		counts[n]++
		if counts[n] > modeCount {
			mode, modeCount = n, counts[n]
		}
	}
	if mode == 0 {
		return 1.0
	}

	consistent := 0
	for _, n := range indents {
		if n%mode == 0 {
			consistent++
		}
	}
	return float64(consistent) / float64(len(indents))
}

// =============================================================================
// Isolation
// =============================================================================

var setupTeardownPatterns = map[string][]*regexp.Regexp{
	"python":     compileAll(`def\s+setUp`, `def\s+tearDown`, `@pytest\.fixture`),
	"javascript": compileAll(`beforeEach`, `afterEach`, `beforeAll`, `afterAll`),
	"typescript": compileAll(`beforeEach`, `afterEach`, `beforeAll`, `afterAll`),
	"java":       compileAll(`@Before`, `@After`, `@BeforeClass`, `@AfterClass`),
	"cpp":        compileAll(`SetUp\(\)`, `TearDown\(\)`, `TEST_F`),
	"csharp":     compileAll(`\[SetUp\]`, `\[TearDown\]`),
	"rust":       compileAll(`#\[fixture\]`, `mod\s+tests\s*\{`),
	"unknown":    compileAll(`(?i)(?:setup|teardown|before|after)`),
}

var resetPatterns = compileAll(
	`(?i)(?:reset|clear|clean|new)`, `(?i)mock\w*\.reset`, `(?i)restore`)

var sharedStatePatterns = compileAll(
	`static\s+\w+\s*=`,
	`let\s+\w+\s*=.+;\s*(?:\n[^\n]*){2,}\s*\w+\s*=`,
	`var\s+\w+\s*=.+;\s*(?:\n[^\n]*){2,}\s*\w+\s*=`,
	`(?:global|nonlocal)\s+\w+`,
)

var globalVarPatterns = map[string][]*regexp.Regexp{
	"python":     compileAll(`(?m)(?:^|\s)global\s+\w+`),
	"javascript": compileAll(`(?:var|let|const)\s+\w+\s*=.+;\s*(?:\n[^\n]*\n)[^\n]*\s*\w+\s*=`),
	"typescript": compileAll(`(?:var|let|const)\s+\w+\s*=.+;\s*(?:\n[^\n]*\n)[^\n]*\s*\w+\s*=`),
	"java":       compileAll(`(?:static|public static|private static)\s+\w+\s+\w+\s*=`),
	"cpp":        compileAll(`(?:static|extern)\s+\w+\s+\w+\s*=`),
	"unknown":    compileAll(`(?:global|static)\s+\w+\s*=`),
}

var perTestFixturePatterns = map[string][]*regexp.Regexp{
	"python":     compileAll(`@pytest\.fixture\s*def\s+\w+`),
	"javascript": compileAll(`describe\([^)]+,\s*function\s*\(\)\s*\{[^}]*beforeEach`),
	"java":       compileAll(`@Rule\s+public\s+\w+`),
	"cpp":        compileAll(`class\s+\w+\s*:\s*public\s+::testing::Test`),
	"unknown":    compileAll(`(?i)(?:fixture|context|describe|suite)`),
}

func langPatterns(table map[string][]*regexp.Regexp, language string) []*regexp.Regexp {
	if ps, ok := table[language]; ok {
		return ps
	}
	return table["unknown"]
}

// scoreIsolation starts at 0.5 and moves up for setup/teardown, reset,
// and per-test fixtures, down for shared state and globals.
func scoreIsolation(testCode, language string) float64 {
	score := 0.0
	if anyMatch(langPatterns(setupTeardownPatterns, language), testCode) {
		score += 0.3
	}
	if anyMatch(resetPatterns, testCode) {
		score += 0.3
	}
	if anyMatch(langPatterns(perTestFixturePatterns, language), testCode) {
		score += 0.2
	}
	if anyMatch(sharedStatePatterns, testCode) {
		score -= 0.3
	}
	if anyMatch(langPatterns(globalVarPatterns, language), testCode) {
		score -= 0.2
	}
	return clamp01(score + 0.5)
}

// =============================================================================
// Task alignment
// =============================================================================

var alignmentWordRe = regexp.MustCompile(`\b\w{3,}\b`)

// alignmentCommonWords is a deliberately smaller stopword set than the
// lexical analyzer's; alignment only filters the noisiest words.
var alignmentCommonWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "implement": true, "create": true, "function": true,
	"code": true, "test": true, "should": true, "would": true,
	"could": true, "must": true, "may": true, "might": true,
}

var reqIndicators = []string{
	"requirement", "requirement_", "req_", "task_", "story_", "user_story",
}

// scoreTaskAlignment measures lexical overlap between the task
// description and the tests, with a bonus for explicit requirement-ID
// style tokens.
func scoreTaskAlignment(testCode, taskDescription string) float64 {
	terms := make(map[string]bool)
	for _, w := range alignmentWordRe.FindAllString(strings.ToLower(taskDescription), -1) {
		if !alignmentCommonWords[w] {
			terms[w] = true
		}
	}

	score := defaultAlignment
	if len(terms) > 0 {
		matched := 0
		lowerTest := strings.ToLower(testCode)
		for term := range terms {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
			if err == nil && re.MatchString(lowerTest) {
				matched++
			}
		}
		score = math.Min(1.0, float64(matched)/float64(len(terms))+0.2)
	}

	lowerTest := strings.ToLower(testCode)
	for _, ind := range reqIndicators {
		if strings.Contains(lowerTest, ind) {
			score = math.Min(1.0, score+0.1)
			break
		}
	}
	return score
}
