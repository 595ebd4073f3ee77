// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package quality scores generated test code on seven orthogonal
// heuristic dimensions and combines them into one overall quality
// score in [0,1].
//
// All scoring is regex-based and language-fuzzy on purpose: the input
// is LLM-generated test code in any of ten languages, often not even
// syntactically valid, so an AST is the wrong tool. Pattern tables are
// versioned constant data in this file; scoring control flow lives in
// scorer.go.
package quality

import "regexp"

// =============================================================================
// Test-type pattern tables
// =============================================================================

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// unitTestPatterns match test-function declarations across languages.
var unitTestPatterns = compileAll(
	`test_\w+`, `def test_`,
	`function test`, `it\(\s*['"]\w+`, `test\(\s*['"]\w+`,
	`@Test`, `void test\w+\s*\(`,
	`TEST\(`, `TEST_F\(`, `BOOST_(?:AUTO_)?TEST_CASE`,
	`#\[test\]`, `fn test_\w+`,
	`assert_\w+`, `check_\w+`,
)

var parameterizedPatterns = compileAll(
	`@parameterized`, `@pytest\.mark\.parametrize`,
	`test\.each\(`, `it\.each\(`,
	`@ParameterizedTest`, `@CsvSource`, `@ValueSource`,
	`INSTANTIATE_TEST_SUITE_P`, `TEST_P`,
	`#\[rstest\]`, `#\[case\]`,
	`(?:for|foreach)\s*\([^)]*\)\s*\{[^}]*(?:test|assert)`,
)

var assertionPatterns = compileAll(
	`assert`, `expect\(.*\)\.to`, `should\.`,
	`assertEquals`, `assertTrue`, `assertFalse`, `verify\(`,
	`ASSERT_`, `EXPECT_`, `BOOST_(?:CHECK|REQUIRE|TEST)`,
	`assert!`, `assert_eq!`, `assert_ne!`,
	`is_equal`, `isEqual`, `areEqual`, `notEqual`,
	`is\s*\(`, `\.not\.`, `be\.`,
)

var edgeCasePatterns = compileAll(
	`(?i)edge\s*case`, `(?i)boundary`, `(?i)empty`,
	`(?i)null`, `(?i)nil`, `(?i)none`, `(?i)undefined`, `(?i)Option::None`,
	`(?i)exception`, `(?i)error`, `(?i)throw`, `(?i)unwrap`, `(?i)panic`, `(?i)fail`,
	`(?i)overflow`, `(?i)underflow`, `(?i)zero`, `(?i)NaN`, `(?i)Infinity`,
	`(?i)max\s*value`, `(?i)min\s*value`, `(?i)INT_MAX`, `(?i)INT_MIN`, `(?i)std::numeric_limits`,
	`(?i)special\s*character`, `(?i)unicode`, `(?i)utf`,
	`(?i)(?:very|too)\s*(?:large|small|long|short)`,
)

var mockingPatterns = compileAll(
	`mock`, `stub`, `fake`, `spy`, `dummy`, `double`,
	`@Mock`, `createMock`, `MockBean`, `mockito`,
	`jest\.fn`, `sinon`, `moq`, `gmock`, `test::mock`,
	`setUp\([^)]*mock`, `setup\([^)]*mock`,
	`patch`, `MagicMock`,
)

var fixturePatterns = compileAll(
	`(?:before|after)(?:Each|All)`, `setUp`, `tearDown`,
	`@Before`, `@After`, `@BeforeClass`, `@AfterClass`,
	`TestFixture`, `fixture`, `FIXTURE`,
	`describe\([^)]*,\s*function`, `xdescribe`, `fdescribe`,
)

var performancePatterns = compileAll(
	`benchmark`, `perf`, `performance`, `timing`, `elapsed`,
	`Duration`, `Stopwatch`, `time\.time`, `System\.nanoTime`,
	`Date\.now`, `performance\.now`, `hrtime`, `clock\(\)`,
	`CLOCK_`, `std::chrono`, `boost::timer`,
)

var securityPatterns = compileAll(
	`security`, `vulnerability`, `exploit`, `attack`, `injection`,
	`sanitize`, `escape`, `XSS`, `CSRF`, `overflow`, `underflow`,
	`authenticate`, `authorize`, `permission`, `privilege`,
)

var testGroupingRe = regexp.MustCompile(
	`(?:describe\s*\(|suite\s*\(|class\s+\w+Test|@Nested|context\s*\(|xdescribe|fdescribe)`)

var dataDrivenRe = regexp.MustCompile(
	`(?:test\.each|@TestFactory|@DataProvider|testdata|@UseDataProvider|@CsvSource|@ValueSource)`)

// =============================================================================
// Language detection
// =============================================================================

// languageOrder fixes the arg-max tie-break in DetectLanguage.
var languageOrder = []string{
	"python", "javascript", "typescript", "java", "cpp",
	"csharp", "rust", "bash", "go", "ruby",
}

var languageFeatures = map[string][]*regexp.Regexp{
	"python": compileAll(`def\s+\w+`, `import\s+`, `from\s+\w+\s+import`, `(?m):\s*$`, `pytest`, `unittest`),
	"javascript": compileAll(`function\s+`, `const\s+`, `let\s+`, `var\s+`, `=>\s*\{`, `jest`, `mocha`),
	"typescript": compileAll(`interface\s+`, `class\s+`, `type\s+`, `:\s*\w+`, `<\w+>`),
	"java": compileAll(`public\s+class`, `private\s+\w+`, `protected\s+\w+`, `@Test`, `JUnit`, `TestNG`),
	"cpp": compileAll(`#include`, `::\s*\w+`, `std::`, `template\s*<`, `namespace`, `gtest`,
		`expected<`, `std::format`, `std::print`, `auto\s*\(\s*\w+\s*\)`, `if\s+consteval`),
	"csharp": compileAll(`namespace\s+`, `using\s+\w+;`, `public\s+(?:class|void)`, `NUnit`, `xUnit`),
	"rust": compileAll(`fn\s+\w+`, `let\s+mut`, `impl\s+`, `pub\s+`, `struct\s+`, `enum\s+`, `mod\s+`, `#\[test\]`),
	"bash": compileAll(`\[\[`, `\$\(`, `\$\{`, `function\s+\w+\s*\(\)`, `echo`, `#!/`),
	"go":   compileAll(`func\s+\w+`, `package\s+\w+`, `import\s+\(`, `func Test\w+\(t \*testing\.T\)`),
	"ruby": compileAll(`def\s+\w+`, `describe\s+`, `it\s+`, `require\s+`, `rspec`, `test_`),
}

// DetectLanguage guesses the programming language of a code blob.
//
// Description:
//
//	Each known language scores the number of feature-pattern hits in
//	the code. The arg-max language wins; ties break to the earliest
//	language in the fixed enumeration order. All-zero scores return
//	"unknown".
//
// Outputs:
//
//	string - Language name or "unknown".
func DetectLanguage(code string) string {
	if code == "" {
		return "unknown"
	}
	best, bestScore := "unknown", 0
	for _, lang := range languageOrder {
		score := 0
		for _, re := range languageFeatures[lang] {
			score += len(re.FindAllString(code, -1))
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	return best
}

// =============================================================================
// Raw counts
// =============================================================================

// CountTests counts test-function-like patterns in test code.
func CountTests(testCode string) int {
	count := 0
	for _, re := range unitTestPatterns {
		count += len(re.FindAllString(testCode, -1))
	}
	return count
}

// CountAssertions counts assertion-like patterns in test code.
func CountAssertions(testCode string) int {
	count := 0
	for _, re := range assertionPatterns {
		count += len(re.FindAllString(testCode, -1))
	}
	return count
}
