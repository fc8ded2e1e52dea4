// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cjktext normalizes whitespace artifacts around CJK text.
//
// PDF text extraction tends to insert spurious spaces between adjacent
// Chinese, Japanese, and Korean characters because the extractor emits one
// text run per glyph cluster. Normalize removes those gaps while leaving
// genuine word separators in Latin text intact.
package cjktext

import "regexp"

// cjkClass covers the code-point ranges treated as CJK for gap removal:
// unified ideographs, extension A, compatibility ideographs, CJK symbols
// and punctuation, halfwidth/fullwidth forms, and general punctuation.
const cjkClass = `\x{4e00}-\x{9fff}` +
	`\x{3400}-\x{4dbf}` +
	`\x{f900}-\x{faff}` +
	`\x{3000}-\x{303f}` +
	`\x{ff00}-\x{ffef}` +
	`\x{2000}-\x{206f}`

// cjkPunctClass enumerates fullwidth and typographic punctuation: ideographic
// comma/stop, fullwidth comma, period, colon, semicolon, exclamation and
// question marks, curly quotes, fullwidth parentheses, and lenticular/angle
// brackets.
const cjkPunctClass = `\x{3001}-\x{3002}` +
	`\x{ff0c}\x{ff0e}\x{ff1a}\x{ff1b}\x{ff01}\x{ff1f}` +
	`\x{201c}\x{201d}\x{2018}\x{2019}` +
	`\x{ff08}\x{ff09}\x{3010}\x{3011}\x{300a}\x{300b}`

// blank matches one or more whitespace characters excluding newline, so line
// structure survives every pass. The class is spelled out because \s in RE2
// covers ASCII only, and extractors emit Unicode spaces: NBSP, the en/em
// space block, narrow NBSP, and the ideographic space U+3000.
const blank = `[\t\x{0b}\f\r \x{1c}-\x{1f}\x{85}\x{a0}\x{1680}` +
	`\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]+`

var (
	cjkGap       = regexp.MustCompile(`([` + cjkClass + `])` + blank + `([` + cjkClass + `])`)
	cjkThenPunct = regexp.MustCompile(`([` + cjkClass + `])` + blank + `([` + cjkPunctClass + `])`)
	punctThenCJK = regexp.MustCompile(`([` + cjkPunctClass + `])` + blank + `([` + cjkClass + `])`)
	blankRun     = regexp.MustCompile(blank)
)

// Normalize removes extraction artifacts from text: whitespace runs between
// two CJK characters are deleted, whitespace runs between a CJK character and
// CJK punctuation are deleted, and any remaining run of non-newline
// whitespace collapses to a single ASCII space. Newlines are never removed or
// collapsed, and spaces adjacent to a newline are kept as-is.
//
// Normalize is a pure function: it accepts any string, never fails, and is
// idempotent.
func Normalize(text string) string {
	text = deleteGaps(cjkGap, text)
	text = deleteGaps(cjkThenPunct, text)
	text = deleteGaps(punctThenCJK, text)
	return blankRun.ReplaceAllString(text, " ")
}

// deleteGaps joins the captured pair until no match remains. A single
// substitution pass is not enough: matches cannot overlap, so in a run like
// "甲 乙 丙" the first replacement consumes 乙 and leaves the second gap
// untouched.
func deleteGaps(re *regexp.Regexp, s string) string {
	for {
		next := re.ReplaceAllString(s, "${1}${2}")
		if next == s {
			return s
		}
		s = next
	}
}
