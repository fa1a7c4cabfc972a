package core

import (
	"regexp"
	"sort"
	"strings"
)

// truthyWords is the fixed vocabulary GetBooleanValue accepts as true.
var truthyWords = map[string]struct{}{
	"ON":       {},
	"SELECTED": {},
	"CHECKED":  {},
	"YES":      {},
	"Y":        {},
	"TRUE":     {},
	"T":        {},
}

// TruthyWords returns the words GetBooleanValue treats as true, sorted.
func TruthyWords() []string {
	words := make([]string, 0, len(truthyWords))
	for w := range truthyWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

var (
	leadingKeyword    = regexp.MustCompile(`^[\s(]*([A-Za-z]+)`)
	rowProducingWords = map[string]struct{}{
		"SELECT":   {},
		"SHOW":     {},
		"DESCRIBE": {},
		"DESC":     {},
		"EXPLAIN":  {},
		"PRAGMA":   {},
		"WITH":     {},
		"VALUES":   {},
	}
)

// StatementKind classifies SQL text by the kind of outcome it produces.
type StatementKind int

const (
	// StatementExec yields only a success indicator.
	StatementExec StatementKind = iota
	// StatementInsert yields a success indicator and a last insert id.
	StatementInsert
	// StatementRows yields a result set.
	StatementRows
)

// Classify decides how a statement is executed from its leading keyword.
// INSERT and REPLACE are inserts; SELECT, SHOW, DESCRIBE, EXPLAIN, PRAGMA,
// WITH and VALUES yield rows; anything else is a plain exec.
func Classify(sql string) StatementKind {
	m := leadingKeyword.FindStringSubmatch(sql)
	if m == nil {
		return StatementExec
	}
	word := strings.ToUpper(m[1])
	if word == "INSERT" || word == "REPLACE" {
		return StatementInsert
	}
	if _, ok := rowProducingWords[word]; ok {
		return StatementRows
	}
	return StatementExec
}
