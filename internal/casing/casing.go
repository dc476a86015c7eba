// Package casing converts identifiers between Go and snake_case forms.
package casing

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronyms are kept upper-cased in Go identifiers.
var acronyms = map[string]struct{}{
	"ACL": {}, "API": {}, "ASCII": {}, "AWS": {}, "CPU": {}, "CSS": {}, "DNS": {},
	"EOF": {}, "GUID": {}, "HTML": {}, "HTTP": {}, "HTTPS": {}, "ID": {}, "IP": {},
	"JSON": {}, "QPS": {}, "RAM": {}, "RPC": {}, "SLA": {}, "SMTP": {}, "SQL": {},
	"SSH": {}, "TCP": {}, "TLS": {}, "TTL": {}, "UDP": {}, "UI": {}, "UID": {},
	"URI": {}, "URL": {}, "UTF8": {}, "UUID": {}, "VM": {}, "XML": {}, "XSRF": {},
	"XSS": {},
}

// Snake converts the given Go identifier to snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
//	UserIDs  => user_ids
func Snake(s string) string {
	var (
		j  int
		b  strings.Builder
		rs = []rune(s)
	)
	for i, r := range rs {
		// Put '_' if the current letter is uppercase and not at a word edge:
		// the previous letter is lowercase ("UserInfo"), or the next letter is
		// lowercase and the previous one closes an acronym ("HTTPCode").
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rs[i-1]) ||
				j != i-1 && unicode.IsLower(rs[i+1]) && unicode.IsLetter(rs[i-1]) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Pascal converts the given snake_case name to a PascalCase Go identifier.
//
//	user_info => UserInfo
//	user_id   => UserID
//	user_ids  => UserIDs
//	api_url   => APIURL
func Pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		words[i] = pascalWord(w)
	}
	return strings.Join(words, "")
}

// Camel converts the given snake_case name to a camelCase Go identifier.
//
//	user_info => userInfo
//	user_id   => userID
//	http_code => httpCode
func Camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	if len(words) == 0 {
		return ""
	}
	words[0] = strings.ToLower(words[0])
	for i := 1; i < len(words); i++ {
		words[i] = pascalWord(words[i])
	}
	return strings.Join(words, "")
}

// Receiver returns the receiver name of the given type.
//
//	User        => u
//	UserQuery   => uq
//	*HTTPClient => hc
func Receiver(s string) string {
	s = strings.Trim(s, "[]*&0123456789")
	var b strings.Builder
	for _, w := range strings.Split(Snake(s), "_") {
		if r, _ := utf8.DecodeRuneInString(w); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	name := strings.ToLower(b.String())
	if token.Lookup(name).IsKeyword() {
		name = "_" + name
	}
	return name
}

func pascalWord(w string) string {
	upper := strings.ToUpper(w)
	if _, ok := acronyms[upper]; ok {
		return upper
	}
	// Plural acronyms: ids => IDs.
	if stem, ok := strings.CutSuffix(w, "s"); ok && len(stem) > 1 {
		if _, ok := acronyms[strings.ToUpper(stem)]; ok {
			return strings.ToUpper(stem) + "s"
		}
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + w[size:]
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
