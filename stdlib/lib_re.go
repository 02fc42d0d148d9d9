package stdlib

import (
	"regexp"

	glc "git.lolli.tech/lollipopkit/go_lru_cacher"

	. "github.com/lollipopkit/lua54/api"
)

// The re library exposes Go regular expressions; compiled patterns are
// kept in a small LRU cache.

var (
	reLib = map[string]GoFunction{
		"match":   reMatch,
		"find":    reFind,
		"replace": reReplace,
	}
	reCacher = glc.NewCacher(20)
)

func OpenReLib(ls State) {
	ls.Globals().Set("re", ls.NewLib(reLib))
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	if cached, ok := reCacher.Get(pattern); ok {
		if re, ok := cached.(*regexp.Regexp); ok {
			return re, nil
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	reCacher.Set(pattern, re)
	return re, nil
}

// re.match (s, pattern)
// return captures table or nil
func reMatch(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "match")
	pattern := checkString(ls, args, 2, "match")
	re, err := compileCached(pattern)
	if err != nil {
		return nil, argError(2, "match", err.Error())
	}

	m := re.FindStringSubmatch(s)
	if m == nil {
		return one(nil), nil
	}
	t := ls.NewTable(len(m), 0)
	for i, sub := range m {
		t.Set(int64(i+1), sub)
	}
	return one(t), nil
}

// re.find (s, pattern)
// return start, end (1-based, inclusive) or nil
func reFind(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "find")
	pattern := checkString(ls, args, 2, "find")
	re, err := compileCached(pattern)
	if err != nil {
		return nil, argError(2, "find", err.Error())
	}

	loc := re.FindStringIndex(s)
	if loc == nil {
		return one(nil), nil
	}
	return []any{int64(loc[0] + 1), int64(loc[1])}, nil
}

// re.replace (s, pattern, repl)
func reReplace(ls State, args []any) ([]any, error) {
	s := checkString(ls, args, 1, "replace")
	pattern := checkString(ls, args, 2, "replace")
	repl := checkString(ls, args, 3, "replace")
	re, err := compileCached(pattern)
	if err != nil {
		return nil, argError(2, "replace", err.Error())
	}
	return one(re.ReplaceAllString(s, repl)), nil
}
