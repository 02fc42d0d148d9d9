package state

import "sync"

// Short strings are interned process-wide so repeated concatenations and
// literals share storage; long strings are left alone. Equality and
// hashing are on bytes either way, so interning is purely a space/speed
// trade.
const shortStringLimit = 40

var (
	internMu  sync.Mutex
	internMap = make(map[string]string, 256)
)

func (self *luaState) intern(s string) string {
	return Intern(s)
}

func Intern(s string) string {
	if len(s) > shortStringLimit {
		return s
	}
	internMu.Lock()
	defer internMu.Unlock()
	if cached, ok := internMap[s]; ok {
		return cached
	}
	internMap[s] = s
	return s
}
