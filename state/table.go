package state

import "math"

type luaTable struct {
	arr       []any // arr[i] holds t[i+1]
	_map      map[any]any
	metatable *luaTable
	keys      map[any]any // used by next()
	lastKey   any         // used by next()
	changed   bool        // used by next()
}

func newLuaTable(nArr, nRec int) *luaTable {
	t := &luaTable{}
	if nArr > 0 {
		t.arr = make([]any, 0, nArr)
	}
	if nRec > 0 {
		t._map = make(map[any]any, nRec)
	}
	return t
}

func (self *luaTable) hasMetafield(fieldName string) bool {
	return self.metatable != nil && self.metatable.get(fieldName) != nil
}

// len returns a border of the array part.
func (self *luaTable) len() int {
	return len(self.arr)
}

func (self *luaTable) get(key any) any {
	key = normalizeKey(key)
	if idx, ok := key.(int64); ok {
		if idx >= 1 && idx <= int64(len(self.arr)) {
			return self.arr[idx-1]
		}
	}
	return self._map[key]
}

// put stores key=val. A nil or NaN key is reported to the caller; storing
// nil removes the entry.
func (self *luaTable) put(key, val any) (errMsg string) {
	if key == nil {
		return "table index is nil"
	}
	if f, ok := key.(float64); ok && math.IsNaN(f) {
		return "table index is NaN"
	}

	self.changed = true
	key = normalizeKey(key)
	if idx, ok := key.(int64); ok && idx >= 1 {
		arrLen := int64(len(self.arr))
		if idx <= arrLen {
			self.arr[idx-1] = val
			if idx == arrLen && val == nil {
				self._shrinkArray()
			}
			return ""
		}
		if idx == arrLen+1 {
			delete(self._map, key)
			if val != nil {
				self.arr = append(self.arr, val)
				self._expandArray()
			}
			return ""
		}
	}
	if val != nil {
		if self._map == nil {
			self._map = make(map[any]any, 8)
		}
		self._map[key] = val
	} else {
		delete(self._map, key)
	}
	return ""
}

func (self *luaTable) _shrinkArray() {
	for i := len(self.arr) - 1; i >= 0; i-- {
		if self.arr[i] == nil {
			self.arr = self.arr[0:i]
		} else {
			break
		}
	}
}

func (self *luaTable) _expandArray() {
	for idx := int64(len(self.arr)) + 1; true; idx++ {
		if val, found := self._map[idx]; found {
			delete(self._map, idx)
			self.arr = append(self.arr, val)
		} else {
			break
		}
	}
}

// nextKey drives next(): a nil key starts the iteration; the second result
// is false when the key was not produced by this iteration.
func (self *luaTable) nextKey(key any) (any, bool) {
	if self.keys == nil || (key == nil && self.changed) {
		self.initKeys()
		self.changed = false
	}

	key = normalizeKey(key)
	nextKey, found := self.keys[key]
	if !found && key != nil && key != self.lastKey {
		return nil, false
	}
	return nextKey, true
}

func (self *luaTable) initKeys() {
	self.keys = make(map[any]any)
	var key any = nil
	for i := range self.arr {
		if self.arr[i] != nil {
			self.keys[key] = int64(i + 1)
			key = int64(i + 1)
		}
	}
	for k := range self._map {
		if self._map[k] != nil {
			self.keys[key] = k
			key = k
		}
	}
	self.lastKey = key
}
